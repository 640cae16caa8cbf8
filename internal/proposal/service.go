package proposal

import (
	"context"
	"encoding/json"
	"fmt"

	"upscout/internal/logging"
	"upscout/internal/store"
	"upscout/pkg/models"
	"upscout/pkg/utils"
)

// Service resolves proposals for stored listings with a cache-first
// discipline: an existing proposal is returned as-is and the generator
// is never spawned for it.
type Service struct {
	store     store.Store
	generator Generator
	logger    logging.Logger
}

// NewService creates a proposal service over the given store and generator
func NewService(st store.Store, gen Generator) *Service {
	return &Service{
		store:     st,
		generator: gen,
		logger:    logging.GetGlobalLogger(),
	}
}

// GetOrGenerate returns the proposal for the listing identified by the
// request's identity fields. The listing must already exist in the
// store; a cached proposal is returned without spawning the generator.
// Otherwise the generator runs, the trimmed text is persisted onto the
// stored record and returned. The second result reports whether the
// proposal came from cache.
func (s *Service) GetOrGenerate(ctx context.Context, userID string, listing models.Listing) (string, bool, error) {
	key := store.ListingKey(userID, &listing)

	stored, exists, err := s.store.Get(ctx, key)
	if err != nil {
		return "", false, utils.NewPersistenceError(fmt.Sprintf("failed to look up listing: %v", err))
	}
	if !exists {
		return "", false, utils.NewNotFoundError(fmt.Sprintf(
			"no stored listing for %q captured %s", listing.Title, listing.CaptureDate))
	}

	if stored.HasProposal() {
		s.logger.Debug("Returning cached proposal", map[string]interface{}{
			"key":   key,
			"title": stored.Title,
		})
		return stored.Proposal, true, nil
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return "", false, utils.NewGenerationError(fmt.Sprintf("failed to serialize listing: %v", err))
	}

	text, err := s.generator.Generate(ctx, payload)
	if err != nil {
		return "", false, err
	}

	if err := s.store.Update(ctx, key, map[string]interface{}{"proposal": text}); err != nil {
		return "", false, utils.NewPersistenceError(fmt.Sprintf("failed to persist proposal: %v", err))
	}

	s.logger.Info("Generated and stored proposal", map[string]interface{}{
		"key":    key,
		"title":  stored.Title,
		"length": len(text),
	})

	return text, false, nil
}
