package store

import (
	"context"

	"upscout/internal/logging"
	"upscout/pkg/models"
)

// Persister merges a freshly scraped batch into the durable store with
// an at-most-once-per-identity insert discipline.
type Persister struct {
	store  Store
	logger logging.Logger
}

// NewPersister creates a new Persister backed by the given store
func NewPersister(store Store) *Persister {
	return &Persister{
		store:  store,
		logger: logging.GetGlobalLogger(),
	}
}

// PersistBatch deduplicates the batch by identity key (first-seen wins,
// input order preserved) and inserts each surviving candidate only if
// its key is absent from the store. Existing records are never
// overwritten, so a proposal attached by an earlier run survives a
// re-scrape. Store errors are logged per record and that record is
// skipped; the rest of the batch continues.
//
// Returns the newly inserted records (in input order) and the number of
// pre-existing (duplicate) matches.
func (p *Persister) PersistBatch(ctx context.Context, userID string, batch []models.Listing) (inserted []models.Listing, duplicates int) {
	seen := make(map[string]bool, len(batch))

	for i := range batch {
		listing := batch[i]
		listing.UserID = userID

		hash := IdentityHash(&listing)
		if seen[hash] {
			continue
		}
		seen[hash] = true

		key := ListingKey(userID, &listing)

		_, exists, err := p.store.Get(ctx, key)
		if err != nil {
			p.logger.Warn("Skipping listing after store read failure", map[string]interface{}{
				"key":   key,
				"title": listing.Title,
				"error": err.Error(),
			})
			continue
		}

		if exists {
			duplicates++
			p.logger.Debug("Listing already stored", map[string]interface{}{
				"key":   key,
				"title": listing.Title,
			})
			continue
		}

		if err := p.store.Set(ctx, key, &listing); err != nil {
			p.logger.Warn("Skipping listing after store write failure", map[string]interface{}{
				"key":   key,
				"title": listing.Title,
				"error": err.Error(),
			})
			continue
		}

		inserted = append(inserted, listing)
	}

	p.logger.Info("Persisted scraped batch", map[string]interface{}{
		"user_id":    userID,
		"batch_size": len(batch),
		"inserted":   len(inserted),
		"duplicates": duplicates,
	})

	return inserted, duplicates
}
