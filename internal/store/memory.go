package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"upscout/pkg/models"
)

// MemoryStore is an in-memory Store used by tests and local development.
// It mirrors the Redis implementation's semantics, including partial
// updates by JSON field name.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]models.Listing
	index map[string][]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]models.Listing),
		index: make(map[string][]string),
	}
}

// Get returns the listing stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) (*models.Listing, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	copy := listing
	return &copy, true, nil
}

// Set stores the listing under key and registers it in the caller index
func (s *MemoryStore) Set(ctx context.Context, key string, listing *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[key]; !exists && listing.UserID != "" {
		s.index[listing.UserID] = append(s.index[listing.UserID], key)
	}
	s.docs[key] = *listing
	return nil
}

// Update applies a partial field update to the document under key
func (s *MemoryStore) Update(ctx context.Context, key string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.docs[key]
	if !ok {
		return fmt.Errorf("listing %s does not exist", key)
	}

	// Round-trip through JSON so field names match the wire format,
	// exactly as the Redis implementation does.
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var updated models.Listing
	if err := json.Unmarshal(merged, &updated); err != nil {
		return err
	}

	s.docs[key] = updated
	return nil
}

// Query returns the caller's listings, newest capture date first
func (s *MemoryStore) Query(ctx context.Context, userID string, limit int) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.index[userID]
	listings := make([]models.Listing, 0, len(keys))
	for _, key := range keys {
		if listing, ok := s.docs[key]; ok {
			listings = append(listings, listing)
		}
	}

	sortListings(listings)

	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	return listings, nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
