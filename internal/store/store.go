package store

import (
	"context"

	"upscout/pkg/models"
)

// Store is the durable document store collaborator. Documents are JSON
// listing records addressed by a derived string key (see keys.go).
//
// The store is treated as eventually consistent on read-after-write for
// its own session. Scrape inserts and proposal writes both follow a
// read-then-conditionally-write pattern without store-level locking, so
// races between true concurrent writers to the same identity key are an
// accepted open risk.
type Store interface {
	// Get returns the listing stored under key. The second return value
	// reports whether the key exists.
	Get(ctx context.Context, key string) (*models.Listing, bool, error)

	// Set stores the listing under key, replacing any existing document.
	Set(ctx context.Context, key string, listing *models.Listing) error

	// Update applies a partial field update to the document under key.
	// Field names are the listing's JSON names.
	Update(ctx context.Context, key string, fields map[string]interface{}) error

	// Query returns up to limit listings scoped to the given caller,
	// newest capture date first. limit <= 0 means no limit.
	Query(ctx context.Context, userID string, limit int) ([]models.Listing, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
