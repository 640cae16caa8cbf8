package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"upscout/internal/config"
	"upscout/internal/logging"
	"upscout/pkg/models"
)

// RedisStore implements Store on top of a Redis instance, with listing
// records stored as JSON documents and a per-caller index set backing
// Query.
type RedisStore struct {
	client *redis.Client
	logger logging.Logger
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(cfg *config.Config) *RedisStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &RedisStore{
		client: redis.NewClient(opts),
		logger: logging.GetGlobalLogger(),
	}
}

// Get returns the listing stored under key
func (s *RedisStore) Get(ctx context.Context, key string) (*models.Listing, bool, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get listing %s: %w", key, err)
	}

	var listing models.Listing
	if err := json.Unmarshal([]byte(data), &listing); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal listing %s: %w", key, err)
	}

	return &listing, true, nil
}

// Set stores the listing under key and registers it in the caller index
func (s *RedisStore) Set(ctx context.Context, key string, listing *models.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store listing %s: %w", key, err)
	}

	if listing.UserID != "" {
		if err := s.client.SAdd(ctx, indexKey(listing.UserID), key).Err(); err != nil {
			return fmt.Errorf("failed to index listing %s: %w", key, err)
		}
	}

	return nil
}

// Update applies a partial field update to the JSON document under key
func (s *RedisStore) Update(ctx context.Context, key string, fields map[string]interface{}) error {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("listing %s does not exist", key)
		}
		return fmt.Errorf("failed to read listing %s for update: %w", key, err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return fmt.Errorf("failed to unmarshal listing %s: %w", key, err)
	}

	for k, v := range fields {
		doc[k] = v
	}

	updated, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal updated listing %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, updated, 0).Err(); err != nil {
		return fmt.Errorf("failed to write updated listing %s: %w", key, err)
	}

	return nil
}

// Query returns the caller's listings, newest capture date first
func (s *RedisStore) Query(ctx context.Context, userID string, limit int) ([]models.Listing, error) {
	keys, err := s.client.SMembers(ctx, indexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index for %s: %w", userID, err)
	}

	listings := make([]models.Listing, 0, len(keys))
	for _, key := range keys {
		listing, ok, err := s.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Skipping unreadable listing during query", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			continue
		}
		if !ok {
			// Stale index entry; the document was removed out of band.
			continue
		}
		listings = append(listings, *listing)
	}

	sortListings(listings)

	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	return listings, nil
}

// Ping tests the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// sortListings orders by capture date descending, then title ascending
// for a stable presentation order.
func sortListings(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].CaptureDate != listings[j].CaptureDate {
			return listings[i].CaptureDate > listings[j].CaptureDate
		}
		return listings[i].Title < listings[j].Title
	})
}
