// Package redistore adapts a Redis client to the engine's hash store
// contract. Each persisted object maps to one Redis hash.
package redistore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// rowMarker keeps a row observable when an object has no fields; HSET
// rejects an empty field map.
const rowMarker = "__row"

// Store persists hashes through a Redis client.
type Store struct {
	client redis.UniversalClient
}

// New wraps an already-configured client.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// WriteHash stores fields under key with HSET.
func (s *Store) WriteHash(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		if err := s.client.HSet(ctx, key, rowMarker, "").Err(); err != nil {
			return fmt.Errorf("redistore: write %q: %w", key, err)
		}
		return nil
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("redistore: write %q: %w", key, err)
	}
	return nil
}

// ReadHash fetches the full hash at key with HGETALL. Redis reports an
// absent key as an empty result, which matches the store contract.
func (s *Store) ReadHash(ctx context.Context, key string) (map[string]string, error) {
	row, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redistore: read %q: %w", key, err)
	}
	delete(row, rowMarker)
	return row, nil
}
