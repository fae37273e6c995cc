package persist

import "context"

// Store is the hash-oriented key/value contract sessions persist through.
// One persisted object occupies one key whose value is a flat field-name to
// text mapping. Implementations must return an empty map, not an error, for
// an absent key. No atomicity is assumed across keys, and the engine adds
// no retries: a store call completes or fails outright.
type Store interface {
	WriteHash(ctx context.Context, key string, fields map[string]string) error
	ReadHash(ctx context.Context, key string) (map[string]string, error)
}
