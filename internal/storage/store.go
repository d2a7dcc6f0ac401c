package storage

import "errors"

var (
	// ErrKeyNotFound is returned when a key has no stored value.
	ErrKeyNotFound = errors.New("key not found")
)

// Store is a single storage tier holding raw JSON documents by key.
// Persistence tries tiers in a fixed priority order; any implementation
// can serve as either tier.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}
