// Package metadata stores small durable key/value slots in the local SQLite
// database. Slots are grouped by scope so several local profiles can keep
// independent credentials in one file.
package metadata

import (
	"context"
)

// Repository is a scoped key/value store. Get returns (nil, nil) for a key
// that was never set.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
