package storage

import "context"

// KV is the backing key-value store. Get reports presence explicitly so a
// missing key is distinguishable from an empty value.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
