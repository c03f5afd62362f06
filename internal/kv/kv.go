// Package kv provides the durable key-value storage the transaction store
// persists into. Values are opaque strings; the store serializes its
// collections to JSON before writing.
package kv

import "context"

// Store is the durable key-value port. Get reports absence via the boolean,
// not an error; errors are reserved for storage failures.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
