// Package storage provides blob storage for media assets. Metadata rows live
// in Postgres; the bytes themselves live in an S3-compatible object store
// addressed by string keys.
package storage

import (
	"context"
)

// BlobStore abstracts the object store. Implementations must be safe for
// concurrent use.
type BlobStore interface {
	// Upload writes a blob under the given key, overwriting any existing one.
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// Remove deletes the given keys. It stops at the first failure and
	// returns it.
	Remove(ctx context.Context, keys []string) error

	// PublicURL returns the public URL for a key. Pure string construction,
	// not a network call.
	PublicURL(key string) string
}
