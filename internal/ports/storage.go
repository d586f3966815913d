package ports

import (
	"context"
	"time"
)

// ObjectStorage is the private binary store keyed by path.
// Put must refuse to overwrite an existing key.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Fetch(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// ObjectURL is the stored reference for a key. It identifies the
	// object but does not grant access to it.
	ObjectURL(key string) string
}
