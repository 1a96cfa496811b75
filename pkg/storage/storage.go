package storage

import (
	"context"
	"io"
)

// ObjectStore is the write side shared by the upload drivers.
type ObjectStore interface {
	// Put stores r under key and returns the public URL of the object.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
