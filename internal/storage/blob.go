package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no blob is stored under the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore holds opaque blobs under string keys. Put replaces the whole
// blob; there are no partial writes.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ReadAll fetches the blob under key into memory.
func ReadAll(ctx context.Context, bs BlobStore, key string) ([]byte, error) {
	rc, err := bs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// WriteAll stores b under key.
func WriteAll(ctx context.Context, bs BlobStore, key string, b []byte) error {
	_, err := bs.Put(ctx, key, bytes.NewReader(b))
	return err
}
