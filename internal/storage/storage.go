package storage

import (
	"context"
	"io"
)

// Package storage contains blob persistence for uploaded file bytes.
// The default implementation keeps renamed files in a flat directory on local
// disk; an S3-compatible implementation is available for object stores.

// PutOptions define optional parameters for storing blobs.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as the backend supports.
type PutOptions struct {
	Size        int64
	ContentType string
}

// ObjectInfo contains basic information about a stored blob.
// Path is the storage location recorded on the owning FileRecord and is the
// handle for later Get/Delete calls.
type ObjectInfo struct {
	Path        string
	Size        int64
	ContentType string
}

// Storage persists uploaded file bytes under generated names.
// Delete is best-effort friendly: removing a blob that is already gone must
// return nil so a dangling record never blocks cleanup.
type Storage interface {
	// Put stores the blob under the given generated name using the provided
	// reader and options.
	Put(ctx context.Context, name string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	// Get retrieves a blob's content as a streaming reader alongside its info.
	Get(ctx context.Context, path string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes a blob by path. A missing blob is not an error.
	Delete(ctx context.Context, path string) error
}
