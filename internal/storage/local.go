package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// localStorage implements Storage on a flat local-disk directory.
// Stored names are generated by the caller, so no user-controlled path
// segments ever reach the filesystem; Base strips any that slip through.
type localStorage struct {
	dir string
}

// NewLocal creates a local-disk storage rooted at dir, creating it if missing.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &localStorage{dir: dir}, nil
}

func (l *localStorage) Put(ctx context.Context, name string, r io.Reader, opt PutOptions) (ObjectInfo, error) {
	name = filepath.Base(name)
	path := filepath.Join(l.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create blob file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return ObjectInfo{}, fmt.Errorf("write blob file: %w", err)
	}

	return ObjectInfo{Path: path, Size: n, ContentType: opt.ContentType}, nil
}

func (l *localStorage) Get(ctx context.Context, path string) (io.ReadCloser, ObjectInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("open blob file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat blob file: %w", err)
	}
	return f, ObjectInfo{Path: path, Size: st.Size()}, nil
}

// Delete removes the blob. A file that is already gone is tolerated.
func (l *localStorage) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob file: %w", err)
	}
	return nil
}
