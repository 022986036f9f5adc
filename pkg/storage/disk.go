// Package storage stores uploaded product images on a flat Disk.
//
// Two drivers exist: "local" (a directory, served under /uploads) and "s3"
// (any S3-compatible bucket: AWS, MinIO, R2, Spaces).
//
//	disk, err := storage.Open(config.StorageDefault())
//	err = disk.Put(ctx, "1714550400000-shirt.png", file)
//	url := disk.URL("1714550400000-shirt.png")
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Get when the file does not exist.
var ErrNotFound = errors.New("storage: file not found")

// File describes one stored object.
type File struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Disk is implemented by every driver. Names are flat (no directories).
type Disk interface {
	// Put writes r to name, replacing any existing file.
	Put(ctx context.Context, name string, r io.Reader) error

	// Get opens name for reading. The caller closes it.
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	Exists(ctx context.Context, name string) (bool, error)

	// Delete removes name. A missing file is not an error.
	Delete(ctx context.Context, name string) error

	// List returns every stored file.
	List(ctx context.Context) ([]File, error)

	// URL is the public URL for name. It may be root-relative.
	URL(name string) string
}
