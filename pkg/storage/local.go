package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk keeps files in one directory.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocal returns a disk rooted at root. baseURL prefixes URL(); an empty
// value yields root-relative "/uploads/<name>" links.
func NewLocal(root, baseURL string) (*LocalDisk, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", abs, err)
	}
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalDisk{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the directory the disk writes to.
func (d *LocalDisk) Root() string { return d.root }

// path rejects names that would escape the root.
func (d *LocalDisk) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("storage/local: invalid name %q", name)
	}
	return filepath.Join(d.root, name), nil
}

func (d *LocalDisk) Put(_ context.Context, name string, r io.Reader) error {
	full, err := d.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", name, err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage/local: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage/local: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage/local: rename %s: %w", name, err)
	}
	return nil
}

func (d *LocalDisk) Get(_ context.Context, name string) (io.ReadCloser, error) {
	full, err := d.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", name, err)
	}
	return f, nil
}

func (d *LocalDisk) Exists(_ context.Context, name string) (bool, error) {
	full, err := d.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("storage/local: stat %s: %w", name, err)
	}
}

func (d *LocalDisk) Delete(_ context.Context, name string) error {
	full, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", name, err)
	}
	return nil
}

func (d *LocalDisk) List(_ context.Context) ([]File, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: list: %w", err)
	}
	out := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, File{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return out, nil
}

func (d *LocalDisk) URL(name string) string {
	return d.baseURL + "/" + url.PathEscape(name)
}
