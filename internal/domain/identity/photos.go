package identity

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PhotoStore persists profile photo bytes and hands back a serveable URL.
type PhotoStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// DiskPhotoStore keeps photos on the local filesystem under dir and serves
// them under baseURL.
type DiskPhotoStore struct {
	dir     string
	baseURL string
}

func NewDiskPhotoStore(dir, baseURL string) (*DiskPhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &DiskPhotoStore{dir: dir, baseURL: baseURL}, nil
}

func (d *DiskPhotoStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	path := filepath.Join(d.dir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return d.baseURL + "/" + filepath.Base(filename), nil
}

func (d *DiskPhotoStore) Remove(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, filepath.Base(url)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
