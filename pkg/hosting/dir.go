package hosting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirHost writes images into a directory that a Server on the same host serves
type DirHost struct {
	Dir     string
	BaseURL string
}

// NewDirHost creates a DirHost
func NewDirHost(dir, baseURL string) *DirHost {
	return &DirHost{Dir: dir, BaseURL: baseURL}
}

// Upload writes data to Dir/filename and returns the URL the Server will serve it at
func (d *DirHost) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if !ValidFilename(filename) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	path, err := d.Save(filename, data)
	if err != nil {
		return "", unavailable("failed to write %s: %w", path, err)
	}
	return ImageURL(d.BaseURL, filename), nil
}

// Save writes data to Dir/filename and returns the file path
func (d *DirHost) Save(filename string, data []byte) (string, error) {
	if !ValidFilename(filename) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(d.Dir, filename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return path, err
	}
	return path, os.Rename(tmp, path)
}
