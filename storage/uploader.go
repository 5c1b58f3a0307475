package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Uploader stores an uploaded file and resolves a durable download URL for
// it. An upload failure aborts the enclosing operation; nothing is retried.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// DiskUploader writes uploads under a local directory and serves them from
// BaseURL. Keys are derived from the upload time and the original filename,
// so repeated uploads of the same file never collide.
type DiskUploader struct {
	Dir     string
	BaseURL string
}

// NewDiskUploader creates the upload directory if needed.
func NewDiskUploader(dir, baseURL string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &DiskUploader{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (u *DiskUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(filename))

	dst, err := os.Create(filepath.Join(u.Dir, key))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	return u.BaseURL + "/uploads/" + url.PathEscape(key), nil
}
