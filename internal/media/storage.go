// Package media persists uploaded images on local disk under a
// public-servable directory and hands back /uploads/<filename> paths.
package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix the stored files are served under
const PublicPrefix = "/uploads"

// Storage writes uploads into a single flat directory
type Storage struct {
	dir string
}

// NewStorage creates the upload directory if needed
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the directory files are stored in, for static serving
func (s *Storage) Dir() string {
	return s.dir
}

// Save persists a single uploaded file under a generated unique filename
// and returns its public relative path. The original extension is kept so
// static serving picks a sensible content type.
func (s *Storage) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write stored file: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}
