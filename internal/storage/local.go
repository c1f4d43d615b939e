// Package storage keeps uploaded profile images on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrOutsideBase = errors.New("path outside upload directory")

// LocalStorage implements service.ImageStore on a single directory.
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: filepath.Clean(basePath), now: time.Now}, nil
}

func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// Save copies an uploaded file into the base directory and returns the stored
// path, which is what gets referenced from the user record.
func (s *LocalStorage) Save(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return s.Write(header.Filename, src)
}

func (s *LocalStorage) Write(originalName string, src io.Reader) (string, error) {
	path := filepath.Join(s.basePath, s.fileName(originalName))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return filepath.ToSlash(path), nil
}

func (s *LocalStorage) Delete(path string) error {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	rel, err := filepath.Rel(s.basePath, cleaned)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%w: %s", ErrOutsideBase, path)
	}
	return os.Remove(cleaned)
}

func (s *LocalStorage) fileName(originalName string) string {
	name := filepath.Base(filepath.FromSlash(strings.ReplaceAll(originalName, "\\", "/")))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), uuid.NewString()[:8], name)
}
