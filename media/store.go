// Package media stores validated image uploads on local disk and serves
// them under /media/. Remote blob storage stays behind this type.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const URLPrefix = "/media/"

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the bytes under a fresh name, keeping the original extension,
// and returns the public URL path.
func (s *Store) Save(originalName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return URLPrefix + name, nil
}

// Dir returns the directory files are written to, for the static file route.
func (s *Store) Dir() string {
	return s.dir
}
