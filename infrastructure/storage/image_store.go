package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"face-attendance/pkg/utils"
)

// ImageStore persists reference face images on disk.
type ImageStore interface {
	// Save writes the image under a sanitized, timestamped filename and
	// returns the final path.
	Save(name string, data []byte, mimeType string) (string, error)

	// Delete removes a stored image. A missing file is not an error.
	Delete(path string) error
}

type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Save writes to a temp file in the same directory first, then renames into
// place, so a crash never leaves a half-written reference image behind.
func (s *LocalImageStore) Save(name string, data []byte, mimeType string) (string, error) {
	fileName := fmt.Sprintf("%s_%d%s",
		utils.SanitizeFileName(name),
		time.Now().UnixMilli(),
		extensionFor(mimeType),
	)
	finalPath := filepath.Join(s.dir, fileName)
	tmpPath := finalPath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to publish image: %w", err)
	}

	return finalPath, nil
}

func (s *LocalImageStore) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}
