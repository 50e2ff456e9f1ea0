package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Store implements ports.Staging on the local filesystem. Staged media is
// transient: every file is removed again once the record's uploads have
// been attempted, whatever their outcome. The automated scraper uses
// separate video/thumbnail directories; the manual processor points both at
// one shared temp directory.
type Store struct {
	videoDir string
	thumbDir string
	log      *logrus.Logger
}

// New creates the staging directories if needed.
func New(videoDir, thumbDir string, log *logrus.Logger) (*Store, error) {
	for _, dir := range []string{videoDir, thumbDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create staging directory %s: %w", dir, err)
		}
	}
	return &Store{videoDir: videoDir, thumbDir: thumbDir, log: log}, nil
}

// SaveVideo streams the reader to a staged video file and returns its path.
// A partially written file is removed on copy failure.
func (s *Store) SaveVideo(name string, r io.Reader) (string, error) {
	path := filepath.Join(s.videoDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create staged video %s: %w", path, err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write staged video %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close staged video %s: %w", path, err)
	}

	return path, nil
}

// ThumbnailPath returns the staging path a thumbnail should be written to.
func (s *Store) ThumbnailPath(name string) string {
	return filepath.Join(s.thumbDir, name)
}

// Remove deletes staged files best-effort. Empty paths and already-removed
// files are ignored.
func (s *Store) Remove(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.WithError(err).WithField("path", path).Debug("Failed to remove staged file")
		}
	}
}
