// Package staging manages scratch directories for in-flight exports.
//
// Every export run materializes its full output tree inside a scratch
// directory and only copies the finished archive out, so partial failures
// never leave a half-written export at the destination.
package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kiliexport/internal/logging"
)

// Scratch is a per-run working directory removed on release.
type Scratch struct {
	root string
}

// NewScratch creates a unique scratch directory under stagingDir.
func NewScratch(stagingDir string) (*Scratch, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	root, err := os.MkdirTemp(stagingDir, "export-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Scratch{root: root}, nil
}

// Root returns the scratch directory path.
func (s *Scratch) Root() string {
	return s.root
}

// Release removes the scratch directory and everything under it. Safe to call
// multiple times and on all exit paths.
func (s *Scratch) Release() {
	if s == nil || s.root == "" {
		return
	}
	_ = os.RemoveAll(s.root)
	s.root = ""
}

// CleanStale removes scratch directories older than maxAge. Leftovers only
// appear after a crash; a routine run never leaves directories behind.
func CleanStale(stagingDir string, maxAge time.Duration, logger *slog.Logger) {
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			dirPath := filepath.Join(stagingDir, entry.Name())
			if err := os.RemoveAll(dirPath); err != nil {
				if logger != nil {
					logger.Warn("failed to remove stale scratch directory",
						logging.String("path", dirPath),
						logging.Error(err),
					)
				}
				continue
			}
			if logger != nil {
				logger.Info("removed stale scratch directory",
					logging.String("path", dirPath),
					logging.Duration("age", time.Since(info.ModTime())),
				)
			}
		}
	}
}
