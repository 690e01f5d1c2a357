package staging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"kiliexport/internal/logging"
)

func TestScratchLifecycle(t *testing.T) {
	base := t.TempDir()
	scratch, err := NewScratch(filepath.Join(base, "staging"))
	if err != nil {
		t.Fatalf("new scratch: %v", err)
	}
	root := scratch.Root()
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("scratch dir missing: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "file"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	scratch.Release()
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("scratch dir not removed: %v", err)
	}
	// Releasing twice is a no-op.
	scratch.Release()
}

func TestCleanStaleRemovesOldDirectories(t *testing.T) {
	base := t.TempDir()

	oldDir := filepath.Join(base, "export-old")
	if err := os.Mkdir(oldDir, 0o755); err != nil {
		t.Fatalf("create old dir: %v", err)
	}
	oldTime := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldDir, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	recentDir := filepath.Join(base, "export-recent")
	if err := os.Mkdir(recentDir, 0o755); err != nil {
		t.Fatalf("create recent dir: %v", err)
	}

	CleanStale(base, 24*time.Hour, logging.NewNop())

	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Fatal("old dir should be removed")
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Fatalf("recent dir should survive: %v", err)
	}
}

func TestCleanStaleMissingDir(t *testing.T) {
	CleanStale("/nonexistent/path/12345", time.Hour, logging.NewNop())
}
