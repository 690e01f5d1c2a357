package export

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestZipDirectory(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(srcDir, "labels"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"classes.txt":      "0 OBJECT_A\n",
		"labels/car_1.txt": "0 0.5 0.5 0.25 0.25\n",
		"README.kili.txt":  "readme",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	dstPath := filepath.Join(t.TempDir(), "export.zip")
	if err := zipDirectory(srcDir, dstPath); err != nil {
		t.Fatalf("zip: %v", err)
	}

	reader, err := zip.OpenReader(dstPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer reader.Close()

	var names []string
	for _, entry := range reader.File {
		names = append(names, entry.Name)

		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", entry.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", entry.Name, err)
		}
		if string(body) != files[entry.Name] {
			t.Fatalf("entry %s: unexpected body %q", entry.Name, body)
		}
	}
	sort.Strings(names)
	want := []string{"README.kili.txt", "classes.txt", "labels/", "labels/car_1.txt"}
	if len(names) != len(want) {
		t.Fatalf("unexpected entries %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected entries %v, want %v", names, want)
		}
	}
}

func TestZipDirectoryKeepsEmptyDirectories(t *testing.T) {
	srcDir := t.TempDir()
	for _, dir := range []string{"images", "labels"} {
		if err := os.MkdirAll(filepath.Join(srcDir, dir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	dstPath := filepath.Join(t.TempDir(), "export.zip")
	if err := zipDirectory(srcDir, dstPath); err != nil {
		t.Fatalf("zip: %v", err)
	}

	reader, err := zip.OpenReader(dstPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer reader.Close()

	entries := make(map[string]bool, len(reader.File))
	for _, entry := range reader.File {
		entries[entry.Name] = true
	}
	if !entries["images/"] || !entries["labels/"] {
		t.Fatalf("empty directories missing from archive: %v", entries)
	}
}

func TestZipDirectoryMissingSource(t *testing.T) {
	dstPath := filepath.Join(t.TempDir(), "export.zip")
	if err := zipDirectory(filepath.Join(t.TempDir(), "nope"), dstPath); err == nil {
		t.Fatal("expected error for missing source dir")
	}
}
