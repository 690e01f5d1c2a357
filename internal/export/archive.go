package export

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// zipDirectory packs the contents of srcDir into a zip archive at dstPath.
// Entry names are relative to srcDir, so the archive root holds the export
// folders directly.
func zipDirectory(srcDir, dstPath string) error {
	archive, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", dstPath, err)
	}
	defer archive.Close()

	writer := zip.NewWriter(archive)

	walkErr := filepath.WalkDir(srcDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		// Directories get explicit entries so structural folders survive even
		// when empty.
		if entry.IsDir() {
			if rel == "." {
				return nil
			}
			_, err := writer.Create(filepath.ToSlash(rel) + "/")
			return err
		}
		dst, err := writer.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(dst, src)
		return err
	})
	if walkErr != nil {
		_ = writer.Close()
		return fmt.Errorf("archive %s: %w", srcDir, walkErr)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return archive.Close()
}
