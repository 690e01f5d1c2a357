package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DenormalizeAuthors fills each label's author name from its first and last
// name, matching what downstream consumers expect in the label records.
func DenormalizeAuthors(assets []*Asset, exportType ExportType) {
	for _, asset := range assets {
		if exportType == ExportTypeLatest {
			if asset.LatestLabel != nil && asset.LatestLabel.Author != nil {
				author := asset.LatestLabel.Author
				author.Name = author.Firstname + " " + author.Lastname
			}
			continue
		}
		for i := range asset.Labels {
			if author := asset.Labels[i].Author; author != nil {
				author.Name = author.Firstname + " " + author.Lastname
			}
		}
	}
}

// FilterAutosaveLabels drops autosaved labels from an all-labels export.
// Assets whose labels are all autosaves keep their original list.
func FilterAutosaveLabels(assets []*Asset) {
	for _, asset := range assets {
		var kept []Label
		for _, label := range asset.Labels {
			if label.LabelType != "AUTOSAVE" {
				kept = append(kept, label)
			}
		}
		if len(kept) > 0 {
			asset.Labels = kept
		}
	}
}

var forbiddenFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// ExportName returns the default base name for an export file, with
// characters that are invalid in file names replaced.
func ExportName(projectName string, now time.Time) string {
	cleaned := forbiddenFilenameChars.ReplaceAllString(projectName, "-")
	return "kili-label-export-" + cleaned + "-" + now.Format("2006-01-02_15-04")
}

// resolveOutputFile fills in a default archive name derived from the project
// title and accepts a directory as destination, placing the default name
// inside it.
func resolveOutputFile(output, projectTitle string, now time.Time) (string, error) {
	defaultName := ExportName(projectTitle, now) + ".zip"

	target := strings.TrimSpace(output)
	if target == "" {
		return defaultName, nil
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, defaultName), nil
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return target, nil
}
