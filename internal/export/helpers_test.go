package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDenormalizeAuthorsLatest(t *testing.T) {
	asset := singleFrameAsset(t)
	DenormalizeAuthors([]*Asset{asset}, ExportTypeLatest)
	if got := asset.LatestLabel.Author.Name; got != "Jean-Pierre Dupont" {
		t.Fatalf("unexpected author name %q", got)
	}
}

func TestDenormalizeAuthorsAllLabels(t *testing.T) {
	asset := &Asset{
		Labels: []Label{
			{Author: &Author{Firstname: "Ada", Lastname: "Lovelace"}},
			{},
			{Author: &Author{Firstname: "Alan", Lastname: "Turing"}},
		},
	}
	DenormalizeAuthors([]*Asset{asset}, ExportTypeNormal)
	if asset.Labels[0].Author.Name != "Ada Lovelace" || asset.Labels[2].Author.Name != "Alan Turing" {
		t.Fatalf("unexpected names %+v", asset.Labels)
	}
}

func TestFilterAutosaveLabels(t *testing.T) {
	asset := &Asset{
		Labels: []Label{
			{LabelType: "AUTOSAVE"},
			{LabelType: "DEFAULT"},
			{LabelType: "REVIEW"},
		},
	}
	FilterAutosaveLabels([]*Asset{asset})
	if len(asset.Labels) != 2 {
		t.Fatalf("expected autosaves dropped, got %+v", asset.Labels)
	}
	for _, label := range asset.Labels {
		if label.LabelType == "AUTOSAVE" {
			t.Fatalf("autosave survived filtering: %+v", asset.Labels)
		}
	}
}

func TestFilterAutosaveLabelsKeepsAllAutosaveAssets(t *testing.T) {
	asset := &Asset{
		Labels: []Label{
			{LabelType: "AUTOSAVE"},
			{LabelType: "AUTOSAVE"},
		},
	}
	FilterAutosaveLabels([]*Asset{asset})
	if len(asset.Labels) != 2 {
		t.Fatalf("an all-autosave asset keeps its labels, got %+v", asset.Labels)
	}
}

func TestExportName(t *testing.T) {
	now := time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC)
	got := ExportName(`my/project:v2?`, now)
	want := "kili-label-export-my-project-v2--2023-05-01_12-30"
	if got != want {
		t.Fatalf("unexpected export name %q, want %q", got, want)
	}
}

func TestResolveOutputFile(t *testing.T) {
	now := time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC)

	got, err := resolveOutputFile("", "Cars", now)
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if got != "kili-label-export-Cars-2023-05-01_12-30.zip" {
		t.Fatalf("unexpected default name %q", got)
	}

	dir := t.TempDir()
	got, err = resolveOutputFile(dir, "Cars", now)
	if err != nil {
		t.Fatalf("resolve into dir: %v", err)
	}
	if filepath.Dir(got) != dir || filepath.Base(got) != "kili-label-export-Cars-2023-05-01_12-30.zip" {
		t.Fatalf("expected default name inside %s, got %q", dir, got)
	}

	explicit := filepath.Join(dir, "nested", "out.zip")
	got, err = resolveOutputFile(explicit, "Cars", now)
	if err != nil {
		t.Fatalf("resolve explicit: %v", err)
	}
	if got != explicit {
		t.Fatalf("expected %q, got %q", explicit, got)
	}
	if _, err := os.Stat(filepath.Dir(explicit)); err != nil {
		t.Fatalf("parent directory not created: %v", err)
	}
}
