package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kiliexport/internal/logging"
)

func newTestLayout(t *testing.T, layout Layout, format LabelFormat, repo *fakeRepository, cutter *fakeCutter) LayoutWriter {
	t.Helper()
	writer, err := NewLayoutWriter(layout, LayoutOptions{
		Format:      format,
		Repo:        repo,
		Cutter:      cutter,
		FilesPrefix: testFilesPrefix,
		Rewriter: HostRewriter{
			Router:        "https://files.test",
			ServiceRouter: "https://router.internal",
			APIV2:         "/api/label/v2",
			APIPrivate:    "/api/label/private",
		},
		Logger: logging.NewNop(),
		Quiet:  true,
	})
	if err != nil {
		t.Fatalf("new layout writer: %v", err)
	}
	return writer
}

func TestMergedLayoutFrameGroup(t *testing.T) {
	projectDir := t.TempDir()
	writer := newTestLayout(t, LayoutMerged, LabelFormatYoloV4, &fakeRepository{}, &fakeCutter{})

	err := writer.Write(context.Background(), projectDir, testInterface(t, 1), []*Asset{frameGroupAsset(t, 4)})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, name := range []string{"video_1_1", "video_1_2", "video_1_3", "video_1_4"} {
		if _, err := os.Stat(filepath.Join(projectDir, "labels", name+".txt")); err != nil {
			t.Fatalf("label %s missing: %v", name, err)
		}
	}
	classes, err := os.ReadFile(filepath.Join(projectDir, "classes.txt"))
	if err != nil {
		t.Fatalf("classes.txt missing: %v", err)
	}
	if string(classes) != "0 OBJECT_A\n1 OBJECT_B\n" {
		t.Fatalf("unexpected classes.txt %q", classes)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "video_meta.json")); err != nil {
		t.Fatalf("video_meta.json missing: %v", err)
	}
	manifest, err := os.ReadFile(filepath.Join(projectDir, "images", "remote_assets.csv"))
	if err != nil {
		t.Fatalf("remote manifest missing: %v", err)
	}
	lines := 0
	for _, b := range manifest {
		if b == '\n' {
			lines++
		}
	}
	if lines != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines:\n%s", lines, manifest)
	}
}

func TestMergedLayoutEmptyInterface(t *testing.T) {
	projectDir := t.TempDir()
	writer := newTestLayout(t, LayoutMerged, LabelFormatYoloV4, &fakeRepository{}, &fakeCutter{})

	err := writer.Write(context.Background(), projectDir, &ProjectInterface{}, []*Asset{singleFrameAsset(t)})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	classes, err := os.ReadFile(filepath.Join(projectDir, "classes.txt"))
	if err != nil {
		t.Fatalf("classes.txt missing: %v", err)
	}
	if len(classes) != 0 {
		t.Fatalf("expected empty class file, got %q", classes)
	}
	entries, err := os.ReadDir(filepath.Join(projectDir, "labels"))
	if err != nil {
		t.Fatalf("read labels dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("no labels expected without qualifying jobs, got %v", entries)
	}
}

func TestSplitLayoutSharesImages(t *testing.T) {
	projectDir := t.TempDir()
	writer := newTestLayout(t, LayoutSplit, LabelFormatYoloV5, &fakeRepository{}, &fakeCutter{})

	err := writer.Write(context.Background(), projectDir, testInterface(t, 2), []*Asset{singleFrameAsset(t)})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, job := range []string{"JOB_0", "JOB_1"} {
		yaml, err := os.ReadFile(filepath.Join(projectDir, job, "data.yaml"))
		if err != nil {
			t.Fatalf("%s data.yaml missing: %v", job, err)
		}
		if string(yaml) != "nc: 2\nnames: ['OBJECT_A', 'OBJECT_B']\n" {
			t.Fatalf("%s unexpected data.yaml %q", job, yaml)
		}
	}
	// The fixture only annotates JOB_0, so only that scope gets a label.
	if _, err := os.Stat(filepath.Join(projectDir, "JOB_0", "labels", "car_1.txt")); err != nil {
		t.Fatalf("JOB_0 label missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "JOB_1", "labels", "car_1.txt")); !os.IsNotExist(err) {
		t.Fatal("JOB_1 has no annotations and must not get a label")
	}
	if _, err := os.Stat(filepath.Join(projectDir, "images")); err != nil {
		t.Fatalf("shared images dir missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "JOB_0", "images")); !os.IsNotExist(err) {
		t.Fatal("job folders must not carry their own images dir")
	}
}

func TestLayoutSkipsAssetWithUnknownCategory(t *testing.T) {
	projectDir := t.TempDir()
	writer := newTestLayout(t, LayoutMerged, LabelFormatYoloV4, &fakeRepository{}, &fakeCutter{})

	bad := singleFrameAsset(t)
	bad.ExternalID = "bad_asset"
	bad.LatestLabel = &Label{JSONResponse: []byte(`{
        "JOB_0": {"annotations": [{"categories": [{"name": "UNKNOWN"}]}]}
    }`)}
	good := singleFrameAsset(t)

	err := writer.Write(context.Background(), projectDir, testInterface(t, 1), []*Asset{bad, good})
	if err != nil {
		t.Fatalf("lookup failure must only skip the asset: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "labels", "car_1.txt")); err != nil {
		t.Fatalf("good asset label missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, "labels", "bad_asset.txt")); !os.IsNotExist(err) {
		t.Fatal("bad asset must not leave a label behind")
	}
}
