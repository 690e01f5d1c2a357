package framecut

import (
	"context"
	"path/filepath"
	"testing"
)

func TestExtractRejectsBadArguments(t *testing.T) {
	ctx := context.Background()
	if err := Extract(ctx, "ffmpeg", "", t.TempDir(), 25); err == nil {
		t.Fatal("expected error for empty video path")
	}
	if err := Extract(ctx, "ffmpeg", "/tmp/video.mp4", t.TempDir(), 0); err == nil {
		t.Fatal("expected error for zero frame rate")
	}
	if err := Extract(ctx, "ffmpeg", "/tmp/video.mp4", t.TempDir(), -1); err == nil {
		t.Fatal("expected error for negative frame rate")
	}
}

func TestFramePath(t *testing.T) {
	got := FramePath("/scratch/frames", 7)
	want := filepath.Join("/scratch/frames", "7.jpg")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
