// Package framecut extracts still frames from a video file with ffmpeg.
//
// Frames are written as 0.jpg, 1.jpg, ... so a frame index maps directly to a
// file name; callers copy out the frames they need and discard the rest.
package framecut

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Extract runs ffmpeg over videoPath, sampling at the given frame rate, and
// writes numbered JPEG frames into outputDir starting at 0.
func Extract(ctx context.Context, binary, videoPath, outputDir string, frameRate float64) error {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(videoPath) == "" {
		return errors.New("framecut: empty video path")
	}
	if frameRate <= 0 {
		return fmt.Errorf("framecut: invalid frame rate %v", frameRate)
	}

	pattern := filepath.Join(outputDir, "%d.jpg")
	cmd := exec.CommandContext(ctx, binary,
		"-hide_banner",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%g:round=up", frameRate),
		"-start_number", "0",
		pattern,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("framecut: extract frames: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// FramePath returns the path ffmpeg wrote for the given frame index.
func FramePath(outputDir string, index int) string {
	return filepath.Join(outputDir, fmt.Sprintf("%d.jpg", index))
}
