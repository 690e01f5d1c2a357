package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"kiliexport/internal/fileutil"
	"kiliexport/internal/logging"
	"kiliexport/internal/media/ffprobe"
	"kiliexport/internal/media/framecut"
)

// FFmpegCutter materializes video frame groups: it downloads the raw video
// once, extracts frames at the asset's frame rate into a scratch directory,
// and copies out only the retained indices. Probe and extraction failures are
// fatal for the asset's video path.
type FFmpegCutter struct {
	Repo    ContentRepository
	FFmpeg  string
	FFprobe string
	Logger  *slog.Logger
}

// Cut implements VideoCutter.
func (c *FFmpegCutter) Cut(ctx context.Context, req CutRequest) error {
	videoFile, err := os.CreateTemp("", "kiliexport-video-*")
	if err != nil {
		return fmt.Errorf("create video temp file: %w", err)
	}
	videoPath := videoFile.Name()
	defer os.Remove(videoPath)

	if err := c.download(ctx, req.ContentURL, videoFile); err != nil {
		return err
	}

	frameDir, err := os.MkdirTemp("", "kiliexport-frames-*")
	if err != nil {
		return fmt.Errorf("create frame scratch dir: %w", err)
	}
	defer os.RemoveAll(frameDir)

	frameRate := req.FrameRate
	if frameRate <= 0 {
		probed, err := c.probeFrameRate(ctx, videoPath)
		if err != nil {
			return fmt.Errorf("probe frame rate of asset %s: %w", req.AssetID, err)
		}
		frameRate = probed
	}
	c.Logger.Info("extracting video frames",
		logging.String("asset", req.AssetID),
		logging.Float64("frame_rate", frameRate),
	)

	if err := framecut.Extract(ctx, c.FFmpeg, videoPath, frameDir, frameRate); err != nil {
		return fmt.Errorf("extract frames of asset %s: %w", req.AssetID, err)
	}

	for _, idx := range req.Indices {
		src := framecut.FramePath(frameDir, idx)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := filepath.Join(req.ImagesDir, fmt.Sprintf("%s_%0*d.jpg", req.ExternalID, req.LeadingZeros, idx+1))
		if err := fileutil.CopyFile(src, dst); err != nil {
			return fmt.Errorf("copy frame %d of asset %s: %w", idx, req.AssetID, err)
		}
	}
	return nil
}

func (c *FFmpegCutter) download(ctx context.Context, url string, out *os.File) error {
	defer out.Close()

	stream, err := c.Repo.ContentStream(ctx, url)
	if err != nil {
		return fmt.Errorf("download video: %w", err)
	}
	defer stream.Close()

	if _, err := io.Copy(out, stream); err != nil {
		return fmt.Errorf("write video: %w", err)
	}
	return out.Close()
}

func (c *FFmpegCutter) probeFrameRate(ctx context.Context, videoPath string) (float64, error) {
	result, err := ffprobe.Inspect(ctx, c.FFprobe, videoPath)
	if err != nil {
		return 0, err
	}
	return result.VideoFrameRate()
}
