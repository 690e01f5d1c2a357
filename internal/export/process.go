package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"kiliexport/internal/logging"
)

// RemoteReference records an asset or frame whose media is hosted outside the
// platform and is therefore referenced instead of downloaded.
type RemoteReference struct {
	ExternalID string
	URL        string
	LabelFile  string
}

// assetProcessor converts and materializes a single asset for one category
// scope. It is the per-asset engine shared by both layouts.
type assetProcessor struct {
	repo        ContentRepository
	cutter      VideoCutter
	filesPrefix string
	rewriter    HostRewriter
	logger      *slog.Logger
}

// process writes the asset's label files into labelsDir and materializes its
// media into imagesDir. It returns the remote references and video frame
// names recorded along the way.
//
// Error contract: a *LookupError aborts this asset only; video download or
// extraction failures abort the export.
func (p *assetProcessor) process(ctx context.Context, asset *Asset, imagesDir, labelsDir string, categories *CategoryIndex) ([]RemoteReference, []string, error) {
	jobIDs := categories.JobIDs()
	labelFrames := FramesFromAsset(asset, jobIDs)

	contentFrames, err := p.contentFrames(ctx, asset)
	if err != nil {
		return nil, nil, fmt.Errorf("asset %s: resolve content frames: %w", asset.ExternalID, err)
	}

	var remote []RemoteReference
	var videoFilenames []string

	for _, idx := range labelFrames.Indices() {
		filename := labelFrames.Filename(idx)
		if labelFrames.IsGroup {
			videoFilenames = append(videoFilenames, filename)
		}

		annotations, err := frameAnnotations(labelFrames.Frames[idx], jobIDs, categories)
		if err != nil {
			return nil, nil, fmt.Errorf("asset %s: %w", asset.ExternalID, err)
		}
		if len(annotations) == 0 {
			continue
		}

		if err := writeLabelFile(labelsDir, filename, annotations); err != nil {
			return nil, nil, err
		}

		contentFrame, err := selectContentFrame(asset, contentFrames, idx)
		if err != nil {
			return nil, nil, fmt.Errorf("asset %s: %w", asset.ExternalID, err)
		}

		if !strings.HasPrefix(contentFrame, p.filesPrefix) {
			remote = append(remote, RemoteReference{
				ExternalID: asset.ExternalID,
				URL:        contentFrame,
				LabelFile:  filename + ".txt",
			})
			continue
		}

		// Frame groups with per-frame URLs take neither the download nor the
		// video-cut path; see the trailing group handling below.
		if len(contentFrames) > 0 && !labelFrames.IsGroup {
			if err := p.downloadFrame(ctx, contentFrame, imagesDir, filename, asset.ID); err != nil {
				var downloadErr *DownloadError
				if !errors.As(err, &downloadErr) {
					return nil, nil, err
				}
				p.logger.Warn("image download failed, label kept without image",
					logging.String("asset", asset.ID),
					logging.Error(err),
				)
			}
		}
	}

	if len(contentFrames) == 0 && labelFrames.IsGroup && strings.HasPrefix(asset.Content, p.filesPrefix) {
		if err := p.cutter.Cut(ctx, CutRequest{
			ContentURL:   p.rewriter.Content(asset.Content),
			AssetID:      asset.ID,
			ExternalID:   asset.ExternalID,
			Indices:      labelFrames.Indices(),
			ImagesDir:    imagesDir,
			LeadingZeros: labelFrames.LeadingZeros(),
			FrameRate:    asset.FrameRate(),
		}); err != nil {
			return nil, nil, fmt.Errorf("asset %s: cut video: %w", asset.ExternalID, err)
		}
	}

	return remote, videoFilenames, nil
}

// contentFrames resolves per-frame URLs from the asset's jsonContent index.
// Only assets without direct content carry one.
func (p *assetProcessor) contentFrames(ctx context.Context, asset *Asset) ([]string, error) {
	if asset.Content != "" || asset.JSONContent == "" {
		return nil, nil
	}
	return p.repo.Frames(ctx, p.rewriter.Content(asset.JSONContent))
}

// selectContentFrame picks the media URL backing the frame at idx. The
// synthetic single frame (idx -1) with per-frame URLs resolves to the last
// frame URL.
func selectContentFrame(asset *Asset, contentFrames []string, idx int) (string, error) {
	if len(contentFrames) == 0 {
		return asset.Content, nil
	}
	if idx == -1 {
		return contentFrames[len(contentFrames)-1], nil
	}
	if idx < 0 || idx >= len(contentFrames) {
		return "", fmt.Errorf("frame index %d outside content frame list of length %d", idx, len(contentFrames))
	}
	return contentFrames[idx], nil
}

// downloadFrame streams one frame's bytes to <imagesDir>/<filename>.jpg,
// rewriting the public URL to its service-internal equivalent first.
func (p *assetProcessor) downloadFrame(ctx context.Context, url, imagesDir, filename, assetID string) error {
	stream, err := p.repo.ContentStream(ctx, p.rewriter.Frame(url))
	if err != nil {
		return err
	}
	defer stream.Close()

	path := filepath.Join(imagesDir, filename+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, stream); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write image for asset %s: %w", assetID, err)
	}
	return out.Close()
}
