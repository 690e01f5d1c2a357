package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kiliexport/internal/logging"
	"kiliexport/internal/progress"
)

// LayoutWriter assembles one export mode's directory tree under projectDir.
type LayoutWriter interface {
	Write(ctx context.Context, projectDir string, iface *ProjectInterface, assets []*Asset) error
}

// LayoutOptions carries the collaborators and settings shared by both
// layouts.
type LayoutOptions struct {
	Format      LabelFormat
	Repo        ContentRepository
	Cutter      VideoCutter
	FilesPrefix string
	Rewriter    HostRewriter
	Logger      *slog.Logger
	Quiet       bool
}

// NewLayoutWriter selects the layout implementation for the given topology.
func NewLayoutWriter(layout Layout, opts LayoutOptions) (LayoutWriter, error) {
	env := layoutEnv{
		format: opts.Format,
		quiet:  opts.Quiet,
		logger: opts.Logger,
		processor: &assetProcessor{
			repo:        opts.Repo,
			cutter:      opts.Cutter,
			filesPrefix: opts.FilesPrefix,
			rewriter:    opts.Rewriter,
			logger:      opts.Logger,
		},
	}
	switch layout {
	case LayoutMerged:
		return &mergedLayout{env}, nil
	case LayoutSplit:
		return &splitLayout{env}, nil
	default:
		return nil, fmt.Errorf("unsupported layout %q", layout)
	}
}

type layoutEnv struct {
	format    LabelFormat
	quiet     bool
	logger    *slog.Logger
	processor *assetProcessor
}

// mergedLayout writes one images/ and one labels/ directory with a single
// class file covering every qualifying job.
type mergedLayout struct {
	layoutEnv
}

func (l *mergedLayout) Write(ctx context.Context, projectDir string, iface *ProjectInterface, assets []*Asset) error {
	imagesDir := filepath.Join(projectDir, "images")
	labelsDir := filepath.Join(projectDir, "labels")
	for _, dir := range []string{imagesDir, labelsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return l.writeSingleFolder(ctx, assets, MergedCategories(iface), labelsDir, imagesDir, projectDir)
}

// splitLayout writes a sibling folder per job, each with its own labels/ and
// class file. All jobs share one images/ directory so media is written once.
type splitLayout struct {
	layoutEnv
}

func (l *splitLayout) Write(ctx context.Context, projectDir string, iface *ProjectInterface, assets []*Asset) error {
	imagesDir := filepath.Join(projectDir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", imagesDir, err)
	}
	for _, jc := range SplitCategories(iface) {
		baseDir := filepath.Join(projectDir, jc.JobID)
		labelsDir := filepath.Join(baseDir, "labels")
		if err := os.MkdirAll(labelsDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", labelsDir, err)
		}
		if err := l.writeSingleFolder(ctx, assets, jc.Categories, labelsDir, imagesDir, baseDir); err != nil {
			return err
		}
	}
	return nil
}

// writeSingleFolder runs the per-asset pipeline for one category scope and
// emits the scope's class file and manifests. Category lookup failures skip
// the offending asset; video errors abort.
func (l *layoutEnv) writeSingleFolder(ctx context.Context, assets []*Asset, categories *CategoryIndex, labelsDir, imagesDir, baseDir string) error {
	if err := writeClassFile(baseDir, categories, l.format); err != nil {
		return err
	}

	var remote []RemoteReference
	videoMetadata := make(map[string][]string)

	bar := progress.NewBar(len(assets), "assets", l.quiet)
	for _, asset := range assets {
		assetRemote, videoFilenames, err := l.processor.process(ctx, asset, imagesDir, labelsDir, categories)
		if err != nil {
			var lookupErr *LookupError
			if errors.As(err, &lookupErr) {
				l.logger.Error("skipping asset with unresolvable annotation",
					logging.String("asset", asset.ExternalID),
					logging.Error(err),
				)
				_ = bar.Add(1)
				continue
			}
			return err
		}
		if len(videoFilenames) > 0 {
			videoMetadata[asset.ExternalID] = videoFilenames
		}
		remote = append(remote, assetRemote...)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if len(videoMetadata) > 0 {
		if err := writeVideoMeta(baseDir, videoMetadata); err != nil {
			return err
		}
	}
	if len(remote) > 0 {
		if err := writeRemoteManifest(imagesDir, remote); err != nil {
			return err
		}
	}
	return nil
}
