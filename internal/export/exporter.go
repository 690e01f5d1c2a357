package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kiliexport/internal/fileutil"
	"kiliexport/internal/logging"
	"kiliexport/internal/staging"
)

// Params describes one export run.
type Params struct {
	ProjectID  string
	AssetIDs   []string
	ExportType ExportType
	Format     LabelFormat
	Layout     Layout
	// OutputFile may be empty or name a directory; a default archive name
	// derived from the project title fills in.
	OutputFile string
}

// Summary reports what a completed export produced.
type Summary struct {
	ProjectID    string
	ProjectTitle string
	AssetCount   int
	OutputFile   string
	Duration     time.Duration
}

// Exporter is the top-level entry point: it fetches project metadata and
// assets, runs the selected layout inside a scratch directory, and copies the
// finished archive to the caller's output path.
type Exporter struct {
	store       ProjectStore
	repo        ContentRepository
	cutter      VideoCutter
	filesPrefix string
	rewriter    HostRewriter
	stagingDir  string
	logger      *slog.Logger
	quiet       bool
	now         func() time.Time
}

// ExporterOptions configures New.
type ExporterOptions struct {
	Store       ProjectStore
	Repo        ContentRepository
	Cutter      VideoCutter
	FilesPrefix string
	Rewriter    HostRewriter
	StagingDir  string
	Logger      *slog.Logger
	Quiet       bool
}

// New constructs an Exporter.
func New(opts ExporterOptions) *Exporter {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exporter{
		store:       opts.Store,
		repo:        opts.Repo,
		cutter:      opts.Cutter,
		filesPrefix: opts.FilesPrefix,
		rewriter:    opts.Rewriter,
		stagingDir:  opts.StagingDir,
		logger:      logger,
		quiet:       opts.Quiet,
		now:         time.Now,
	}
}

// Export runs one export end to end. The output tree is materialized in a
// scratch directory that is removed on every exit path; the destination file
// only ever receives a complete archive.
func (e *Exporter) Export(ctx context.Context, params Params) (*Summary, error) {
	started := e.now()

	project, err := e.store.Project(ctx, params.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("fetch project %s: %w", params.ProjectID, err)
	}

	outputFile, err := resolveOutputFile(params.OutputFile, project.Title, started)
	if err != nil {
		return nil, err
	}

	e.logger.Info("fetching assets", logging.String("project", params.ProjectID))
	assets, err := e.store.Assets(ctx, params.ProjectID, params.AssetIDs, params.ExportType)
	if err != nil {
		return nil, fmt.Errorf("fetch assets of %s: %w", params.ProjectID, err)
	}
	DenormalizeAuthors(assets, params.ExportType)
	if params.ExportType == ExportTypeNormal {
		FilterAutosaveLabels(assets)
	}

	scratch, err := staging.NewScratch(e.stagingDir)
	if err != nil {
		return nil, err
	}
	defer scratch.Release()

	projectDir := filepath.Join(scratch.Root(), params.ProjectID)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}

	writer, err := NewLayoutWriter(params.Layout, LayoutOptions{
		Format:      params.Format,
		Repo:        e.repo,
		Cutter:      e.cutter,
		FilesPrefix: e.filesPrefix,
		Rewriter:    e.rewriter,
		Logger:      e.logger,
		Quiet:       e.quiet,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("writing export tree",
		logging.String("layout", string(params.Layout)),
		logging.String("format", string(params.Format)),
		logging.Int("assets", len(assets)),
	)
	if err := writer.Write(ctx, projectDir, project.Interface, assets); err != nil {
		return nil, err
	}

	if err := writeReadme(projectDir, project, params.Format, params.ExportType, e.now()); err != nil {
		return nil, err
	}

	archivePath := filepath.Join(scratch.Root(), params.ProjectID+".zip")
	if err := zipDirectory(projectDir, archivePath); err != nil {
		return nil, err
	}
	if err := fileutil.CopyFileVerified(archivePath, outputFile); err != nil {
		return nil, fmt.Errorf("copy archive to %s: %w", outputFile, err)
	}

	summary := &Summary{
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		AssetCount:   len(assets),
		OutputFile:   outputFile,
		Duration:     e.now().Sub(started),
	}
	e.logger.Info("export complete",
		logging.String("output", summary.OutputFile),
		logging.Duration("took", summary.Duration),
	)
	return summary, nil
}
