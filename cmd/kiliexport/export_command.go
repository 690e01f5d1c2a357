package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kiliexport/internal/config"
	"kiliexport/internal/export"
	"kiliexport/internal/journal"
	"kiliexport/internal/logging"
	"kiliexport/internal/preflight"
	"kiliexport/internal/services/kili"
	"kiliexport/internal/staging"
)

const (
	minStagingBytes = 2 << 30
	staleScratchAge = 24 * time.Hour
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var projectID string
	var outputFile string
	var formatFlag string
	var layoutFlag string
	var exportTypeFlag string
	var assetIDs []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project's annotations as a YOLO archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			format, err := export.ParseLabelFormat(formatFlag)
			if err != nil {
				return err
			}
			layout, err := export.ParseLayout(layoutFlag)
			if err != nil {
				return err
			}
			exportType, err := export.ParseExportType(exportTypeFlag)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return err
			}

			if failure := preflight.FirstFailure([]preflight.Result{
				preflight.CheckBinary("ffmpeg", cfg.Tools.FFmpeg),
				preflight.CheckBinary("ffprobe", cfg.Tools.FFprobe),
				preflight.CheckDiskSpace("staging", cfg.Paths.StagingDir, minStagingBytes),
			}); failure != nil {
				return fmt.Errorf("preflight %s: %s", failure.Name, failure.Detail)
			}

			staging.CleanStale(cfg.Paths.StagingDir, staleScratchAge, logger)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repo := kili.NewContentRepository(cfg)
			exporter := export.New(export.ExporterOptions{
				Store: kili.NewClient(cfg.API),
				Repo:  repo,
				Cutter: &export.FFmpegCutter{
					Repo:    repo,
					FFmpeg:  cfg.Tools.FFmpeg,
					FFprobe: cfg.Tools.FFprobe,
					Logger:  logger,
				},
				FilesPrefix: cfg.FilesPrefix(),
				Rewriter: export.HostRewriter{
					Router:        cfg.Endpoints.Router,
					ServiceRouter: cfg.ServiceRouter(),
					APIV2:         cfg.Endpoints.APIV2,
					APIPrivate:    cfg.Endpoints.APIPrivate,
				},
				StagingDir: cfg.Paths.StagingDir,
				Logger:     logger,
				Quiet:      ctx.quiet(),
			})

			summary, err := exporter.Export(runCtx, export.Params{
				ProjectID:  projectID,
				AssetIDs:   assetIDs,
				ExportType: exportType,
				Format:     format,
				Layout:     layout,
				OutputFile: outputFile,
			})
			if err != nil {
				return err
			}

			recordRun(runCtx, cfg, logger, summary, format, layout, exportType)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d assets of project %q to %s (%s)\n",
				summary.AssetCount, summary.ProjectTitle, summary.OutputFile, summary.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project identifier (required)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Destination archive path (defaults to a name derived from the project title)")
	cmd.Flags().StringVar(&formatFlag, "format", "yolo_v4", "Label format: yolo_v4 or yolo_v5")
	cmd.Flags().StringVar(&layoutFlag, "layout", "merged", "Folder layout: merged or split")
	cmd.Flags().StringVar(&exportTypeFlag, "export-type", "latest", "Which labels to export: latest or normal")
	cmd.Flags().StringSliceVar(&assetIDs, "assets", nil, "Restrict the export to these asset ids")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

// recordRun appends the finished export to the journal. Journal trouble never
// fails an export that already produced its archive.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, summary *export.Summary, format export.LabelFormat, layout export.Layout, exportType export.ExportType) {
	j, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		logger.Warn("journal unavailable, run not recorded", logging.Error(err))
		return
	}
	defer j.Close()

	if _, err := j.Record(ctx, journal.Run{
		ProjectID:  summary.ProjectID,
		Format:     string(format),
		Layout:     string(layout),
		ExportType: string(exportType),
		OutputPath: summary.OutputFile,
		AssetCount: summary.AssetCount,
		Duration:   summary.Duration,
	}); err != nil {
		logger.Warn("failed to record export run", logging.Error(err))
	}
}
