// Command media-pipeline turns freshly uploaded images and videos into sets
// of optimized renditions for feed display, thumbnails and full-resolution
// viewing.
//
// Usage:
//
//	media-pipeline FILE...
//
// Each argument is processed through the transcoding pipeline; the resulting
// batch report is printed to stdout as JSON. Configuration comes from the
// environment (optionally via a .env file); see internal/config.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MundoTango/media-pipeline/internal/batch"
	"github.com/MundoTango/media-pipeline/internal/config"
	"github.com/MundoTango/media-pipeline/internal/images"
	"github.com/MundoTango/media-pipeline/internal/logging"
	"github.com/MundoTango/media-pipeline/internal/mediatypes"
	"github.com/MundoTango/media-pipeline/internal/metrics"
	"github.com/MundoTango/media-pipeline/internal/pipeline"
	"github.com/MundoTango/media-pipeline/internal/preset"
	"github.com/MundoTango/media-pipeline/internal/video"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal("%v", err)
	}
}

func run() error {
	// Optional .env; absence is not an error.
	if err := godotenv.Load(); err == nil {
		logging.Debug("Loaded environment from .env")
	}

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s FILE...\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !cfg.DisableVips {
		images.InitVips()
		defer images.ShutdownVips()
	}

	var metricsSrv *metrics.Server
	if cfg.MetricsPort != "" {
		metricsSrv = metrics.NewServer(cfg.MetricsPort)
		metricsSrv.Start()
	}

	catalog := preset.Default()

	imageEngine, err := images.NewEngine(cfg.OutputDir, catalog, !cfg.DisableVips)
	if err != nil {
		return err
	}
	videoEngine, err := video.NewEngine(cfg.OutputDir, catalog, cfg.VideoLargeFileThresholdBytes, cfg.JobTimeout)
	if err != nil {
		return err
	}

	pipe := pipeline.New(imageEngine, videoEngine, cfg.DeleteOriginals)
	coord := batch.New(pipe, cfg.MaxConcurrentImageJobs, cfg.MaxConcurrentVideoJobs,
		batch.WithProgress(func(p batch.Progress) {
			logging.Info("Progress: %d/%d", p.Completed, p.Total)
		}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// On shutdown, queued jobs fail via the canceled context and in-flight
	// encodes are killed so their partial output gets cleaned up.
	go func() {
		<-ctx.Done()
		videoEngine.Shutdown()
	}()

	files, err := gatherSources(os.Args[1:])
	if err != nil {
		return err
	}

	result := coord.ProcessBatch(ctx, files)
	coord.Shutdown()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Metrics server shutdown: %v", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	if result.Succeeded() == 0 && len(result) > 0 {
		return fmt.Errorf("all %d files failed", len(result))
	}
	return nil
}

// gatherSources builds SourceFiles from CLI paths. The declared MIME type
// normally comes from the upload handler; at this boundary it is inferred
// from the file extension.
func gatherSources(paths []string) ([]mediatypes.SourceFile, error) {
	files := make([]mediatypes.SourceFile, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		files = append(files, mediatypes.SourceFile{
			Path:      path,
			MimeType:  mediatypes.MimeTypeForExtension(filepath.Ext(path)),
			SizeBytes: info.Size(),
		})
	}
	return files, nil
}
