package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/MundoTango/media-pipeline/internal/logging"
	"github.com/MundoTango/media-pipeline/internal/mediatypes"
	"github.com/MundoTango/media-pipeline/internal/metrics"
)

// Engine is one media-class engine (image or video).
type Engine interface {
	Process(ctx context.Context, src mediatypes.SourceFile) (*mediatypes.ProcessingResult, error)
}

// Pipeline dispatches source files to engines and owns source-file
// retention.
type Pipeline struct {
	images          Engine
	video           Engine
	deleteOriginals bool
}

// New creates a pipeline. When deleteOriginals is true, source files are
// removed after their job succeeds; otherwise they are retained
// unconditionally. Sources of failed jobs are always retained.
func New(images, video Engine, deleteOriginals bool) *Pipeline {
	return &Pipeline{
		images:          images,
		video:           video,
		deleteOriginals: deleteOriginals,
	}
}

// Process runs one source file through the matching engine. MIME types
// outside image/* and video/* are rejected with UnsupportedMediaTypeError
// before any side effect.
func (p *Pipeline) Process(ctx context.Context, src mediatypes.SourceFile) (*mediatypes.ProcessingResult, error) {
	var engine Engine
	var class string

	switch {
	case src.IsImage():
		engine, class = p.images, "image"
	case src.IsVideo():
		engine, class = p.video, "video"
	default:
		metrics.JobsTotal.WithLabelValues("other", "rejected").Inc()
		return nil, &mediatypes.UnsupportedMediaTypeError{MimeType: src.MimeType}
	}

	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()
	metrics.BytesIn.Add(float64(src.SizeBytes))

	start := time.Now()
	res, err := engine.Process(ctx, src)
	metrics.JobDuration.WithLabelValues(class).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.JobsTotal.WithLabelValues(class, string(mediatypes.StatusFailed)).Inc()
		return nil, err
	}

	metrics.JobsTotal.WithLabelValues(class, string(res.Status)).Inc()
	p.applyRetention(src, res)
	return res, nil
}

// applyRetention deletes the source after a successful engine call when the
// policy says so. Deletion is best-effort: a failure is logged and recorded
// as a warning, never flipping an already-successful result.
func (p *Pipeline) applyRetention(src mediatypes.SourceFile, res *mediatypes.ProcessingResult) {
	if !p.deleteOriginals {
		return
	}

	if err := os.Remove(src.Path); err != nil {
		cleanupErr := &mediatypes.CleanupError{Path: src.Path, Err: err}
		logging.Warn("Retention: %v", cleanupErr)
		res.Warnings = append(res.Warnings, cleanupErr.Error())
		return
	}
	logging.Debug("Retention: deleted source %s", src.Path)
}
