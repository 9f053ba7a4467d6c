package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_pipeline_jobs_total",
			Help: "Total number of pipeline jobs by media class and terminal status",
		},
		[]string{"class", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_pipeline_job_duration_seconds",
			Help:    "Wall-clock duration of pipeline jobs",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"class"},
	)

	JobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_pipeline_jobs_in_flight",
			Help: "Number of jobs currently being processed",
		},
	)
)

// Rendition metrics
var (
	RenditionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_pipeline_renditions_total",
			Help: "Total number of rendition encodes by preset and outcome",
		},
		[]string{"preset", "status"},
	)

	ThumbnailFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_pipeline_thumbnail_failures_total",
			Help: "Still-frame thumbnail extractions that failed (non-fatal)",
		},
	)

	BytesIn = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_pipeline_source_bytes_total",
			Help: "Total size of source files accepted for processing",
		},
	)

	BytesOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_pipeline_rendition_bytes_total",
			Help: "Total size of rendition files written",
		},
	)
)

// Batch metrics
var (
	BatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_pipeline_batches_total",
			Help: "Total number of batches processed",
		},
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_pipeline_batch_size",
			Help:    "Number of files per batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
)
