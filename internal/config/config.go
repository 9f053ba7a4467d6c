package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/MundoTango/media-pipeline/internal/logging"
	"github.com/MundoTango/media-pipeline/internal/workers"
)

// DefaultLargeFileThresholdBytes is the upload size above which video jobs
// are downgraded to the story preset. Hand-tuned default, overridable via
// VIDEO_LARGE_FILE_THRESHOLD_BYTES.
const DefaultLargeFileThresholdBytes int64 = 50 * 1024 * 1024

// Config holds every recognized pipeline option.
//
// Environment variables:
//
//	OUTPUT_DIR                        processed-media directory (default "processed-media")
//	DELETE_ORIGINALS                  delete sources after success (default false)
//	MAX_CONCURRENT_IMAGE_JOBS         image worker pool size (default: one per CPU, max 8)
//	MAX_CONCURRENT_VIDEO_JOBS         video worker pool size (default: one per two CPUs, max 4)
//	VIDEO_LARGE_FILE_THRESHOLD_BYTES  story-preset downgrade threshold (default 50MB)
//	JOB_TIMEOUT_SECONDS               per-job timeout (default 600)
//	METRICS_PORT                      metrics/health listen port (default: disabled)
//	DISABLE_VIPS                      skip the libvips fast path (default false)
type Config struct {
	OutputDir                    string
	DeleteOriginals              bool
	MaxConcurrentImageJobs       int
	MaxConcurrentVideoJobs       int
	VideoLargeFileThresholdBytes int64
	JobTimeout                   time.Duration
	MetricsPort                  string
	DisableVips                  bool
}

// Default returns the configuration used when no environment overrides are
// present.
func Default() *Config {
	return &Config{
		OutputDir:                    "processed-media",
		DeleteOriginals:              false,
		MaxConcurrentImageJobs:       workers.ForImages(8),
		MaxConcurrentVideoJobs:       workers.ForVideo(4),
		VideoLargeFileThresholdBytes: DefaultLargeFileThresholdBytes,
		JobTimeout:                   10 * time.Minute,
		MetricsPort:                  "",
		DisableVips:                  false,
	}
}

// Load builds a Config from the environment on top of the defaults and
// validates it. Any malformed value is an error.
func Load() (*Config, error) {
	cfg := Default()

	var err error
	if cfg.OutputDir, err = getEnvString("OUTPUT_DIR", cfg.OutputDir); err != nil {
		return nil, err
	}
	if cfg.DeleteOriginals, err = getEnvBool("DELETE_ORIGINALS", cfg.DeleteOriginals); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentImageJobs, err = getEnvInt("MAX_CONCURRENT_IMAGE_JOBS", cfg.MaxConcurrentImageJobs); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentVideoJobs, err = getEnvInt("MAX_CONCURRENT_VIDEO_JOBS", cfg.MaxConcurrentVideoJobs); err != nil {
		return nil, err
	}
	if cfg.VideoLargeFileThresholdBytes, err = getEnvInt64("VIDEO_LARGE_FILE_THRESHOLD_BYTES", cfg.VideoLargeFileThresholdBytes); err != nil {
		return nil, err
	}

	timeoutSecs, err := getEnvInt("JOB_TIMEOUT_SECONDS", int(cfg.JobTimeout/time.Second))
	if err != nil {
		return nil, err
	}
	cfg.JobTimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.MetricsPort, err = getEnvString("METRICS_PORT", cfg.MetricsPort); err != nil {
		return nil, err
	}
	if cfg.DisableVips, err = getEnvBool("DISABLE_VIPS", cfg.DisableVips); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.log()
	return cfg, nil
}

// Validate checks invariants that hold regardless of where the values came
// from.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("config: OUTPUT_DIR must not be empty")
	}
	if c.MaxConcurrentImageJobs < 1 {
		return fmt.Errorf("config: MAX_CONCURRENT_IMAGE_JOBS must be >= 1, got %d", c.MaxConcurrentImageJobs)
	}
	if c.MaxConcurrentVideoJobs < 1 {
		return fmt.Errorf("config: MAX_CONCURRENT_VIDEO_JOBS must be >= 1, got %d", c.MaxConcurrentVideoJobs)
	}
	if c.VideoLargeFileThresholdBytes <= 0 {
		return fmt.Errorf("config: VIDEO_LARGE_FILE_THRESHOLD_BYTES must be positive, got %d", c.VideoLargeFileThresholdBytes)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("config: JOB_TIMEOUT_SECONDS must be positive, got %s", c.JobTimeout)
	}
	return nil
}

func (c *Config) log() {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("Output directory:       %s", c.OutputDir)
	logging.Info("Delete originals:       %t", c.DeleteOriginals)
	logging.Info("Image workers:          %d", c.MaxConcurrentImageJobs)
	logging.Info("Video workers:          %d", c.MaxConcurrentVideoJobs)
	logging.Info("Large video threshold:  %d bytes", c.VideoLargeFileThresholdBytes)
	logging.Info("Job timeout:            %s", c.JobTimeout)
	if c.MetricsPort != "" {
		logging.Info("Metrics port:           %s", c.MetricsPort)
	} else {
		logging.Info("Metrics:                disabled")
	}
	logging.Info("libvips fast path:      %t", !c.DisableVips)
}

func getEnvString(key, fallback string) (string, error) {
	if v, ok := os.LookupEnv(key); ok {
		return v, nil
	}
	return fallback, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean", key, v)
	}
	return b, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}
