package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.OutputDir != "processed-media" {
		t.Errorf("OutputDir = %q, want processed-media", cfg.OutputDir)
	}
	if cfg.DeleteOriginals {
		t.Error("DeleteOriginals should default to false")
	}
	if cfg.VideoLargeFileThresholdBytes != 50*1024*1024 {
		t.Errorf("VideoLargeFileThresholdBytes = %d, want 50MB", cfg.VideoLargeFileThresholdBytes)
	}
	if cfg.MaxConcurrentImageJobs < 1 || cfg.MaxConcurrentVideoJobs < 1 {
		t.Errorf("worker defaults must be positive, got %d/%d",
			cfg.MaxConcurrentImageJobs, cfg.MaxConcurrentVideoJobs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DELETE_ORIGINALS", "true")
	t.Setenv("MAX_CONCURRENT_IMAGE_JOBS", "3")
	t.Setenv("MAX_CONCURRENT_VIDEO_JOBS", "2")
	t.Setenv("VIDEO_LARGE_FILE_THRESHOLD_BYTES", "1048576")
	t.Setenv("JOB_TIMEOUT_SECONDS", "30")
	t.Setenv("OUTPUT_DIR", "/tmp/renditions")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.DeleteOriginals {
		t.Error("DELETE_ORIGINALS=true not applied")
	}
	if cfg.MaxConcurrentImageJobs != 3 {
		t.Errorf("MaxConcurrentImageJobs = %d, want 3", cfg.MaxConcurrentImageJobs)
	}
	if cfg.MaxConcurrentVideoJobs != 2 {
		t.Errorf("MaxConcurrentVideoJobs = %d, want 2", cfg.MaxConcurrentVideoJobs)
	}
	if cfg.VideoLargeFileThresholdBytes != 1048576 {
		t.Errorf("VideoLargeFileThresholdBytes = %d, want 1048576", cfg.VideoLargeFileThresholdBytes)
	}
	if cfg.JobTimeout != 30*time.Second {
		t.Errorf("JobTimeout = %s, want 30s", cfg.JobTimeout)
	}
	if cfg.OutputDir != "/tmp/renditions" {
		t.Errorf("OutputDir = %q, want /tmp/renditions", cfg.OutputDir)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Non-boolean retention flag", "DELETE_ORIGINALS", "maybe"},
		{"Non-integer image pool", "MAX_CONCURRENT_IMAGE_JOBS", "many"},
		{"Non-integer threshold", "VIDEO_LARGE_FILE_THRESHOLD_BYTES", "50MB"},
		{"Non-integer timeout", "JOB_TIMEOUT_SECONDS", "5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			} else if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name the offending key %s", err, tt.key)
			}
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"Zero image workers", func(c *Config) { c.MaxConcurrentImageJobs = 0 }},
		{"Negative video workers", func(c *Config) { c.MaxConcurrentVideoJobs = -1 }},
		{"Zero threshold", func(c *Config) { c.VideoLargeFileThresholdBytes = 0 }},
		{"Zero timeout", func(c *Config) { c.JobTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}
