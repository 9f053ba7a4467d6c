package mediatypes

import (
	"errors"
	"testing"
)

func TestSourceFileRouting(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		isImage  bool
		isVideo  bool
	}{
		{"JPEG", "image/jpeg", true, false},
		{"PNG", "image/png", true, false},
		{"WebP", "image/webp", true, false},
		{"MP4", "video/mp4", false, true},
		{"QuickTime", "video/quicktime", false, true},
		{"PDF", "application/pdf", false, false},
		{"Empty", "", false, false},
		{"Prefix only", "image/", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := SourceFile{Path: "/tmp/x", MimeType: tt.mimeType}
			if got := src.IsImage(); got != tt.isImage {
				t.Errorf("IsImage() = %v, want %v", got, tt.isImage)
			}
			if got := src.IsVideo(); got != tt.isVideo {
				t.Errorf("IsVideo() = %v, want %v", got, tt.isVideo)
			}
		})
	}
}

func TestMimeTypeForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "image/jpeg"},
		{".JPG", "image/jpeg"},
		{".png", "image/png"},
		{".mp4", "video/mp4"},
		{".mov", "video/quicktime"},
		{".xyz", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MimeTypeForExtension(tt.ext); got != tt.want {
			t.Errorf("MimeTypeForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestJobStatusTerminal(t *testing.T) {
	terminal := []JobStatus{StatusCompleted, StatusPartiallyCompleted, StatusFailed}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}

	nonTerminal := []JobStatus{StatusPending, StatusProcessing, JobStatus("bogus")}
	for _, s := range nonTerminal {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestBatchResultCounts(t *testing.T) {
	batch := BatchResult{
		{Index: 0, Result: &ProcessingResult{Status: StatusCompleted}},
		{Index: 1, Err: errors.New("boom"), Error: "boom"},
		{Index: 2, Result: &ProcessingResult{Status: StatusPartiallyCompleted}},
	}

	if got := batch.Succeeded(); got != 2 {
		t.Errorf("Succeeded() = %d, want 2", got)
	}
	if got := batch.Failed(); got != 1 {
		t.Errorf("Failed() = %d, want 1", got)
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("disk full")

	var err error = &EncodeError{Path: "/tmp/a.mp4", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("EncodeError should unwrap to its cause")
	}

	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Error("errors.As should match *EncodeError")
	}

	err = &ProbeError{Path: "/tmp/a.mp4", Err: cause}
	var probeErr *ProbeError
	if !errors.As(err, &probeErr) {
		t.Error("errors.As should match *ProbeError")
	}
	if !errors.Is(err, cause) {
		t.Error("ProbeError should unwrap to its cause")
	}

	unsupported := &UnsupportedMediaTypeError{MimeType: "application/pdf"}
	if unsupported.Error() == "" {
		t.Error("UnsupportedMediaTypeError should have a message")
	}
}
