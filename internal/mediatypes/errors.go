package mediatypes

import "fmt"

// UnsupportedMediaTypeError indicates a MIME type the pipeline cannot route.
// It is a caller error: the job is rejected before any side effect.
type UnsupportedMediaTypeError struct {
	MimeType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type %q", e.MimeType)
}

// ProbeError indicates the source file was unreadable or its metadata could
// not be parsed. The job aborts immediately with no partial output.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// EncodeError indicates the native encode failed or timed out. Partial
// output files are deleted before the error is returned.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ThumbnailError indicates still-frame extraction failed. It is non-fatal:
// the engines log it and record a warning, but the job stays completed.
type ThumbnailError struct {
	Path string
	Err  error
}

func (e *ThumbnailError) Error() string {
	return fmt.Sprintf("thumbnail %s: %v", e.Path, e.Err)
}

func (e *ThumbnailError) Unwrap() error { return e.Err }

// CleanupError indicates a best-effort deletion (source retention, partial
// output removal) failed. It is logged and never changes a job's terminal
// state.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
