package mediatypes

import "strings"

// SourceFile describes one uploaded file handed to the pipeline by the
// upload-handling collaborator: a path to an already-saved file, its declared
// MIME type, and its size in bytes. A SourceFile is owned exclusively by the
// pipeline invocation that receives it and is never shared across jobs.
type SourceFile struct {
	Path      string `json:"path"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// IsImage reports whether the declared MIME type routes to the image engine.
func (s SourceFile) IsImage() bool {
	return strings.HasPrefix(s.MimeType, "image/")
}

// IsVideo reports whether the declared MIME type routes to the video engine.
func (s SourceFile) IsVideo() bool {
	return strings.HasPrefix(s.MimeType, "video/")
}

// JobStatus is the terminal (or in-flight) state of one pipeline job.
//
// Transitions: pending -> processing -> {completed, partially_completed,
// failed}. partially_completed only occurs on the image path, where
// individual preset encodes can fail while siblings succeed; a video job
// either completes (thumbnail optional) or fails at the compressed-rendition
// stage.
type JobStatus string

const (
	// StatusPending means the job is queued but not yet admitted to a worker.
	StatusPending JobStatus = "pending"
	// StatusProcessing means an engine is working on the job.
	StatusProcessing JobStatus = "processing"
	// StatusCompleted means every expected rendition was produced.
	StatusCompleted JobStatus = "completed"
	// StatusPartiallyCompleted means some, but not all, presets succeeded.
	StatusPartiallyCompleted JobStatus = "partially_completed"
	// StatusFailed means no usable rendition was produced.
	StatusFailed JobStatus = "failed"
)

// Terminal reports whether the status is a terminal state.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusPartiallyCompleted, StatusFailed:
		return true
	}
	return false
}

// ImageExtensions maps file extensions to whether they are accepted image
// upload formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// VideoExtensions maps file extensions to whether they are accepted video
// upload formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

// mimeByExtension covers the upload formats the pipeline accepts. The HTTP
// layer normally supplies the declared MIME type; this table backs the CLI
// boundary where only a filename is available.
var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
}

// MimeTypeForExtension returns the MIME type for a lowercase file extension
// (including the leading dot), or "application/octet-stream" when the
// extension is not a recognized upload format.
func MimeTypeForExtension(ext string) string {
	if mt, ok := mimeByExtension[strings.ToLower(ext)]; ok {
		return mt
	}
	return "application/octet-stream"
}
