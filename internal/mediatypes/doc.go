// Package mediatypes provides the shared type definitions of the media
// transcoding pipeline.
//
// This package exists as a dependency-free foundation that can be imported by
// the engines, the orchestrator and the batch coordinator without creating
// import cycles. It contains the source/rendition/result data model, the
// per-file job state machine, the error taxonomy, and pure MIME/extension
// utilities with no dependencies beyond the standard library.
package mediatypes
