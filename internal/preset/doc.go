// Package preset holds the static catalog of output presets the pipeline
// encodes against. The catalog is immutable, built once at process start, and
// safe to share read-only across all workers. Lookups are total functions
// over a fixed set: asking for an unknown preset name is a programming error
// and panics.
package preset
