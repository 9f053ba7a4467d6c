// Package metrics defines the Prometheus instrumentation of the pipeline
// and an optional HTTP server exposing /metrics and /healthz on a dedicated
// port.
package metrics
