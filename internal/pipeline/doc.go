// Package pipeline routes one source file to the matching engine by MIME
// type prefix, normalizes the result, records metrics, and applies the
// source retention policy after success.
package pipeline
