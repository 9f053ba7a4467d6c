// Package video implements the video transcode engine: probe the source
// with ffprobe, pick a preset from the upload size, run a single streaming
// ffmpeg decode/encode pass to a progressive-start MP4, and extract a
// best-effort still-frame thumbnail.
//
// The ffmpeg child process is supervised: it is tracked for shutdown, bound
// to the per-job timeout, awaited before output files are read, and its
// partial output is deleted when the encode fails.
package video
