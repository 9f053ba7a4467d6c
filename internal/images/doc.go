// Package images implements the image rendition engine: one source image in,
// one WebP rendition per catalog preset out.
//
// All preset encodes for a source run as a parallel fan-out and are joined
// before Process returns. Renditions are fitted inside the preset bounding
// box without cropping and never upscaled. When libvips is available the
// engine uses decode-time shrinking and native WebP export; otherwise it
// decodes once with the standard image stack and resizes with Lanczos.
package images
