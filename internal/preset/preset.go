package preset

import "fmt"

// ImagePreset describes one target rendition for the image path: a bounding
// box the source is fitted into (never upscaled) and a WebP quality.
type ImagePreset struct {
	Name      string
	MaxWidth  int
	MaxHeight int
	Quality   int
	Format    string
}

// VideoPreset describes one target rendition for the video path.
type VideoPreset struct {
	Name             string
	Width            int
	VideoBitrateKbps int
	AudioBitrateKbps int
	FPS              int
	Format           string
}

// Catalog is the fixed set of presets for one process. Zero behavior beyond
// lookup.
type Catalog struct {
	images map[string]ImagePreset
	videos map[string]VideoPreset

	// imageOrder preserves declaration order so rendition lists come out
	// stable run to run.
	imageOrder []string
}

// Default returns the stock catalog: five WebP image presets and three MP4
// video presets. The bitrate and quality numbers are hand-tuned defaults,
// not correctness constraints.
func Default() *Catalog {
	c := &Catalog{
		images: make(map[string]ImagePreset),
		videos: make(map[string]VideoPreset),
	}

	for _, p := range []ImagePreset{
		{Name: "thumbnail", MaxWidth: 150, MaxHeight: 150, Quality: 70, Format: "webp"},
		{Name: "small", MaxWidth: 400, MaxHeight: 400, Quality: 75, Format: "webp"},
		{Name: "medium", MaxWidth: 800, MaxHeight: 800, Quality: 80, Format: "webp"},
		{Name: "large", MaxWidth: 1200, MaxHeight: 1200, Quality: 85, Format: "webp"},
		{Name: "original", MaxWidth: 2000, MaxHeight: 2000, Quality: 90, Format: "webp"},
	} {
		c.images[p.Name] = p
		c.imageOrder = append(c.imageOrder, p.Name)
	}

	for _, p := range []VideoPreset{
		{Name: "feed", Width: 720, VideoBitrateKbps: 600, AudioBitrateKbps: 48, FPS: 20, Format: "mp4"},
		{Name: "story", Width: 480, VideoBitrateKbps: 400, AudioBitrateKbps: 32, FPS: 15, Format: "mp4"},
		// Fallback target only; the still-frame thumbnail is extracted
		// separately and does not use this preset.
		{Name: "thumbnail", Width: 360, VideoBitrateKbps: 200, AudioBitrateKbps: 32, FPS: 15, Format: "mp4"},
	} {
		c.videos[p.Name] = p
	}

	return c
}

// Image returns the named image preset. Panics on unknown names: the preset
// set is compile-time-known, so a miss is a bug in the caller, not input.
func (c *Catalog) Image(name string) ImagePreset {
	p, ok := c.images[name]
	if !ok {
		panic(fmt.Sprintf("preset: unknown image preset %q", name))
	}
	return p
}

// Video returns the named video preset. Panics on unknown names.
func (c *Catalog) Video(name string) VideoPreset {
	p, ok := c.videos[name]
	if !ok {
		panic(fmt.Sprintf("preset: unknown video preset %q", name))
	}
	return p
}

// Images returns all image presets in declaration order.
func (c *Catalog) Images() []ImagePreset {
	out := make([]ImagePreset, 0, len(c.imageOrder))
	for _, name := range c.imageOrder {
		out = append(out, c.images[name])
	}
	return out
}

// SelectVideo picks the transcode target for a source of the given size.
// Sources above the threshold get the smaller story preset so pathological
// uploads degrade in quality instead of stalling the worker; everything else
// gets feed.
func (c *Catalog) SelectVideo(sizeBytes, largeFileThresholdBytes int64) VideoPreset {
	if sizeBytes > largeFileThresholdBytes {
		return c.Video("story")
	}
	return c.Video("feed")
}
