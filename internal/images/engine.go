package images

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	// Decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decode for the pure-Go path

	"github.com/MundoTango/media-pipeline/internal/logging"
	"github.com/MundoTango/media-pipeline/internal/mediatypes"
	"github.com/MundoTango/media-pipeline/internal/metrics"
	"github.com/MundoTango/media-pipeline/internal/preset"
)

// Engine produces one rendition per image preset from a single source image.
type Engine struct {
	outDir  string
	catalog *preset.Catalog
	useVips bool

	now func() time.Time
}

// NewEngine creates an image rendition engine writing into outDir. When
// useVips is true and InitVips has been called, encodes go through libvips;
// otherwise the pure-Go decode/resize/encode path is used.
func NewEngine(outDir string, catalog *preset.Catalog, useVips bool) (*Engine, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Engine{
		outDir:  outDir,
		catalog: catalog,
		useVips: useVips,
		now:     time.Now,
	}, nil
}

// Process encodes src against every image preset in parallel and joins on
// all of them. Individual preset failures are recorded on the result while
// sibling presets still complete; the error return is reserved for failures
// that leave no rendition at all.
func (e *Engine) Process(ctx context.Context, src mediatypes.SourceFile) (*mediatypes.ProcessingResult, error) {
	start := e.now()

	dims, format, err := readMeta(src.Path)
	if err != nil {
		return nil, &mediatypes.ProbeError{Path: src.Path, Err: err}
	}

	useVips := e.useVips && vipsActive()

	// The pure-Go path decodes once and shares the pixels read-only across
	// the fan-out. The vips path instead shrinks at decode time per preset,
	// which is cheaper than one full decode for large sources.
	var decoded image.Image
	if !useVips {
		decoded, err = imaging.Open(src.Path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, &mediatypes.EncodeError{Path: src.Path, Err: err}
		}
	}

	presets := e.catalog.Images()
	stamp := start.UnixMilli()
	base := baseName(src.Path)

	type outcome struct {
		idx       int
		rendition mediatypes.Rendition
		err       error
	}

	results := make(chan outcome, len(presets))
	var wg sync.WaitGroup

	for i, p := range presets {
		wg.Add(1)
		go func(idx int, p preset.ImagePreset) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				results <- outcome{idx: idx, err: err}
				return
			}

			r, err := e.encodeOne(src.Path, decoded, useVips, p, base, stamp)
			results <- outcome{idx: idx, rendition: r, err: err}
		}(i, p)
	}

	wg.Wait()
	close(results)

	res := &mediatypes.ProcessingResult{
		Source:            src.Path,
		Renditions:        make([]mediatypes.Rendition, 0, len(presets)),
		OriginalSizeBytes: src.SizeBytes,
		Format:            format,
	}

	byIndex := make([]outcome, len(presets))
	for o := range results {
		byIndex[o.idx] = o
	}

	var firstErr error
	for i, o := range byIndex {
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			name := presets[i].Name
			logging.Warn("Image preset %s failed for %s: %v", name, src.Path, o.err)
			metrics.RenditionsTotal.WithLabelValues(name, "failed").Inc()
			res.PresetFailures = append(res.PresetFailures, mediatypes.PresetFailure{
				PresetName: name,
				Reason:     o.err.Error(),
				Err:        o.err,
			})
			continue
		}
		metrics.RenditionsTotal.WithLabelValues(presets[i].Name, "completed").Inc()
		res.Renditions = append(res.Renditions, o.rendition)
	}

	res.ProcessingTimeMs = time.Since(start).Milliseconds()

	switch {
	case len(res.Renditions) == 0:
		return nil, &mediatypes.EncodeError{Path: src.Path, Err: firstErr}
	case len(res.PresetFailures) > 0:
		res.Status = mediatypes.StatusPartiallyCompleted
	default:
		res.Status = mediatypes.StatusCompleted
	}

	logging.Debug("Image %s: %d/%d presets in %dms (dims %dx%d)",
		base, len(res.Renditions), len(presets), res.ProcessingTimeMs, dims.Width, dims.Height)
	return res, nil
}

// encodeOne writes a single preset rendition and returns its metadata.
func (e *Engine) encodeOne(srcPath string, decoded image.Image, useVips bool, p preset.ImagePreset, base string, stamp int64) (mediatypes.Rendition, error) {
	name := fmt.Sprintf("%s-%d-%s.%s", base, stamp, p.Name, p.Format)
	outPath := filepath.Join(e.outDir, name)

	var outW, outH int
	var err error

	if useVips {
		outW, outH, err = encodeWithVips(srcPath, p.MaxWidth, p.MaxHeight, p.Quality, outPath)
	} else {
		outW, outH, err = encodePureGo(decoded, p, outPath)
	}
	if err != nil {
		return mediatypes.Rendition{}, err
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return mediatypes.Rendition{}, err
	}

	metrics.BytesOut.Add(float64(info.Size()))
	return mediatypes.Rendition{
		PresetName: p.Name,
		OutputPath: name,
		SizeBytes:  info.Size(),
		Width:      outW,
		Height:     outH,
	}, nil
}

// encodePureGo fits the already-decoded source into the preset bounding box
// and writes it as WebP. imaging.Fit only ever scales down, which preserves
// the no-upscale invariant.
func encodePureGo(decoded image.Image, p preset.ImagePreset, outPath string) (int, int, error) {
	resized := imaging.Fit(decoded, p.MaxWidth, p.MaxHeight, imaging.Lanczos)
	bounds := resized.Bounds()

	f, err := os.Create(outPath)
	if err != nil {
		return 0, 0, err
	}

	if err := webp.Encode(f, resized, &webp.Options{Quality: float32(p.Quality)}); err != nil {
		_ = f.Close()
		_ = os.Remove(outPath)
		return 0, 0, fmt.Errorf("webp encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, 0, err
	}
	return bounds.Dx(), bounds.Dy(), nil
}

// readMeta reads the source dimensions and format from the header without
// decoding the pixels.
func readMeta(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", err
	}
	return cfg, format, nil
}

func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
