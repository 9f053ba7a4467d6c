package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "image/png" // ffmpeg still frames arrive as PNG

	"github.com/disintegration/imaging"

	"github.com/MundoTango/media-pipeline/internal/logging"
	"github.com/MundoTango/media-pipeline/internal/mediatypes"
	"github.com/MundoTango/media-pipeline/internal/metrics"
	"github.com/MundoTango/media-pipeline/internal/preset"
)

// thumbWidth is the fixed width of the still-frame preview thumbnail.
const thumbWidth = 360

// Engine transcodes one source video into one compressed rendition plus a
// best-effort still-frame thumbnail.
type Engine struct {
	outDir             string
	catalog            *preset.Catalog
	largeFileThreshold int64
	timeout            time.Duration

	processes map[string]*exec.Cmd
	processMu sync.Mutex

	now func() time.Time
}

// NewEngine creates a video transcode engine writing into outDir. Sources
// larger than largeFileThreshold bytes are downgraded to the story preset.
// timeout bounds each ffmpeg run; zero disables the bound.
func NewEngine(outDir string, catalog *preset.Catalog, largeFileThreshold int64, timeout time.Duration) (*Engine, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Engine{
		outDir:             outDir,
		catalog:            catalog,
		largeFileThreshold: largeFileThreshold,
		timeout:            timeout,
		processes:          make(map[string]*exec.Cmd),
		now:                time.Now,
	}, nil
}

// Process probes src, transcodes it against the selected preset in a single
// streaming pass, then attempts thumbnail extraction. Thumbnail failure is
// downgraded to a warning and never fails the result.
func (e *Engine) Process(ctx context.Context, src mediatypes.SourceFile) (*mediatypes.ProcessingResult, error) {
	start := e.now()

	info, err := Probe(ctx, src.Path)
	if err != nil {
		return nil, &mediatypes.ProbeError{Path: src.Path, Err: err}
	}

	p := e.catalog.SelectVideo(src.SizeBytes, e.largeFileThreshold)
	logging.Debug("Video %s: %dx%d %.1fs, preset %s", src.Path, info.Width, info.Height, info.DurationSeconds, p.Name)

	stamp := start.UnixMilli()
	base := baseName(src.Path)
	outName := fmt.Sprintf("%s-%d-%s.%s", base, stamp, p.Name, p.Format)
	outPath := filepath.Join(e.outDir, outName)

	if err := e.transcode(ctx, src.Path, info, p, outPath); err != nil {
		return nil, err
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return nil, &mediatypes.EncodeError{Path: src.Path, Err: err}
	}
	metrics.BytesOut.Add(float64(outInfo.Size()))

	outW, outH := targetDims(info.Width, info.Height, p.Width)
	metrics.RenditionsTotal.WithLabelValues(p.Name, "completed").Inc()

	res := &mediatypes.ProcessingResult{
		Source: src.Path,
		Status: mediatypes.StatusCompleted,
		Renditions: []mediatypes.Rendition{{
			PresetName: p.Name,
			OutputPath: outName,
			SizeBytes:  outInfo.Size(),
			Width:      outW,
			Height:     outH,
		}},
		OriginalSizeBytes: src.SizeBytes,
		Format:            info.FormatName,
	}

	thumb, err := e.extractThumbnail(ctx, src.Path, base, stamp)
	if err != nil {
		// Cosmetic degradation only; the compressed rendition stands.
		thumbErr := &mediatypes.ThumbnailError{Path: src.Path, Err: err}
		logging.Warn("%v", thumbErr)
		metrics.ThumbnailFailuresTotal.Inc()
		res.Warnings = append(res.Warnings, thumbErr.Error())
	} else {
		res.Thumbnail = thumb
	}

	res.ProcessingTimeMs = time.Since(start).Milliseconds()
	return res, nil
}

// transcode runs the supervised ffmpeg pass into outPath, deleting partial
// output on failure.
func (e *Engine) transcode(ctx context.Context, srcPath string, info *Info, p preset.VideoPreset, outPath string) error {
	runCtx := ctx
	var cancel context.CancelFunc
	if e.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := buildTranscodeArgs(srcPath, info, p, outPath)
	cmd := exec.CommandContext(runCtx, "ffmpeg", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.track(srcPath, cmd)
	defer e.untrack(srcPath)

	if err := cmd.Start(); err != nil {
		return &mediatypes.EncodeError{Path: srcPath, Err: fmt.Errorf("start ffmpeg: %w", err)}
	}

	// Always await process exit before touching output files.
	if err := cmd.Wait(); err != nil {
		e.removePartial(outPath)

		if ctxErr := runCtx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return &mediatypes.EncodeError{Path: srcPath, Err: fmt.Errorf("transcode timed out after %s: %w", e.timeout, ctxErr)}
			}
			return &mediatypes.EncodeError{Path: srcPath, Err: ctxErr}
		}
		logging.Error("ffmpeg stderr for %s: %s", srcPath, stderr.String())
		return &mediatypes.EncodeError{Path: srcPath, Err: err}
	}
	return nil
}

// buildTranscodeArgs assembles the single-pass decode/filter/encode command:
// fit to the preset width (never upscaling), re-encode video and audio at the
// preset bitrates and frame rate, and put the moov atom first so playback can
// start before the file is fully fetched.
func buildTranscodeArgs(srcPath string, info *Info, p preset.VideoPreset, outPath string) []string {
	args := []string{
		"-i", srcPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-b:v", fmt.Sprintf("%dk", p.VideoBitrateKbps),
		"-r", fmt.Sprintf("%d", p.FPS),
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", p.AudioBitrateKbps),
		"-movflags", "+faststart",
	}

	if info.Width > p.Width {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", p.Width))
	}

	return append(args, "-y", outPath)
}

// extractThumbnail pulls one frame at the 1-second mark (or the very start
// for shorter clips), downscales it to a fixed width, and writes a JPEG next
// to the renditions.
func (e *Engine) extractThumbnail(ctx context.Context, srcPath, base string, stamp int64) (*mediatypes.Rendition, error) {
	frame, err := e.grabFrame(ctx, srcPath, true)
	if err != nil {
		logging.Debug("Frame grab at 1s failed for %s: %v, retrying at start", srcPath, err)
		frame, err = e.grabFrame(ctx, srcPath, false)
		if err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	if img.Bounds().Dx() > thumbWidth {
		img = imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	}

	name := fmt.Sprintf("%s-%d-thumb.jpg", base, stamp)
	outPath := filepath.Join(e.outDir, name)

	f, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 80}); err != nil {
		_ = f.Close()
		_ = os.Remove(outPath)
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	finfo, err := os.Stat(outPath)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &mediatypes.Rendition{
		PresetName: "thumb",
		OutputPath: name,
		SizeBytes:  finfo.Size(),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
	}, nil
}

// grabFrame asks ffmpeg for a single PNG frame on stdout.
func (e *Engine) grabFrame(ctx context.Context, srcPath string, seek bool) ([]byte, error) {
	args := []string{}
	if seek {
		args = append(args, "-ss", "00:00:01")
	}
	args = append(args,
		"-i", srcPath,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame grab: %w (%s)", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame output")
	}
	return stdout.Bytes(), nil
}

// Shutdown kills every tracked ffmpeg process. In-flight jobs observe the
// kill as an encode failure and clean up their partial output.
func (e *Engine) Shutdown() {
	e.processMu.Lock()
	defer e.processMu.Unlock()

	for path, cmd := range e.processes {
		if cmd.Process != nil {
			logging.Info("Killing transcode process for %s", path)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill transcode process for %s: %v", path, err)
			}
		}
	}
}

func (e *Engine) track(path string, cmd *exec.Cmd) {
	e.processMu.Lock()
	e.processes[path] = cmd
	e.processMu.Unlock()
}

func (e *Engine) untrack(path string) {
	e.processMu.Lock()
	delete(e.processes, path)
	e.processMu.Unlock()
}

func (e *Engine) removePartial(outPath string) {
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		cleanupErr := &mediatypes.CleanupError{Path: outPath, Err: err}
		logging.Warn("%v", cleanupErr)
	}
}

// targetDims computes the rendition dimensions: the preset width capped at
// the source width, height scaled proportionally and rounded down to even
// (matching ffmpeg's scale=w:-2).
func targetDims(srcW, srcH, presetW int) (int, int) {
	if srcW <= presetW {
		return srcW, srcH
	}
	h := srcH * presetW / srcW
	if h%2 == 1 {
		h--
	}
	if h < 2 {
		h = 2
	}
	return presetW, h
}

func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
