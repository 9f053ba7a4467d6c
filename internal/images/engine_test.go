package images

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MundoTango/media-pipeline/internal/mediatypes"
	"github.com/MundoTango/media-pipeline/internal/preset"
)

// createTestImage writes a gradient image so resize output is non-trivial.
func createTestImage(t *testing.T, path string, width, height int, format string) int64 {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image file: %v", err)
	}
	defer f.Close()

	switch format {
	case "jpeg", "jpg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(f, img)
	default:
		t.Fatalf("Unsupported test image format: %s", format)
	}
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat test image: %v", err)
	}
	return info.Size()
}

func newTestEngine(t *testing.T, outDir string) *Engine {
	t.Helper()
	e, err := NewEngine(outDir, preset.Default(), false)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestProcessProducesAllRenditions(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")

	srcPath := filepath.Join(tmpDir, "photo.jpg")
	srcSize := createTestImage(t, srcPath, 3000, 2000, "jpeg")

	e := newTestEngine(t, outDir)
	res, err := e.Process(context.Background(), mediatypes.SourceFile{
		Path: srcPath, MimeType: "image/jpeg", SizeBytes: srcSize,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Status != mediatypes.StatusCompleted {
		t.Errorf("Status = %s, want completed", res.Status)
	}
	if len(res.Renditions) != 5 {
		t.Fatalf("got %d renditions, want 5", len(res.Renditions))
	}
	if res.Format != "jpeg" {
		t.Errorf("Format = %q, want jpeg", res.Format)
	}
	if res.OriginalSizeBytes != srcSize {
		t.Errorf("OriginalSizeBytes = %d, want %d", res.OriginalSizeBytes, srcSize)
	}

	catalog := preset.Default()
	for _, r := range res.Renditions {
		p := catalog.Image(r.PresetName)

		maxW := min(p.MaxWidth, 3000)
		maxH := min(p.MaxHeight, 2000)
		if r.Width > maxW || r.Height > maxH {
			t.Errorf("%s rendition %dx%d exceeds bounds %dx%d",
				r.PresetName, r.Width, r.Height, maxW, maxH)
		}
		if r.SizeBytes <= 0 {
			t.Errorf("%s rendition has size %d", r.PresetName, r.SizeBytes)
		}
		if r.SizeBytes >= srcSize {
			t.Errorf("%s rendition (%d bytes) not smaller than source (%d bytes)",
				r.PresetName, r.SizeBytes, srcSize)
		}

		onDisk := filepath.Join(outDir, r.OutputPath)
		if _, err := os.Stat(onDisk); err != nil {
			t.Errorf("%s rendition missing on disk: %v", r.PresetName, err)
		}
	}
}

func TestProcessNeverUpscales(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "tiny.png")
	createTestImage(t, srcPath, 100, 100, "png")

	e := newTestEngine(t, filepath.Join(tmpDir, "out"))
	res, err := e.Process(context.Background(), mediatypes.SourceFile{
		Path: srcPath, MimeType: "image/png", SizeBytes: 1,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	for _, r := range res.Renditions {
		if r.Width != 100 || r.Height != 100 {
			t.Errorf("%s rendition = %dx%d, want 100x100 (no upscaling)",
				r.PresetName, r.Width, r.Height)
		}
	}
}

func TestProcessOutputNaming(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "vacation.jpg")
	createTestImage(t, srcPath, 400, 300, "jpeg")

	e := newTestEngine(t, filepath.Join(tmpDir, "out"))
	fixed := time.UnixMilli(1700000000000)
	e.now = func() time.Time { return fixed }

	res, err := e.Process(context.Background(), mediatypes.SourceFile{
		Path: srcPath, MimeType: "image/jpeg", SizeBytes: 1,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	for _, r := range res.Renditions {
		want := fmt.Sprintf("vacation-1700000000000-%s.webp", r.PresetName)
		if r.OutputPath != want {
			t.Errorf("OutputPath = %q, want %q", r.OutputPath, want)
		}
	}
}

func TestProcessPartialFailure(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")
	srcPath := filepath.Join(tmpDir, "img.jpg")
	createTestImage(t, srcPath, 800, 600, "jpeg")

	e := newTestEngine(t, outDir)
	fixed := time.UnixMilli(1700000000000)
	e.now = func() time.Time { return fixed }

	// Occupy the small preset's output path with a directory so that one
	// encode fails while the siblings succeed.
	blocked := filepath.Join(outDir, "img-1700000000000-small.webp")
	if err := os.MkdirAll(blocked, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	res, err := e.Process(context.Background(), mediatypes.SourceFile{
		Path: srcPath, MimeType: "image/jpeg", SizeBytes: 1,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Status != mediatypes.StatusPartiallyCompleted {
		t.Errorf("Status = %s, want partially_completed", res.Status)
	}
	if len(res.Renditions) != 4 {
		t.Errorf("got %d renditions, want 4", len(res.Renditions))
	}
	if len(res.PresetFailures) != 1 {
		t.Fatalf("got %d preset failures, want 1", len(res.PresetFailures))
	}
	if res.PresetFailures[0].PresetName != "small" {
		t.Errorf("failed preset = %q, want small", res.PresetFailures[0].PresetName)
	}
}

func TestProcessUnreadableSource(t *testing.T) {
	tmpDir := t.TempDir()
	e := newTestEngine(t, filepath.Join(tmpDir, "out"))

	_, err := e.Process(context.Background(), mediatypes.SourceFile{
		Path: filepath.Join(tmpDir, "missing.jpg"), MimeType: "image/jpeg",
	})

	var probeErr *mediatypes.ProbeError
	if !errors.As(err, &probeErr) {
		t.Errorf("err = %v, want *ProbeError", err)
	}
}

func TestProcessCorruptSource(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "corrupt.jpg")
	if err := os.WriteFile(srcPath, []byte("not an image at all"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	e := newTestEngine(t, filepath.Join(tmpDir, "out"))
	_, err := e.Process(context.Background(), mediatypes.SourceFile{
		Path: srcPath, MimeType: "image/jpeg",
	})

	var probeErr *mediatypes.ProbeError
	if !errors.As(err, &probeErr) {
		t.Errorf("err = %v, want *ProbeError", err)
	}
}
