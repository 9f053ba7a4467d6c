package images

import (
	"fmt"
	"os"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"

	"github.com/MundoTango/media-pipeline/internal/logging"
)

var (
	vipsMu        sync.Mutex
	vipsAvailable bool
)

// InitVips starts libvips with conservative memory settings. Call once at
// process start; safe to skip entirely, in which case the engine uses the
// pure-Go path.
func InitVips() {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	if vipsAvailable {
		return
	}

	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[vips/%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[vips/%s] %s", domain, msg)
		default:
			logging.Debug("[vips/%s] %s", domain, msg)
		}
	}, vips.LogLevelWarning)

	vips.Startup(&vips.Config{
		// Preset fan-out already parallelizes; keep vips itself serial so
		// memory use stays proportional to the worker pool size.
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsAvailable = true
	logging.Info("libvips initialized (version %s)", vips.Version)
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	if vipsAvailable {
		vips.Shutdown()
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

func vipsActive() bool {
	vipsMu.Lock()
	defer vipsMu.Unlock()
	return vipsAvailable
}

// encodeWithVips loads srcPath shrunk to fit maxW x maxH (never upscaling),
// exports WebP at the given quality, and writes it to outPath. Returns the
// output dimensions.
func encodeWithVips(srcPath string, maxW, maxH, quality int, outPath string) (int, int, error) {
	ref, err := vips.NewThumbnailWithSizeFromFile(srcPath, maxW, maxH, vips.InterestingNone, vips.SizeDown)
	if err != nil {
		return 0, 0, fmt.Errorf("vips load: %w", err)
	}
	defer ref.Close()

	params := vips.NewWebpExportParams()
	params.Quality = quality

	buf, _, err := ref.ExportWebp(params)
	if err != nil {
		return 0, 0, fmt.Errorf("vips webp export: %w", err)
	}

	if err := os.WriteFile(outPath, buf, 0644); err != nil {
		return 0, 0, err
	}
	return ref.Width(), ref.Height(), nil
}
