package capture

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vova616/screenshot"
)

// Grab returns a screen capture of the current active monitor.
func Grab() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

// Grabber returns a Grab wrapper that logs capture size and latency.
func Grabber(logger *slog.Logger) func() (*image.RGBA, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func() (*image.RGBA, error) {
		start := time.Now()
		img, err := Grab()
		if err != nil {
			logger.Error("capture.grab", "error", err)
			return nil, err
		}
		b := img.Bounds()
		logger.Info("capture.grab",
			"width", b.Dx(),
			"height", b.Dy(),
			"bytes", humanize.Bytes(uint64(len(img.Pix))),
			"took", time.Since(start),
		)
		return img, nil
	}
}
