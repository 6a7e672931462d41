// Package snapshot captures the rendered dashboard as a PNG with headless Chrome.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"diet-dashboard/config"
	"diet-dashboard/utils"
)

const (
	viewportWidth  = 1400
	viewportHeight = 900
	pngQuality     = 90
	captureTimeout = 45 * time.Second
)

// ErrEmptyCapture is returned when the browser produced no image.
var ErrEmptyCapture = errors.New("snapshot: empty capture")

type captureFunc func(ctx context.Context, url string) ([]byte, error)

// Capturer drives a headless browser against the dashboard.
type Capturer struct {
	logger  *utils.Logger
	retry   *utils.RetryConfig
	capture captureFunc
}

// New creates a Capturer using the configured or discovered Chrome binary.
func New(cfg *config.Config, logger *utils.Logger) *Capturer {
	logger = logger.With("snapshot")
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("Using browser binary: %s", chromeBin)

	return newCapturer(browserCapture(chromeBin), logger, &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	})
}

func newCapturer(capture captureFunc, logger *utils.Logger, retry *utils.RetryConfig) *Capturer {
	return &Capturer{logger: logger, retry: retry, capture: capture}
}

// Capture returns a full-page PNG of url, retrying failed attempts.
func (c *Capturer) Capture(ctx context.Context, url string) ([]byte, error) {
	var png []byte
	err := c.retry.Do(ctx, "capture "+url, func(ctx context.Context) error {
		buf, err := c.capture(ctx, url)
		if err != nil {
			return err
		}
		if len(buf) == 0 {
			return ErrEmptyCapture
		}
		png = buf
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("Captured %s (%d bytes)", url, len(png))
	return png, nil
}

// CaptureToFile captures url and writes the PNG to path, creating parent
// directories as needed.
func (c *Capturer) CaptureToFile(ctx context.Context, url, path string) error {
	png, err := c.Capture(ctx, url)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	c.logger.Info("Snapshot written to %s", path)
	return nil
}

func browserCapture(chromeBin string) captureFunc {
	return func(ctx context.Context, url string) ([]byte, error) {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-setuid-sandbox", true),
		)
		if chromeBin != "" {
			opts = append(opts, chromedp.ExecPath(chromeBin))
		}

		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
		defer cancelAlloc()

		// Suppress chromedp log noise
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancelBrowser()

		runCtx, cancel := context.WithTimeout(browserCtx, captureTimeout)
		defer cancel()

		var buf []byte
		err := chromedp.Run(runCtx,
			chromedp.EmulateViewport(viewportWidth, viewportHeight),
			chromedp.Navigate(url),
			chromedp.WaitVisible("main", chromedp.ByQuery),
			chromedp.Sleep(time.Second),
			chromedp.FullScreenshot(&buf, pngQuality),
		)
		if err != nil {
			return nil, fmt.Errorf("chromedp: %w", err)
		}
		return buf, nil
	}
}

// findChromeBinary locates a Chrome/Chromium binary, preferring configured.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
