// Package snapshot captures a PNG image of a built page with headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds one capture, including browser start-up
const DefaultTimeout = 60 * time.Second

// Options configures a capture
type Options struct {
	// Width is the viewport width in CSS pixels
	Width int
	// Height is the initial viewport height; the screenshot covers the full page
	Height  int
	Timeout time.Duration
	// ExecPath overrides the browser binary
	ExecPath string
}

// Capture renders the HTML file at pagePath and returns a full page PNG
func Capture(ctx context.Context, pagePath string, opts Options, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	target, err := pageURL(pagePath)
	if err != nil {
		return nil, err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var png []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", pagePath, err)
	}

	logger.Info("Page snapshot captured",
		slog.String("page", pagePath),
		slog.Int("width", opts.Width),
		slog.Int("bytes", len(png)),
		slog.Duration("duration", time.Since(start)))

	return png, nil
}

// pageURL converts a local file path to a file:// URL
func pageURL(pagePath string) (string, error) {
	abs, err := filepath.Abs(pagePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve page path %s: %w", pagePath, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if u.Path[0] != '/' {
		// Windows drive letters
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}
