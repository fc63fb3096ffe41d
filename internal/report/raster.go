package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const defaultRasterTimeout = 30 * time.Second

// RasterConfig tunes the headless-Chrome chart rasterizer.
type RasterConfig struct {
	Timeout   time.Duration
	RemoteURL string
	NoSandbox bool
	Scale     float64
}

// Rasterizer converts SVG chart markup to PNG bytes through the Chrome
// DevTools protocol. One browser tab is opened per chart; failures are
// independent, the caller decides whether a missing chart is fatal.
type Rasterizer struct {
	config      RasterConfig
	logger      *slog.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewRasterizer prepares the Chrome allocator. Call Close when done.
func NewRasterizer(config RasterConfig, logger *slog.Logger) *Rasterizer {
	if config.Timeout == 0 {
		config.Timeout = defaultRasterTimeout
	}
	if config.Scale == 0 {
		config.Scale = 2.0
	}
	r := &Rasterizer{config: config, logger: logger}
	r.initAllocator()
	return r
}

func (r *Rasterizer) initAllocator() {
	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
		return
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// RenderPNG rasterizes one SVG document at the given pixel size.
func (r *Rasterizer) RenderPNG(ctx context.Context, svgMarkup string, width, height int) ([]byte, error) {
	if strings.TrimSpace(svgMarkup) == "" {
		return nil, fmt.Errorf("report: svg markup is empty")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("report: invalid raster size %dx%d", width, height)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	html := wrapSVG(svgMarkup, width, height)

	var png []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		emulation.SetDeviceMetricsOverride(int64(width), int64(height), r.config.Scale, false),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{
					X:      0,
					Y:      0,
					Width:  float64(width),
					Height: float64(height),
					Scale:  r.config.Scale,
				}).
				Do(ctx)
			if err != nil {
				return err
			}
			png = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("report: rasterize timed out after %v: %w", r.config.Timeout, err)
		}
		return nil, fmt.Errorf("report: rasterize: %w", err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("report: rasterize produced no data")
	}
	if r.logger != nil {
		r.logger.Debug("chart rasterized",
			slog.Int("width", width),
			slog.Int("height", height),
			slog.Duration("elapsed", time.Since(start)))
	}
	return png, nil
}

// Close releases the Chrome allocator.
func (r *Rasterizer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func wrapSVG(svgMarkup string, width, height int) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"UTF-8\">")
	b.WriteString("<style>html,body{margin:0;padding:0;background:#ffffff}svg{display:block}</style>")
	b.WriteString("</head><body>")
	b.WriteString(fmt.Sprintf("<div style=\"width:%dpx;height:%dpx\">", width, height))
	b.WriteString(svgMarkup)
	b.WriteString("</div></body></html>")
	return b.String()
}
