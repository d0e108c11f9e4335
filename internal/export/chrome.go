package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-forge/internal/rendering"
)

// A4 paper size in inches
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// RasterScale is the device pixel ratio used for captures.
const RasterScale = 2

// ChromeRenderer drives headless Chrome through chromedp
type ChromeRenderer struct {
	// Timeout bounds one browser session
	Timeout time.Duration
	// ExecPath overrides the Chrome binary; CHROME_PATH is used when empty
	ExecPath string
	Verbose  bool
}

// NewChromeRenderer returns a renderer with a 60s session timeout.
func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{Timeout: 60 * time.Second, ExecPath: os.Getenv("CHROME_PATH")}
}

// run starts a browser, loads html and runs actions against it
func (c *ChromeRenderer) run(ctx context.Context, html string, actions ...chromedp.Action) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	steps := []chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	}
	return chromedp.Run(browserCtx, append(steps, actions...)...)
}

// RenderToRaster captures the #resume element as a PNG at A4 width and RasterScale.
func (c *ChromeRenderer) RenderToRaster(ctx context.Context, html, background string) ([]byte, error) {
	if c.Verbose {
		log.Printf("[export] Capturing resume (%d bytes of HTML)", len(html))
	}

	var buf []byte
	err := c.run(ctx, html,
		emulation.SetDeviceMetricsOverride(rendering.PageWidthPx, rendering.PageHeightPx, RasterScale, false),
		emulation.SetDefaultBackgroundColorOverride().WithColor(parseRGBA(background)),
		chromedp.WaitReady("#resume", chromedp.ByQuery),
		chromedp.Screenshot("#resume", &buf, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browser capture failed: %w", err)
	}
	return buf, nil
}

// RenderToDocument places png on a single A4 page and prints it to PDF.
func (c *ChromeRenderer) RenderToDocument(ctx context.Context, png []byte) ([]byte, error) {
	var pdf []byte
	err := c.run(ctx, ImagePage(png),
		chromedp.WaitReady("img", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser print failed: %w", err)
	}

	if c.Verbose {
		log.Printf("[export] Printed PDF: %d bytes", len(pdf))
	}
	return pdf, nil
}

// ImagePage is the HTML document that stretches png over one A4 page.
func ImagePage(png []byte) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>@page{size:A4;margin:0}html,body{margin:0;padding:0}img{display:block;width:210mm;height:297mm}</style></head><body><img alt="" src="data:image/png;base64,`)
	sb.WriteString(base64.StdEncoding.EncodeToString(png))
	sb.WriteString(`"></body></html>`)
	return sb.String()
}

// parseRGBA converts #rrggbb to an opaque color, defaulting to white.
func parseRGBA(hex string) *cdp.RGBA {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	out := &cdp.RGBA{R: 255, G: 255, B: 255, A: 1}
	if len(hex) < 6 {
		return out
	}
	var rgb [3]int64
	for i := range rgb {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return out
		}
		rgb[i] = int64(v)
	}
	out.R, out.G, out.B = rgb[0], rgb[1], rgb[2]
	return out
}
