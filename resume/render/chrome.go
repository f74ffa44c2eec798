package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const chromeTimeout = 60 * time.Second

// ChromeEngine prints the HTML preview with headless Chrome, so the PDF
// matches what the browser shows.
type ChromeEngine struct {
	execPath string
	timeout  time.Duration
}

func NewChromeEngine(execPath string) *ChromeEngine {
	return &ChromeEngine{execPath: execPath, timeout: chromeTimeout}
}

func (e *ChromeEngine) Name() string { return "chrome" }

func (e *ChromeEngine) PDF(ctx context.Context, req Request) ([]byte, error) {
	html, err := Preview(req)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, fmt.Errorf("chrome temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("chrome write html: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, e.timeout)
	defer cancelRun()

	var out []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// A4 in inches.
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			out = buf
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyDocument
	}
	return out, nil
}
