package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/chromedp/chromedp"
	"github.com/labstack/gommon/log"

	"github.com/renotrack/renovation-tracker/internal/config"
)

// Browser returns the rendered HTML of a page.
type Browser interface {
	PageSource(ctx context.Context, url string) (string, error)
}

// ChromeBrowser renders pages with a headless Chrome driven by chromedp.
// Every call starts its own allocator so a crashed tab never leaks into
// the next request.
type ChromeBrowser struct {
	cfg    config.ScraperConfig
	bin    string
	logger *log.Logger
}

// NewChromeBrowser resolves the Chrome binary once and returns a browser
// using cfg's timeout and user agent.
func NewChromeBrowser(cfg config.ScraperConfig, logger *log.Logger) *ChromeBrowser {
	bin := cfg.ChromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	if bin != "" {
		logger.Infof("using browser binary %s", bin)
	}
	return &ChromeBrowser{cfg: cfg, bin: bin, logger: logger}
}

func (b *ChromeBrowser) PageSource(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(b.cfg.UserAgent),
	)
	if b.bin != "" {
		opts = append(opts, chromedp.ExecPath(b.bin))
	}

	timeout := b.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetch, url, err)
	}
	b.logger.Debugf("fetched %s (%d bytes)", url, len(html))
	return html, nil
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	for _, p := range []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	// Let chromedp fall back to its own lookup.
	return ""
}
