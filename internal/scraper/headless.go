package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// HeadlessConfig controls the chromedp-backed fetcher.
type HeadlessConfig struct {
	UserAgent         string
	NavigationTimeout time.Duration
	// WaitSelector is the CSS selector that must appear before the DOM is
	// captured. Empty means capture after navigation settles.
	WaitSelector string
}

// HeadlessFetcher implements Fetcher with a headless browser, for regions
// whose pages render the software list client-side.
type HeadlessFetcher struct {
	cfg         HeadlessConfig
	allocator   context.Context
	allocCancel context.CancelFunc
}

// NewHeadlessFetcher creates a headless fetcher backed by chromedp.
func NewHeadlessFetcher(cfg HeadlessConfig) *HeadlessFetcher {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 45 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &HeadlessFetcher{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}
}

// Close cancels the allocator context, tearing down the browser.
func (f *HeadlessFetcher) Close() {
	f.allocCancel()
}

// Fetch navigates with a headless browser and returns the rendered DOM.
func (f *HeadlessFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	taskCtx, taskCancel := chromedp.NewContext(f.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, f.cfg.NavigationTimeout)
	defer cancel()

	tasks := chromedp.Tasks{
		emulation.SetUserAgentOverride(f.userAgent()),
		chromedp.Navigate(url),
	}
	if f.cfg.WaitSelector != "" {
		tasks = append(tasks, chromedp.WaitVisible(f.cfg.WaitSelector, chromedp.ByQuery))
	}
	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return nil, fmt.Errorf("render %s: %w", url, err)
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("headless fetch canceled: %w", ctx.Err())
	default:
	}
	return []byte(html), nil
}

func (f *HeadlessFetcher) userAgent() string {
	if f.cfg.UserAgent != "" {
		return f.cfg.UserAgent
	}
	return "realme-updates-tracker/1.0"
}
