package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"RecipeImageScanner/internal/ports"
)

const (
	defaultNavTimeout = 30 * time.Second
	defaultSettle     = 1500 * time.Millisecond
)

// Config controls the headless Chrome session.
type Config struct {
	Headless   bool
	UserAgent  string
	NavTimeout time.Duration
	Settle     time.Duration
}

// Renderer drives a single headless Chrome session via chromedp and exposes
// rendered documents as ports.Page. One page is in flight at a time; the
// session is not safe for concurrent navigations.
type Renderer struct {
	browserCtx  context.Context
	cancelAll   []context.CancelFunc
	navTimeout  time.Duration
	settleDelay time.Duration
}

var _ ports.Renderer = (*Renderer)(nil)

// New prepares the browser allocator. Chrome itself launches lazily on the
// first navigation. Automation fingerprint flags are suppressed so search
// sites serve the same markup they serve real browsers.
func New(cfg Config) *Renderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	navTimeout := cfg.NavTimeout
	if navTimeout <= 0 {
		navTimeout = defaultNavTimeout
	}
	settle := cfg.Settle
	if settle <= 0 {
		settle = defaultSettle
	}

	return &Renderer{
		browserCtx:  browserCtx,
		cancelAll:   []context.CancelFunc{cancelBrowser, cancelAlloc},
		navTimeout:  navTimeout,
		settleDelay: settle,
	}
}

// Load navigates to the URL, waits for the content to settle, and returns the
// rendered document. The navigation is bounded by the configured timeout.
func (r *Renderer) Load(ctx context.Context, pageURL string) (ports.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	navCtx, cancel := context.WithTimeout(r.browserCtx, r.navTimeout)
	defer cancel()

	var rendered string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.settleDelay),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("parse rendered page: %w", err)
	}

	return NewPage(doc, pageURL), nil
}

// Close tears down the browser session.
func (r *Renderer) Close() {
	for _, cancel := range r.cancelAll {
		cancel()
	}
}
