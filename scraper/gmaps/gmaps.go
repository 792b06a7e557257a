package gmaps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"gmaps-scraper/config"
	"gmaps-scraper/models"
	"gmaps-scraper/utils"
)

const (
	startURL = "https://www.google.com/maps"

	searchBoxSelector  = `#searchboxinput`
	feedSelector       = `div[role="feed"]`
	resultItemSelector = `div.Nv2PK`
)

// Scraper orchestrates one Google Maps search session: navigate, dismiss
// the consent dialog, submit the query, drive the result feed to completion
// and hand the rendered cards to the extractor.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape runs the session for one search query and returns the raw bundles
// in feed order. A feed that never becomes visible is session-fatal but not
// an error: the return is an empty set.
func (s *Scraper) Scrape(query string) ([]*models.RawPlace, error) {
	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[gmaps] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelCtx()

	s.logger.Info("[gmaps] Navigating to Google Maps...")
	if err := chromedp.Run(ctx,
		chromedp.Navigate(startURL),
		chromedp.Sleep(time.Second),
	); err != nil {
		return nil, fmt.Errorf("gmaps: navigate: %w", err)
	}

	s.dismissConsent(ctx)

	s.logger.Info("[gmaps] Searching for: %s", query)
	if err := s.submitSearch(ctx, query); err != nil {
		return nil, fmt.Errorf("gmaps: submit search: %w", err)
	}

	s.logger.Info("[gmaps] Waiting for search results...")
	if err := s.waitForFeed(ctx); err != nil {
		s.logger.Error("[gmaps] Results feed never became visible: %v", err)
		return nil, nil
	}
	s.logger.Info("[gmaps] Search results loaded.")

	collector := NewCollector(s.cfg.MaxScrollAttempts, s.cfg.StallLimit,
		time.Duration(s.cfg.SettleMs)*time.Millisecond, s.logger)
	total := collector.Run(ctx, &pageFeed{})

	s.logger.Info("[gmaps] Scrolling finished — extracting data from %d results", total)

	var feedHTML string
	if err := chromedp.Run(ctx,
		chromedp.OuterHTML(feedSelector, &feedHTML, chromedp.ByQuery),
	); err != nil {
		s.logger.Error("[gmaps] Failed to read feed markup: %v", err)
		return nil, nil
	}

	bundles, err := ExtractCards(feedHTML, time.Now())
	if err != nil {
		s.logger.Error("[gmaps] Feed markup unparseable: %v", err)
		return nil, nil
	}

	s.logger.Info("[gmaps] Extracted %d raw bundles", len(bundles))
	return bundles, nil
}

// dismissConsent best-effort clicks a consent dialog button. Absence or a
// timeout is expected and swallowed.
func (s *Scraper) dismissConsent(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var clicked bool
	if err := chromedp.Run(cctx, chromedp.Evaluate(consentScript, &clicked)); err != nil {
		s.logger.Debug("[gmaps] Consent check skipped: %v", err)
		return
	}
	if clicked {
		s.logger.Info("[gmaps] Consent dialog dismissed")
	} else {
		s.logger.Debug("[gmaps] No consent dialog found")
	}
}

// submitSearch fills the search box and presses Enter. This is the only
// retried operation in the session.
func (s *Scraper) submitSearch(ctx context.Context, query string) error {
	return s.retry.Do("submit-search", func() error {
		tctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		return chromedp.Run(tctx,
			chromedp.WaitVisible(searchBoxSelector, chromedp.ByQuery),
			chromedp.Clear(searchBoxSelector, chromedp.ByQuery),
			chromedp.SendKeys(searchBoxSelector, query+kb.Enter, chromedp.ByQuery),
		)
	})
}

func (s *Scraper) waitForFeed(ctx context.Context) error {
	wctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.FeedTimeoutSec)*time.Second)
	defer cancel()
	return chromedp.Run(wctx, chromedp.WaitVisible(feedSelector, chromedp.ByQuery))
}

// pageFeed adapts the live results panel to the Feed capability.
type pageFeed struct{}

func (f *pageFeed) Count(ctx context.Context) (int, error) {
	var n int
	err := chromedp.Run(ctx, chromedp.Evaluate(countScript, &n))
	return n, err
}

func (f *pageFeed) LoadMore(ctx context.Context) error {
	return chromedp.Run(ctx, chromedp.Evaluate(scrollScript, nil))
}

func (f *pageFeed) EndReached(ctx context.Context) bool {
	tctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	var visible bool
	if err := chromedp.Run(tctx, chromedp.Evaluate(endMarkerScript, &visible)); err != nil {
		return false
	}
	return visible
}

const countScript = `document.querySelectorAll('div.Nv2PK').length`

const scrollScript = `(function () {
  const feed = document.querySelector('div[role="feed"]');
  if (!feed) {
    throw new Error('results feed not found');
  }
  feed.scrollTop = feed.scrollHeight;
})();`

const endMarkerScript = `(function () {
  const spans = document.querySelectorAll('span');
  for (const s of spans) {
    if (s.textContent.includes("You've reached the end of the list.")) {
      const rect = s.getBoundingClientRect();
      return rect.width > 0 && rect.height > 0;
    }
  }
  return false;
})();`

const consentScript = `(function () {
  const selectors = [
    'button[aria-label="Accept all"]',
    'button[aria-label="Reject all"]',
    'button[aria-label="I agree"]',
    'button.VfPpkd-LgbsSe-OWXEXe-k8QpJ'
  ];
  for (const sel of selectors) {
    const btn = document.querySelector(sel);
    if (btn) {
      btn.click();
      return true;
    }
  }
  return false;
})();`

// findChromeBinary locates a Chrome/Chromium binary, preferring the
// configured path.
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
