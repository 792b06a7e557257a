package gmaps

import (
	"context"
	"time"

	"gmaps-scraper/utils"
)

// Feed is the capability the collector drives: a virtualized result list
// that renders more items when scrolled.
type Feed interface {
	// Count reports the number of result items currently rendered.
	Count(ctx context.Context) (int, error)
	// LoadMore triggers incremental loading (scroll the feed to the bottom).
	LoadMore(ctx context.Context) error
	// EndReached reports whether the explicit end-of-list marker is visible.
	EndReached(ctx context.Context) bool
}

// Collector drives a Feed to a stable, complete state without knowing the
// true item count in advance. It stops on the end-of-list marker, on a run
// of attempts that produced no new items, or on the attempt budget.
type Collector struct {
	MaxAttempts int
	StallLimit  int
	Settle      time.Duration
	BaseBackoff time.Duration
	Logger      *utils.Logger

	sleepFn func(context.Context, time.Duration)
}

// NewCollector returns a Collector with the given budgets.
func NewCollector(maxAttempts, stallLimit int, settle time.Duration, logger *utils.Logger) *Collector {
	return &Collector{
		MaxAttempts: maxAttempts,
		StallLimit:  stallLimit,
		Settle:      settle,
		BaseBackoff: settle,
		Logger:      logger,
	}
}

// Run executes the stall-detection loop and returns the final item count.
// A failing trigger ends the loop with whatever count was last observed —
// partial results are acceptable, not fatal.
func (c *Collector) Run(ctx context.Context, feed Feed) int {
	previous := 0
	stalls := 0

	for attempt := 0; attempt < c.MaxAttempts; attempt++ {
		count, err := feed.Count(ctx)
		if err != nil {
			c.Logger.Warn("[feed] count read failed: %v — stopping with %d items", err, previous)
			return previous
		}
		c.Logger.Info("[feed] %d results so far", count)

		if count == previous && attempt > 0 {
			stalls++

			if feed.EndReached(ctx) {
				c.Logger.Info("[feed] reached the end-of-list marker")
				return count
			}
			if stalls >= c.StallLimit {
				c.Logger.Info("[feed] count unchanged for %d scrolls — assuming exhausted", stalls)
				return count
			}

			// Stall backoff grows with each unchanged read, then an extra
			// scroll that does not consume the attempt budget.
			c.Logger.Debug("[feed] count unchanged (%d time(s)), backing off", stalls)
			c.sleep(ctx, c.BaseBackoff+time.Duration(stalls)*time.Second)
			if err := feed.LoadMore(ctx); err != nil {
				c.Logger.Warn("[feed] scroll failed: %v — stopping with %d items", err, count)
				return count
			}
			c.sleep(ctx, time.Second)
		} else {
			stalls = 0
		}

		previous = count
		if err := feed.LoadMore(ctx); err != nil {
			c.Logger.Warn("[feed] scroll failed: %v — stopping with %d items", err, previous)
			return previous
		}
		c.sleep(ctx, c.Settle)
	}

	c.Logger.Info("[feed] reached maximum scroll attempts (%d)", c.MaxAttempts)
	return previous
}

func (c *Collector) sleep(ctx context.Context, d time.Duration) {
	if c.sleepFn != nil {
		c.sleepFn(ctx, d)
		return
	}
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
