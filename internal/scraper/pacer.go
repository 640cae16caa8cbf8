package scraper

import (
	"context"
	"time"
)

// Pacer controls the two delays in the scrape loop: the settle delay
// after a results page loads and the inter-page interval between
// navigations.
type Pacer interface {
	// Settle blocks until deferred content on the current page has had
	// time to render.
	Settle(ctx context.Context) error
	// NextPage blocks for the full inter-page interval before the next
	// navigation is allowed.
	NextPage(ctx context.Context) error
}

type delayPacer struct {
	settle       time.Duration
	pageInterval time.Duration
}

// NewPacer builds a Pacer with fixed settle and inter-page delays.
// Both are flat waits: the inter-page interval is measured from the
// NextPage call itself, so time already spent settling or extracting
// never shortens the pause before the next navigation.
func NewPacer(settle, pageInterval time.Duration) Pacer {
	return &delayPacer{
		settle:       settle,
		pageInterval: pageInterval,
	}
}

func (p *delayPacer) Settle(ctx context.Context) error {
	return wait(ctx, p.settle)
}

func (p *delayPacer) NextPage(ctx context.Context) error {
	return wait(ctx, p.pageInterval)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
