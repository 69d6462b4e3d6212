package fetcher

import (
	"context"
	"fmt"
	"time"

	"cosponsor_spider/internal/config"

	"github.com/gocolly/colly"
)

// CollyFetcher fetches pages through a synchronous colly collector. Politeness
// delay and parallelism come from the collector's limit rule.
type CollyFetcher struct {
	collector *colly.Collector
}

func NewCollyFetcher(logic config.LogicConfig, respectRobots bool) (*CollyFetcher, error) {
	c := colly.NewCollector(
		colly.UserAgent(logic.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.IgnoreRobotsTxt = !respectRobots
	c.DetectCharset = true
	c.SetRequestTimeout(time.Duration(logic.TimeoutSec) * time.Second)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: logic.MaxConcurrentWorkers,
		Delay:       time.Duration(logic.DelayMS) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("colly limit rule: %w", err)
	}
	return &CollyFetcher{collector: c}, nil
}

// Fetch returns as soon as ctx is done. colly v1 requests carry no context,
// so an abandoned visit runs to completion in the background and is discarded.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Clones share the limiter and robots cache but not the callbacks.
	c := f.collector.Clone()

	var body []byte
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	done := make(chan error, 1)
	go func() {
		done <- c.Visit(pageURL)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
	}

	if body == nil {
		return nil, fmt.Errorf("%w: empty response from %s", ErrFetch, pageURL)
	}
	return body, nil
}
