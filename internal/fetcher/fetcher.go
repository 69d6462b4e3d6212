package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cosponsor_spider/internal/config"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

var (
	ErrFetch          = errors.New("fetch failed")
	ErrParse          = errors.New("parse failed")
	ErrNumberMismatch = errors.New("bill number mismatch")
)

const MaxHops = 15

// Source retrieves the raw bytes of one page.
type Source interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// New picks the engine named in cfg.Logic.Engine.
func New(cfg *config.SpiderConfig) (Source, error) {
	switch strings.ToLower(cfg.Logic.Engine) {
	case "colly":
		return NewCollyFetcher(cfg.Logic, cfg.Source.RespectRobots)
	case "http", "":
		return NewHTTPFetcher(cfg.Logic, cfg.Source.RespectRobots), nil
	}
	return nil, fmt.Errorf("unknown fetch engine %q", cfg.Logic.Engine)
}

type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	robots    *robotsCache
	userAgent string
}

func NewHTTPFetcher(logic config.LogicConfig, respectRobots bool) *HTTPFetcher {
	limit := rate.Inf
	if logic.DelayMS > 0 {
		limit = rate.Every(time.Duration(logic.DelayMS) * time.Millisecond)
	}

	f := &HTTPFetcher{
		client: &http.Client{
			Timeout: time.Duration(logic.TimeoutSec) * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxHops {
					return fmt.Errorf("stopped after %d redirects", MaxHops)
				}
				return nil
			},
		},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: logic.UserAgent,
	}
	if respectRobots {
		f.robots = newRobotsCache(f.client, logic.UserAgent)
	}
	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if f.robots != nil && !f.robots.Allowed(ctx, pageURL) {
		return nil, fmt.Errorf("%w: %s disallowed by robots.txt", ErrFetch, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetch, resp.StatusCode)
	}

	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		utf8Reader = resp.Body
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	return body, nil
}
