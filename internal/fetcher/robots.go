package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsCache keeps one robots.txt group per host. A robots.txt that cannot be
// fetched or parsed allows everything.
type robotsCache struct {
	client    *http.Client
	userAgent string
	groups    map[string]*robotstxt.Group
	mu        sync.Mutex
}

func newRobotsCache(client *http.Client, userAgent string) *robotsCache {
	return &robotsCache{
		client:    client,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

func (rc *robotsCache) Allowed(ctx context.Context, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return false
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	group, ok := rc.groups[u.Host]
	if !ok {
		group = rc.load(ctx, u)
		rc.groups[u.Host] = group
	}
	if group == nil {
		return true
	}
	return group.Test(u.RequestURI())
}

func (rc *robotsCache) load(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", rc.userAgent)

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(rc.userAgent)
}
