package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosponsor_spider/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogic() config.LogicConfig {
	cfg := config.SpiderConfig{}.WithDefaults()
	cfg.Logic.TimeoutSec = 5
	return cfg.Logic
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<p>caf\xe9</p>"))
	})
	mux.HandleFunc("/private/bill", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<p>secret</p>"))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte("<p>late</p>"))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcherTranscodesBody(t *testing.T) {
	srv := newTestServer(t)
	f := NewHTTPFetcher(testLogic(), false)

	body, err := f.Fetch(context.Background(), srv.URL+"/latin1")
	require.NoError(t, err)
	assert.Equal(t, "<p>café</p>", string(body))
}

func TestHTTPFetcherStatusError(t *testing.T) {
	srv := newTestServer(t)
	f := NewHTTPFetcher(testLogic(), false)

	_, err := f.Fetch(context.Background(), srv.URL+"/broken")
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorContains(t, err, "HTTP 500")
}

func TestHTTPFetcherRespectsRobots(t *testing.T) {
	srv := newTestServer(t)

	_, err := NewHTTPFetcher(testLogic(), true).Fetch(context.Background(), srv.URL+"/private/bill")
	assert.ErrorIs(t, err, ErrFetch)

	body, err := NewHTTPFetcher(testLogic(), false).Fetch(context.Background(), srv.URL+"/private/bill")
	require.NoError(t, err)
	assert.Equal(t, "<p>secret</p>", string(body))
}

func TestHTTPFetcherCanceledContext(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(testLogic(), false).Fetch(ctx, srv.URL+"/latin1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchAbandonsSlowPageOnDeadline(t *testing.T) {
	srv := newTestServer(t)
	collyEngine, err := NewCollyFetcher(testLogic(), false)
	require.NoError(t, err)

	engines := map[string]Source{
		"http":  NewHTTPFetcher(testLogic(), false),
		"colly": collyEngine,
	}
	for name, src := range engines {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			start := time.Now()
			body, err := src.Fetch(ctx, srv.URL+"/slow")

			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Nil(t, body)
			assert.Less(t, time.Since(start), 900*time.Millisecond)
		})
	}
}

func TestCollyFetcherCanceledContext(t *testing.T) {
	srv := newTestServer(t)
	f, err := NewCollyFetcher(testLogic(), false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.Fetch(ctx, srv.URL+"/latin1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollyFetcher(t *testing.T) {
	srv := newTestServer(t)
	f, err := NewCollyFetcher(testLogic(), false)
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), srv.URL+"/private/bill")
	require.NoError(t, err)
	assert.Equal(t, "<p>secret</p>", string(body))

	// the same URL again: revisits are allowed
	_, err = f.Fetch(context.Background(), srv.URL+"/private/bill")
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL+"/broken")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestNewPicksEngine(t *testing.T) {
	cfg := config.SpiderConfig{}.WithDefaults()

	src, err := New(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &HTTPFetcher{}, src)

	cfg.Logic.Engine = "colly"
	src, err = New(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &CollyFetcher{}, src)

	cfg.Logic.Engine = "wget"
	_, err = New(&cfg)
	assert.Error(t, err)
}
