package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/clueso-site/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Addr:            ":0",
		LogLevel:        "info",
		LogFormat:       "text",
		SubmitTimeout:   10 * time.Second,
		SubmitLatency:   1500 * time.Millisecond,
		LiveMaxSessions: 10,
	}
}

func newTestSite(t *testing.T, cfg *config.Config, clock clockwork.Clock) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := newSite(cfg, logger, clock)
	require.NoError(t, err)

	srv := httptest.NewServer(s.handler)
	t.Cleanup(func() {
		_ = s.live.Shutdown(context.Background())
		srv.Close()
	})
	return srv
}

func fetch(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestSite_ServesPagesAndMetrics(t *testing.T) {
	srv := newTestSite(t, testConfig(), clockwork.NewFakeClock())

	code, body := fetch(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `data-page="home"`)

	code, body = fetch(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = fetch(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `clueso_http_requests_total{code="200",method="get"} 2`)
	assert.Contains(t, body, "go_goroutines")
}

func TestSite_LiveRejectsUnknownPage(t *testing.T) {
	srv := newTestSite(t, testConfig(), clockwork.NewFakeClock())

	code, _ := fetch(t, srv.URL+"/live?page=admin")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSite_SimulatedSubmission(t *testing.T) {
	clock := clockwork.NewFakeClock()
	srv := newTestSite(t, testConfig(), clock)

	type result struct {
		code int
		body string
	}
	done := make(chan result, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/api/contact", "application/json",
			strings.NewReader(`{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello"}`))
		if err != nil {
			done <- result{body: err.Error()}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		done <- result{code: resp.StatusCode, body: string(body)}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(1500 * time.Millisecond)

	select {
	case r := <-done:
		assert.Equal(t, http.StatusOK, r.code)
		assert.Contains(t, r.body, "Message sent!")
	case <-time.After(time.Second):
		t.Fatal("submission did not finish")
	}

	_, body := fetch(t, srv.URL+"/metrics")
	assert.Contains(t, body, `clueso_submit_submissions_total{kind="contact",result="ok"} 1`)
}

func TestSite_PageCacheClearedOnReload(t *testing.T) {
	cfg := testConfig()
	cfg.PageCacheTTL = time.Hour
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := newSite(cfg, logger, clockwork.NewFakeClock())
	require.NoError(t, err)
	srv := httptest.NewServer(s.handler)
	t.Cleanup(func() {
		_ = s.live.Shutdown(context.Background())
		srv.Close()
	})

	for i := 0; i < 2; i++ {
		code, _ := fetch(t, srv.URL+"/pricing")
		require.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, int64(1), s.pages.GetStats().Hits)
	assert.Equal(t, 1, s.pages.GetStats().EntryCount)

	s.store.OnReload(nil)
	assert.Zero(t, s.pages.GetStats().EntryCount)

	_, body := fetch(t, srv.URL+"/metrics")
	assert.Contains(t, body, `clueso_page_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `clueso_content_reloads_total 1`)
}

func TestSite_InvalidContentPath(t *testing.T) {
	cfg := testConfig()
	cfg.ContentPath = t.TempDir() + "/missing.yaml"

	_, err := newSite(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), clockwork.NewFakeClock())
	assert.Error(t, err)
}
