package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IshaanNene/MetalScout/internal/config"
	"github.com/IshaanNene/MetalScout/internal/types"
)

func testFetcherConfig() *config.FetcherConfig {
	cfg := config.DefaultConfig().Fetcher
	cfg.MaxRetries = 2
	cfg.RetryDelay = 5 * time.Millisecond
	cfg.PageTimeout = 5 * time.Second
	return &cfg
}

func newTestFetcher(t *testing.T) *HTTPFetcher {
	t.Helper()
	f, err := NewHTTPFetcher(testFetcherConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewHTTPFetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.StatusCode != 200 {
		t.Errorf("status = %d, want 200", page.StatusCode)
	}
	if !page.IsHTML() {
		t.Error("expected page to be detected as HTML")
	}
	if string(page.Body) != "<html><body>hello</body></html>" {
		t.Errorf("unexpected body: %q", page.Body)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.StatusCode != 200 {
		t.Errorf("status = %d, want 200", page.StatusCode)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.StatusCode != 404 {
		t.Errorf("status = %d, want 404", page.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *types.FetchError", err)
	}
	if fe.StatusCode != 502 {
		t.Errorf("StatusCode = %d, want 502", fe.StatusCode)
	}
	// MaxRetries=2 means 3 total attempts
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestFetchHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.StatusCode != 200 {
		t.Errorf("status = %d, want 200", page.StatusCode)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestFetchDecompressesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/html")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("<html>compressed</html>"))
		gz.Close()
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	page, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(page.Body) != "<html>compressed</html>" {
		t.Errorf("body = %q, want decompressed HTML", page.Body)
	}
}

func TestFetchRecordsFinalURL(t *testing.T) {
	var dst string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/landing", http.StatusMovedPermanently)
			return
		}
		w.Write([]byte("arrived"))
	}))
	defer srv.Close()
	dst = srv.URL + "/landing"

	f := newTestFetcher(t)
	page, err := f.Fetch(context.Background(), srv.URL+"/start")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.FinalURL != dst {
		t.Errorf("FinalURL = %q, want %q", page.FinalURL, dst)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter("7"); d != 7*time.Second {
		t.Errorf("parseRetryAfter(7) = %v, want 7s", d)
	}
	if d := parseRetryAfter("900"); d != 120*time.Second {
		t.Errorf("parseRetryAfter(900) = %v, want capped 120s", d)
	}
	if d := parseRetryAfter(""); d != 5*time.Second {
		t.Errorf("parseRetryAfter(\"\") = %v, want 5s default", d)
	}
}
