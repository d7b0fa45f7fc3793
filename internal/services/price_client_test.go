package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"spotprice/backend-go/internal/config"
)

func testClient(retries int, timeout time.Duration) *PriceClient {
	c := NewPriceClient(config.Config{UpstreamTimeout: timeout, TransportRetries: retries})
	c.backoff = time.Millisecond
	return c
}

func TestFetchPricePostsDateAsJSON(t *testing.T) {
	var gotBody map[string]string
	var gotCT, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price": 64.21}`))
	}))
	defer srv.Close()

	res, err := testClient(0, time.Second).FetchPrice(context.Background(), Commodity{Slug: "brent", UpstreamURL: srv.URL}, "2025-05-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method: got %s", gotMethod)
	}
	if !strings.HasPrefix(gotCT, "application/json") {
		t.Errorf("content-type: got %q", gotCT)
	}
	if gotBody["date"] != "2025-05-12" {
		t.Errorf("body: got %v", gotBody)
	}
	if res.Status != http.StatusOK || string(res.Body) != `{"price": 64.21}` {
		t.Errorf("response: got %d %s", res.Status, res.Body)
	}
}

func TestFetchPriceUpstreamHTTPError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("service down"))
	}))
	defer srv.Close()

	_, err := testClient(1, time.Second).FetchPrice(context.Background(), Commodity{UpstreamURL: srv.URL}, "2025-05-12")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upErr.Status != http.StatusServiceUnavailable || upErr.Body != "service down" {
		t.Errorf("got %d %q", upErr.Status, upErr.Body)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("HTTP errors must not be retried, got %d calls", got)
	}
}

func TestFetchPriceTransportErrorOnTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := testClient(0, 50*time.Millisecond).FetchPrice(context.Background(), Commodity{UpstreamURL: srv.URL}, "2025-05-12")
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if !tErr.Timeout() {
		t.Errorf("expected timeout, got %v", tErr.Err)
	}
}

func TestFetchPriceRetriesTransportFailureOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testClient(1, time.Second).FetchPrice(context.Background(), Commodity{UpstreamURL: url}, "2025-05-12")
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if tErr.URL != url {
		t.Errorf("URL: got %q", tErr.URL)
	}
}

func TestFetchPriceRecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("hijack unsupported")
				return
			}
			conn, _, _ := hj.Hijack()
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"price": 1.5}`))
	}))
	defer srv.Close()

	res, err := testClient(1, time.Second).FetchPrice(context.Background(), Commodity{UpstreamURL: srv.URL}, "2025-05-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Body) != `{"price": 1.5}` {
		t.Errorf("body: got %s", res.Body)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestFetchPriceTruncatesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 10000)))
	}))
	defer srv.Close()

	_, err := testClient(0, time.Second).FetchPrice(context.Background(), Commodity{UpstreamURL: srv.URL}, "2025-05-12")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if len(upErr.Body) != maxErrorBody {
		t.Errorf("body length: got %d", len(upErr.Body))
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"a€b", 2, "a"},
		{"a€b", 3, "a"},
		{"a€b", 4, "a€"},
		{"€", 1, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d): got %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}

	body := "x" + strings.Repeat("€", maxErrorBody)
	got := truncate(body, maxErrorBody)
	if !utf8.ValidString(got) || len(got) > maxErrorBody {
		t.Errorf("truncated body invalid: len %d valid %v", len(got), utf8.ValidString(got))
	}
}

func TestFetchPriceRequiresURL(t *testing.T) {
	if _, err := testClient(0, time.Second).FetchPrice(context.Background(), Commodity{Slug: "wti"}, "2025-05-12"); err == nil {
		t.Fatal("expected error for missing upstream URL")
	}
}
