package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(5*time.Second, NewDialer(false))
	if c == nil {
		t.Fatal("NewHTTPClient returned nil")
	}
	if c.client == nil {
		t.Fatal("internal http.Client is nil")
	}
	if c.client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", c.client.Timeout)
	}
}

func TestHTTPClient_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), userAgent)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Frame-Options", "DENY")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "<html><body>Hello</body></html>")
	}))
	defer ts.Close()

	c := NewHTTPClient(5*time.Second, NewDialer(true))
	page, err := c.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", page.StatusCode, http.StatusOK)
	}
	if page.Body != "<html><body>Hello</body></html>" {
		t.Errorf("body = %q", page.Body)
	}
	if page.Header.Get("X-Frame-Options") != "DENY" {
		t.Errorf("headers not captured: %v", page.Header)
	}
	if page.Elapsed <= 0 {
		t.Errorf("Elapsed = %s, want > 0", page.Elapsed)
	}
}

func TestHTTPClient_Fetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, "moved")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	page, err := NewHTTPClient(5*time.Second, NewDialer(true)).Fetch(context.Background(), ts.URL+"/old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.URL != ts.URL+"/new" {
		t.Errorf("URL = %q, want %q", page.URL, ts.URL+"/new")
	}
	if page.Body != "moved" {
		t.Errorf("body = %q", page.Body)
	}
}

func TestHTTPClient_Fetch_DecodesCharset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer ts.Close()

	page, err := NewHTTPClient(5*time.Second, NewDialer(true)).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Body != "<p>café</p>" {
		t.Errorf("body = %q, want %q", page.Body, "<p>café</p>")
	}
}

func TestHTTPClient_Fetch_BlocksPrivateTargets(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(5*time.Second, NewDialer(false)).Fetch(context.Background(), ts.URL)
	if !errors.Is(err, errBlockedAddress) {
		t.Fatalf("error = %v, want errBlockedAddress", err)
	}
}

func TestHTTPClient_Fetch_InvalidURL(t *testing.T) {
	c := NewHTTPClient(time.Second, NewDialer(false))
	if _, err := c.Fetch(context.Background(), "://bad-url"); err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestHTTPClient_Fetch_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewHTTPClient(5*time.Second, NewDialer(true))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Fetch(ctx, ts.URL); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestSafeRedirectPolicy(t *testing.T) {
	tests := []struct {
		name    string
		scheme  string
		via     int
		wantErr bool
	}{
		{name: "http within limit", scheme: "https", via: 3, wantErr: false},
		{name: "too many redirects", scheme: "https", via: 5, wantErr: true},
		{name: "blocked ftp scheme", scheme: "ftp", via: 0, wantErr: true},
		{name: "blocked file scheme", scheme: "file", via: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{URL: &url.URL{Scheme: tt.scheme, Host: "example.com"}} //nolint:exhaustruct
			via := make([]*http.Request, tt.via)

			err := safeRedirectPolicy(req, via)
			if (err != nil) != tt.wantErr {
				t.Errorf("safeRedirectPolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
