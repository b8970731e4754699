package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/V4T54L/matterlog/internal/domain/mocks"
)

func TestProxyHeaders(t *testing.T) {
	tests := []struct {
		name       string
		trusted    int
		headers    map[string]string
		wantRemote string
		wantScheme string
		wantHost   string
	}{
		{
			name:       "disabled",
			trusted:    0,
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			wantRemote: "192.0.2.1:1234",
			wantHost:   "example.com",
		},
		{
			name:    "one proxy",
			trusted: 1,
			headers: map[string]string{
				"X-Forwarded-For":   "198.51.100.7, 203.0.113.9",
				"X-Forwarded-Proto": "https",
				"X-Forwarded-Host":  "logs.example.org",
			},
			wantRemote: "203.0.113.9",
			wantScheme: "https",
			wantHost:   "logs.example.org",
		},
		{
			name:       "two proxies",
			trusted:    2,
			headers:    map[string]string{"X-Forwarded-For": "spoofed, 198.51.100.7, 203.0.113.9"},
			wantRemote: "198.51.100.7",
			wantHost:   "example.com",
		},
		{
			name:       "fewer hops than trusted",
			trusted:    3,
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7"},
			wantRemote: "192.0.2.1:1234",
			wantHost:   "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *http.Request
			h := ProxyHeaders(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r
			}))

			req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got.RemoteAddr != tt.wantRemote {
				t.Errorf("RemoteAddr = %q, want %q", got.RemoteAddr, tt.wantRemote)
			}
			if got.URL.Scheme != tt.wantScheme && tt.wantScheme != "" {
				t.Errorf("Scheme = %q, want %q", got.URL.Scheme, tt.wantScheme)
			}
			if got.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", got.Host, tt.wantHost)
			}
		})
	}
}

func TestProxyHeaders_PrefixRedirect(t *testing.T) {
	h := ProxyHeaders(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/chat/general/", http.StatusMovedPermanently)
	}))

	req := httptest.NewRequest(http.MethodGet, "/chat/general", nil)
	req.Header.Set("X-Forwarded-Prefix", "/logs/")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if loc := rr.Header().Get("Location"); loc != "/logs/chat/general/" {
		t.Errorf("Location = %q, want /logs/chat/general/", loc)
	}
}

func TestClientIP(t *testing.T) {
	for remote, want := range map[string]string{
		"192.0.2.1:1234":   "192.0.2.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"203.0.113.9":      "203.0.113.9",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		if got := ClientIP(req); got != want {
			t.Errorf("ClientIP(%q) = %q, want %q", remote, got, want)
		}
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen string
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/chat/general/", nil))

		id := rr.Header().Get(RequestIDHeader)
		if id == "" || id != seen {
			t.Fatalf("expected generated request id to reach handler, header %q, handler %q", id, seen)
		}

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to decode log line: %v", err)
		}
		if entry["status"] != float64(http.StatusTeapot) || entry["path"] != "/chat/general/" || entry["request_id"] != id {
			t.Errorf("unexpected log entry %v", entry)
		}
	})

	t.Run("reuses incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if seen != "abc-123" || rr.Header().Get(RequestIDHeader) != "abc-123" {
			t.Errorf("expected request id to be propagated, got %q", seen)
		}
	})
}

func TestRateLimit_LimiterErrorAllows(t *testing.T) {
	limiter := &mocks.MockRateLimiter{Err: errors.New("boom")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	called := false
	h := RateLimit(limiter, nil, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !called || rr.Code != http.StatusOK {
		t.Errorf("expected request to pass when the limiter fails, got %d", rr.Code)
	}
}
