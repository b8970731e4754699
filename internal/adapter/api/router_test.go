package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/V4T54L/matterlog/internal/adapter/api/web"
	"github.com/V4T54L/matterlog/internal/adapter/metrics"
	fsstore "github.com/V4T54L/matterlog/internal/adapter/repository/fs"
	"github.com/V4T54L/matterlog/internal/domain/mocks"
	"github.com/V4T54L/matterlog/internal/usecase"
)

func setupTestServer(t *testing.T, limiter *mocks.MockRateLimiter) (*httptest.Server, *metrics.Metrics) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"general/2024/01/01.txt": "2024-01-01T09:00:00.000000+0000\talice\tping\n",
		"general/2024/01/02.txt": "2024-01-02T09:00:00.000000+0000\tbob\tpong, ping again\n" +
			"2024-01-02T09:00:05.000000+0100\tmallory\t<script>alert(1)</script>\n",
		"general/2024/01/03.txt": "this line is broken\n",
		"random/2023/12/31.txt":  "2023-12-31T23:59:59.999999+0000\tcarol\thappy new year\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	store := fsstore.NewLogStore(root)
	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	router := NewRouter(logger, usecase.NewBrowseUseCase(store, ""), usecase.NewSearchUseCase(store, m), limiter, tmpl, m)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, m
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func TestRouter_Pages(t *testing.T) {
	srv, m := setupTestServer(t, &mocks.MockRateLimiter{Allowed: true})

	tests := []struct {
		name         string
		path         string
		expectedCode int
		contains     []string
		excludes     []string
	}{
		{
			name:         "chatroom list",
			path:         "/",
			expectedCode: http.StatusOK,
			contains:     []string{`<a href="chat/general/">general</a>`, `<a href="chat/random/">random</a>`},
		},
		{
			name:         "chatroom index",
			path:         "/chat/general/",
			expectedCode: http.StatusOK,
			contains:     []string{"2024-01: ", `<a href="2024/01/01/">01</a>`, `<a href="2024/01/02/">02</a>`},
		},
		{
			name:         "unknown chatroom",
			path:         "/chat/nope/",
			expectedCode: http.StatusNotFound,
			contains:     []string{"Chatroom not found"},
		},
		{
			name:         "day view escapes and anchors",
			path:         "/chat/general/2024/01/02/",
			expectedCode: http.StatusOK,
			contains: []string{
				`<tr id="L2">`,
				`<a href="#L2">2</a>`,
				"&lt;script&gt;alert(1)&lt;/script&gt;",
				`">09:00:05</td>`,
				`href="../../../2024/01/01/"`,
				`href="../../../2024/01/03/"`,
			},
			excludes: []string{"<script>"},
		},
		{
			name:         "missing day",
			path:         "/chat/general/2024/01/09/",
			expectedCode: http.StatusNotFound,
			contains:     []string{"Log file not found"},
		},
		{
			name:         "malformed day fails whole page",
			path:         "/chat/general/2024/01/03/",
			expectedCode: http.StatusInternalServerError,
			excludes:     []string{"chatlog"},
		},
		{
			name:         "raw file",
			path:         "/chat/random/2023/12/31/raw",
			expectedCode: http.StatusOK,
			contains:     []string{"happy new year"},
		},
		{
			name:         "search form",
			path:         "/chat/general/search",
			expectedCode: http.StatusOK,
			contains:     []string{`name="q"`},
			excludes:     []string{"found"},
		},
		{
			name:         "static css",
			path:         "/static/style.css",
			expectedCode: http.StatusOK,
			contains:     []string{"#chatlog"},
		},
		{
			name:         "health",
			path:         "/health",
			expectedCode: http.StatusOK,
			contains:     []string{"OK"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, _ := get(t, srv.URL+tt.path)
			if code != tt.expectedCode {
				t.Errorf("GET %s returned %d, want %d\n%s", tt.path, code, tt.expectedCode, body)
			}
			for _, s := range tt.contains {
				if !strings.Contains(body, s) {
					t.Errorf("GET %s: body does not contain %q\n%s", tt.path, s, body)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(body, s) {
					t.Errorf("GET %s: body unexpectedly contains %q", tt.path, s)
				}
			}
		})
	}

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET /{$}", "200")); got != 1 {
		t.Errorf("expected 1 request recorded for the index route, got %v", got)
	}
}

func TestRouter_SearchPage(t *testing.T) {
	srv, _ := setupTestServer(t, &mocks.MockRateLimiter{Allowed: true})

	// the broken 2024/01/03 file fails a general search, so search random
	code, body, _ := get(t, srv.URL+"/chat/random/search?q=NEW")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d\n%s", code, body)
	}
	for _, s := range []string{
		"1 result found",
		`<a href="2023/12/31/#L1">`,
		"happy <mark>new</mark> year",
	} {
		if !strings.Contains(body, s) {
			t.Errorf("search page does not contain %q\n%s", s, body)
		}
	}

	code, _, _ = get(t, srv.URL+"/chat/random/search?q=+++")
	if code != http.StatusBadRequest {
		t.Errorf("blank query: expected 400, got %d", code)
	}

	code, _, _ = get(t, srv.URL+"/chat/general/search?q=ping")
	if code != http.StatusInternalServerError {
		t.Errorf("search over a malformed file: expected 500, got %d", code)
	}
}

func TestRouter_API(t *testing.T) {
	srv, _ := setupTestServer(t, &mocks.MockRateLimiter{Allowed: true})

	code, body, hdr := get(t, srv.URL+"/api/chat/random/search?q=year")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	if ct := hdr.Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var res struct {
		Count   int `json:"count"`
		Results []struct {
			Day   string `json:"day"`
			Line  int    `json:"line"`
			Spans []struct {
				Text  string `json:"text"`
				Match bool   `json:"match"`
			} `json:"spans"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Count != 1 || len(res.Results) != 1 {
		t.Fatalf("expected one result, got %+v", res)
	}
	spans := res.Results[0].Spans
	if len(spans) != 3 || spans[1].Text != "year" || !spans[1].Match || spans[0].Text != "happy new " {
		t.Errorf("unexpected spans %+v", spans)
	}

	code, body, _ = get(t, srv.URL+"/api/chat/general/days?order=desc")
	if code != http.StatusOK || !strings.Contains(body, `"days":["03","02","01"]`) {
		t.Errorf("unexpected days response %d %s", code, body)
	}

	code, _, _ = get(t, srv.URL+"/api/chat/general/days?order=sideways")
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid order, got %d", code)
	}

	code, body, _ = get(t, srv.URL+"/api/chat/general/2024/01/02")
	if code != http.StatusOK || !strings.Contains(body, `"previous":{"year":2024,"month":1,"day":1}`) {
		t.Errorf("unexpected day response %d %s", code, body)
	}

	code, body, _ = get(t, srv.URL+"/api/chatrooms")
	if code != http.StatusOK || body != `{"chatrooms":["general","random"]}` {
		t.Errorf("unexpected chatrooms response %d %s", code, body)
	}

	code, _, _ = get(t, srv.URL+"/api/chat/random/search")
	if code != http.StatusBadRequest {
		t.Errorf("missing query: expected 400, got %d", code)
	}
}

func TestRouter_SearchRateLimited(t *testing.T) {
	limiter := &mocks.MockRateLimiter{Allowed: false}
	srv, m := setupTestServer(t, limiter)

	code, _, hdr := get(t, srv.URL+"/api/chat/random/search?q=year")
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if hdr.Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}
	if len(limiter.Keys) != 1 || limiter.Keys[0] != "127.0.0.1" {
		t.Errorf("expected the limiter to be keyed by client IP, got %v", limiter.Keys)
	}
	if got := testutil.ToFloat64(m.RateLimited); got != 1 {
		t.Errorf("expected 1 rejected request, got %v", got)
	}

	// browsing is never limited
	if code, _, _ := get(t, srv.URL+"/chat/random/"); code != http.StatusOK {
		t.Errorf("expected 200 for a page, got %d", code)
	}
}

func TestRouter_TrailingSlashRedirect(t *testing.T) {
	srv, _ := setupTestServer(t, &mocks.MockRateLimiter{Allowed: true})

	code, _, hdr := get(t, srv.URL+"/chat/general/2024/01/02")
	if code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", code)
	}
	if loc := hdr.Get("Location"); loc != "/chat/general/2024/01/02/" {
		t.Errorf("unexpected Location %q", loc)
	}
}

func TestAdminRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SearchFiles.Add(3)
	srv := httptest.NewServer(NewAdminRouter(reg, slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer srv.Close()

	code, body, _ := get(t, srv.URL+"/metrics")
	if code != http.StatusOK || !strings.Contains(body, "matterlog_search_files_scanned_total 3") {
		t.Errorf("unexpected metrics response %d\n%s", code, body)
	}

	code, body, _ = get(t, srv.URL+"/health")
	if code != http.StatusOK || !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("unexpected health response %d %s", code, body)
	}
}
