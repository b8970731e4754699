package api

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/V4T54L/matterlog/internal/adapter/api/handler"
	"github.com/V4T54L/matterlog/internal/adapter/api/middleware"
	"github.com/V4T54L/matterlog/internal/adapter/api/web"
	"github.com/V4T54L/matterlog/internal/adapter/metrics"
	"github.com/V4T54L/matterlog/internal/domain"
)

// NewRouter creates and configures the HTTP router for the viewer.
// limiter throttles the search routes; m may be nil.
func NewRouter(
	logger *slog.Logger,
	browse handler.BrowseService,
	search handler.SearchService,
	limiter domain.RateLimiter,
	templates *template.Template,
	m *metrics.Metrics,
) http.Handler {
	mux := http.NewServeMux()

	pages := handler.NewPageHandler(browse, search, templates, logger)
	apiHandler := handler.NewAPIHandler(browse, search, logger)
	rateLimit := middleware.RateLimit(limiter, m, logger)

	// Pages
	mux.HandleFunc("GET /{$}", pages.Index)
	mux.HandleFunc("GET /chat/{chatroom}/{$}", pages.Chatroom)
	mux.Handle("GET /chat/{chatroom}/search", rateLimit(http.HandlerFunc(pages.Search)))
	mux.HandleFunc("GET /chat/{chatroom}/{year}/{month}/{day}/{$}", pages.Day)
	mux.HandleFunc("GET /chat/{chatroom}/{year}/{month}/{day}/raw", pages.Raw)
	mux.HandleFunc("GET /chat/{chatroom}", addSlash)
	mux.HandleFunc("GET /chat/{chatroom}/{year}/{month}/{day}", addSlash)

	// JSON API
	mux.HandleFunc("GET /api/chatrooms", apiHandler.Chatrooms)
	mux.HandleFunc("GET /api/chat/{chatroom}/days", apiHandler.Days)
	mux.Handle("GET /api/chat/{chatroom}/search", rateLimit(http.HandlerFunc(apiHandler.Search)))
	mux.HandleFunc("GET /api/chat/{chatroom}/{year}/{month}/{day}", apiHandler.Day)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var h http.Handler = mux
	if m != nil {
		// inside Logging so the mux sees the same *Request and fills in its Pattern
		h = middleware.Metrics(m)(h)
	}
	return h
}

// addSlash redirects directory-style pages to their canonical trailing-slash URL,
// which the relative links in the templates depend on.
func addSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.EscapedPath() + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
