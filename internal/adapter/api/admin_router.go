package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/V4T54L/matterlog/internal/adapter/api/handler"
)

// NewAdminRouter creates the router of the admin listener: metrics and health.
func NewAdminRouter(gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	health := handler.NewAPIHandler(nil, nil, logger)

	mux.HandleFunc("GET /health", health.HealthCheck)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}
