package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/V4T54L/matterlog/internal/domain"
)

// APIHandler serves the same data as the pages as JSON.
type APIHandler struct {
	browse BrowseService
	search SearchService
	logger *slog.Logger
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(browse BrowseService, search SearchService, logger *slog.Logger) *APIHandler {
	return &APIHandler{browse: browse, search: search, logger: logger.With("component", "api_handler")}
}

// HealthCheck is a simple health check endpoint.
func (h *APIHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Chatrooms handles requests to list chatrooms.
// GET /api/chatrooms
func (h *APIHandler) Chatrooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.browse.Chatrooms(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string][]string{"chatrooms": rooms})
}

// Days handles requests to list the days of a chatroom.
// GET /api/chat/{chatroom}/days?order={asc|desc}
func (h *APIHandler) Days(w http.ResponseWriter, r *http.Request) {
	var order domain.SortOrder
	switch r.URL.Query().Get("order") {
	case "", "asc":
		order = domain.Ascending
	case "desc":
		order = domain.Descending
	default:
		http.Error(w, "invalid order parameter", http.StatusBadRequest)
		return
	}

	months, err := h.browse.Index(r.Context(), r.PathValue("chatroom"), order)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string][]domain.MonthIndex{"months": months})
}

// Day handles requests for one day's transcript.
// GET /api/chat/{chatroom}/{year}/{month}/{day}
func (h *APIHandler) Day(w http.ResponseWriter, r *http.Request) {
	view, err := h.browse.Day(r.Context(), r.PathValue("chatroom"), r.PathValue("year"), r.PathValue("month"), r.PathValue("day"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, view)
}

// Search handles search requests. Matches are returned as spans, not markup.
// GET /api/chat/{chatroom}/search?q={query}
func (h *APIHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.search.Search(r.Context(), r.PathValue("chatroom"), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, struct {
		*domain.SearchResults
		Count int `json:"count"`
	}{res, res.Count()})
}

func (h *APIHandler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
