package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/V4T54L/matterlog/internal/domain"
	"github.com/V4T54L/matterlog/internal/usecase"
)

// PageHandler renders the HTML views.
type PageHandler struct {
	browse    BrowseService
	search    SearchService
	templates *template.Template
	logger    *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(browse BrowseService, search SearchService, templates *template.Template, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		browse:    browse,
		search:    search,
		templates: templates,
		logger:    logger.With("component", "page_handler"),
	}
}

type page struct {
	Title string
	Root  string // relative path back to the site root, for static assets
}

// Index lists the chatrooms.
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.browse.Chatrooms(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.render(w, r, "index.html", struct {
		page
		Chatrooms []string
	}{page{Title: "List of chatrooms"}, rooms})
}

// Chatroom lists the days of a chatroom by month.
// GET /chat/{chatroom}/
func (h *PageHandler) Chatroom(w http.ResponseWriter, r *http.Request) {
	chatroom := r.PathValue("chatroom")
	months, err := h.browse.Index(r.Context(), chatroom, domain.Ascending)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.render(w, r, "chatroom.html", struct {
		page
		Chatroom string
		Months   []domain.MonthIndex
	}{page{Title: "Chatroom " + chatroom, Root: "../../"}, chatroom, months})
}

// Day renders one day's transcript.
// GET /chat/{chatroom}/{year}/{month}/{day}/
func (h *PageHandler) Day(w http.ResponseWriter, r *http.Request) {
	view, err := h.browse.Day(r.Context(), r.PathValue("chatroom"), r.PathValue("year"), r.PathValue("month"), r.PathValue("day"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	title := "Chat log for " + view.Chatroom + " on " + view.Year + "-" + view.Month + "-" + view.Day
	h.render(w, r, "day.html", struct {
		page
		View *usecase.DayView
	}{page{Title: title, Root: "../../../../../"}, view})
}

// Raw serves the transcript file unmodified.
// GET /chat/{chatroom}/{year}/{month}/{day}/raw
func (h *PageHandler) Raw(w http.ResponseWriter, r *http.Request) {
	path, err := h.browse.RawFile(r.Context(), r.PathValue("chatroom"), r.PathValue("year"), r.PathValue("month"), r.PathValue("day"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}

// Search renders the search form and, when q is given, its results.
// GET /chat/{chatroom}/search?q={query}
func (h *PageHandler) Search(w http.ResponseWriter, r *http.Request) {
	chatroom := r.PathValue("chatroom")
	data := struct {
		page
		Chatroom string
		Results  *domain.SearchResults
	}{page: page{Title: "Search in " + chatroom, Root: "../../"}, Chatroom: chatroom}

	if !r.URL.Query().Has("q") {
		if _, err := h.browse.Index(r.Context(), chatroom, domain.Descending); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		h.render(w, r, "search.html", data)
		return
	}

	res, err := h.search.Search(r.Context(), chatroom, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	data.Title = "Search results for " + res.Query + " in " + chatroom
	data.Results = res
	h.render(w, r, "search.html", data)
}

// render executes the template into a buffer first so a template error never
// leaves a half-written page behind.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err, "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
