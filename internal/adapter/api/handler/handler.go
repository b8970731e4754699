package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/V4T54L/matterlog/internal/domain"
	"github.com/V4T54L/matterlog/internal/usecase"
)

// BrowseService is the read side used by the page and API handlers.
type BrowseService interface {
	Chatrooms(ctx context.Context) ([]string, error)
	Index(ctx context.Context, chatroom string, order domain.SortOrder) ([]domain.MonthIndex, error)
	Day(ctx context.Context, chatroom, year, month, day string) (*usecase.DayView, error)
	RawFile(ctx context.Context, chatroom, year, month, day string) (string, error)
}

// SearchService runs substring searches over a chatroom.
type SearchService interface {
	Search(ctx context.Context, chatroom, query string) (*domain.SearchResults, error)
}

// statusFor maps core errors to HTTP status codes and client-facing messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrChatroomNotFound):
		return http.StatusNotFound, "Chatroom not found"
	case errors.Is(err, domain.ErrDayNotFound):
		return http.StatusNotFound, "Log file not found"
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest, "Search query must not be empty"
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest, "Invalid date"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// writeError replies with the status matching err. Server faults are logged;
// client mistakes are not.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err, "path", r.URL.Path)
	}
	http.Error(w, msg, code)
}
