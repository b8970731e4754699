package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/V4T54L/matterlog/internal/domain"
	"github.com/V4T54L/matterlog/internal/transcript"
)

// DayView is everything needed to render one day's transcript.
type DayView struct {
	Chatroom string                   `json:"chatroom"`
	Year     string                   `json:"year"`
	Month    string                   `json:"month"`
	Day      string                   `json:"day"`
	Entries  []domain.TranscriptEntry `json:"entries"`
	Previous *domain.Date             `json:"previous,omitempty"`
	Next     *domain.Date             `json:"next,omitempty"`
	RawURL   string                   `json:"raw_url,omitempty"`
	Path     string                   `json:"-"`
}

// BrowseUseCase serves the chatroom list, chatroom index and day views.
type BrowseUseCase struct {
	store   domain.LogStore
	baseURL string
}

// NewBrowseUseCase creates a new BrowseUseCase. baseURL, when set, is the public
// location of the logs root and is used to build raw file links.
func NewBrowseUseCase(store domain.LogStore, baseURL string) *BrowseUseCase {
	return &BrowseUseCase{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

func (uc *BrowseUseCase) Chatrooms(ctx context.Context) ([]string, error) {
	return uc.store.ListChatrooms(ctx)
}

// Index returns the chatroom's days in chronological order.
func (uc *BrowseUseCase) Index(ctx context.Context, chatroom string, order domain.SortOrder) ([]domain.MonthIndex, error) {
	return uc.store.ListDays(ctx, chatroom, order)
}

// Day loads a day's transcript. A single malformed line fails the whole day.
// Previous/next links are only computed when the path segments form a valid date.
func (uc *BrowseUseCase) Day(ctx context.Context, chatroom, year, month, day string) (*DayView, error) {
	path, err := uc.store.ResolveDayFile(ctx, chatroom, year, month, day)
	if err != nil {
		return nil, err
	}

	entries, err := transcript.ReadAll(path)
	if err != nil {
		return nil, err
	}

	view := &DayView{
		Chatroom: chatroom,
		Year:     year,
		Month:    month,
		Day:      day,
		Entries:  entries,
		RawURL:   uc.rawURL(chatroom, year, month, day),
		Path:     path,
	}

	date, err := domain.ParseDate(year, month, day)
	if err != nil {
		return view, nil
	}
	if view.Previous, err = uc.store.AdjacentDay(ctx, chatroom, date, domain.Previous); err != nil {
		return nil, fmt.Errorf("failed to find previous day: %w", err)
	}
	if view.Next, err = uc.store.AdjacentDay(ctx, chatroom, date, domain.Next); err != nil {
		return nil, fmt.Errorf("failed to find next day: %w", err)
	}
	return view, nil
}

// RawFile resolves the on-disk transcript for direct download.
func (uc *BrowseUseCase) RawFile(ctx context.Context, chatroom, year, month, day string) (string, error) {
	return uc.store.ResolveDayFile(ctx, chatroom, year, month, day)
}

func (uc *BrowseUseCase) rawURL(chatroom, year, month, day string) string {
	if uc.baseURL == "" {
		return ""
	}
	return uc.baseURL + "/" + url.PathEscape(chatroom) + "/" + url.PathEscape(year) + "/" +
		url.PathEscape(month) + "/" + url.PathEscape(day) + ".txt"
}
