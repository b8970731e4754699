package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/V4T54L/matterlog/internal/adapter/metrics"
	"github.com/V4T54L/matterlog/internal/domain"
	"github.com/V4T54L/matterlog/internal/transcript"
)

// SearchUseCase scans a chatroom's full history for a substring.
type SearchUseCase struct {
	store   domain.LogStore
	metrics *metrics.Metrics
}

// NewSearchUseCase creates a new SearchUseCase. m may be nil.
func NewSearchUseCase(store domain.LogStore, m *metrics.Metrics) *SearchUseCase {
	return &SearchUseCase{store: store, metrics: m}
}

// Search returns every line of the chatroom whose message contains query,
// ignoring case. Results are in reverse chronological order: newest day first
// and, within a day, the later line first.
func (uc *SearchUseCase) Search(ctx context.Context, chatroom, query string) (*domain.SearchResults, error) {
	start := time.Now()
	res, err := uc.search(ctx, chatroom, query)
	uc.observe(start, res, err)
	return res, err
}

func (uc *SearchUseCase) search(ctx context.Context, chatroom, query string) (*domain.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	months, err := uc.store.ListDays(ctx, chatroom, domain.Descending)
	if err != nil {
		return nil, err
	}

	m := newMatcher(query)
	res := &domain.SearchResults{Chatroom: chatroom, Query: query, Results: []domain.SearchResult{}}
	for _, ref := range domain.Flatten(months) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dayResults, err := uc.searchDay(ctx, m, chatroom, ref)
		if err != nil {
			return nil, err
		}
		slices.Reverse(dayResults)
		res.Results = append(res.Results, dayResults...)
	}
	return res, nil
}

// searchDay returns the matches of one day in file order.
func (uc *SearchUseCase) searchDay(ctx context.Context, m matcher, chatroom string, ref domain.DayRef) ([]domain.SearchResult, error) {
	path, err := uc.store.ResolveDayFile(ctx, chatroom, ref.Year, ref.Month, ref.Day)
	if err != nil {
		return nil, err
	}

	r, err := transcript.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if uc.metrics != nil {
		uc.metrics.SearchFiles.Inc()
	}

	var results []domain.SearchResult
	var lines int
	for r.Next() {
		lines++
		if lines%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		entry := r.Entry()
		if !m.matches(entry.Line.Message) {
			continue
		}
		results = append(results, domain.SearchResult{
			Year:       ref.Year,
			Month:      ref.Month,
			Day:        ref.Day,
			LineNumber: entry.Ordinal,
			Line:       entry.Line,
			Spans:      m.highlight(entry.Line.Message),
		})
	}
	if uc.metrics != nil {
		uc.metrics.SearchLines.Add(float64(lines))
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", chatroom, err)
	}
	return results, nil
}

func (uc *SearchUseCase) observe(start time.Time, res *domain.SearchResults, err error) {
	if uc.metrics == nil {
		return
	}

	status := "ok"
	switch {
	case err == nil:
		uc.metrics.SearchResults.Observe(float64(res.Count()))
		uc.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	case errors.Is(err, domain.ErrEmptyQuery):
		status = "empty_query"
	case domain.IsNotFound(err):
		status = "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "canceled"
	default:
		status = "error"
	}
	uc.metrics.SearchesTotal.WithLabelValues(status).Inc()
}
