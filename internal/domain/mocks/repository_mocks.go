package mocks

import (
	"context"
	"sync"

	"github.com/V4T54L/matterlog/internal/domain"
)

// MockLogStore is a mock implementation of domain.LogStore for testing.
// Days maps a chatroom to its month index in ascending order; Files maps
// "chatroom/year/month/day" to a transcript path.
type MockLogStore struct {
	mu          sync.Mutex
	Chatrooms   []string
	Days        map[string][]domain.MonthIndex
	Files       map[string]string
	Calls       []string
	ListErr     error
	DaysErr     error
	ResolveErr  error
	AdjacentErr error
}

func (m *MockLogStore) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockLogStore) ListChatrooms(ctx context.Context) ([]string, error) {
	m.record("ListChatrooms")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Chatrooms, nil
}

func (m *MockLogStore) ChatroomExists(ctx context.Context, chatroom string) (bool, error) {
	m.record("ChatroomExists")
	_, ok := m.Days[chatroom]
	return ok, nil
}

func (m *MockLogStore) ListDays(ctx context.Context, chatroom string, order domain.SortOrder) ([]domain.MonthIndex, error) {
	m.record("ListDays")
	if m.DaysErr != nil {
		return nil, m.DaysErr
	}
	months, ok := m.Days[chatroom]
	if !ok {
		return nil, domain.ErrChatroomNotFound
	}
	if order == domain.Ascending {
		return months, nil
	}

	desc := make([]domain.MonthIndex, 0, len(months))
	for i := len(months) - 1; i >= 0; i-- {
		days := make([]string, 0, len(months[i].Days))
		for j := len(months[i].Days) - 1; j >= 0; j-- {
			days = append(days, months[i].Days[j])
		}
		desc = append(desc, domain.MonthIndex{Year: months[i].Year, Month: months[i].Month, Days: days})
	}
	return desc, nil
}

func (m *MockLogStore) ResolveDayFile(ctx context.Context, chatroom, year, month, day string) (string, error) {
	m.record("ResolveDayFile")
	if m.ResolveErr != nil {
		return "", m.ResolveErr
	}
	path, ok := m.Files[chatroom+"/"+year+"/"+month+"/"+day]
	if !ok {
		return "", domain.ErrDayNotFound
	}
	return path, nil
}

func (m *MockLogStore) AdjacentDay(ctx context.Context, chatroom string, date domain.Date, dir domain.Direction) (*domain.Date, error) {
	m.record("AdjacentDay")
	if m.AdjacentErr != nil {
		return nil, m.AdjacentErr
	}
	if _, err := domain.NewDate(date.Year, date.Month, date.Day); err != nil {
		return nil, err
	}
	next := date.AddDays(int(dir))
	y, mo, d := next.Path()
	if _, ok := m.Files[chatroom+"/"+y+"/"+mo+"/"+d]; !ok {
		return nil, nil
	}
	return &next, nil
}

// MockRateLimiter is a mock implementation of domain.RateLimiter for testing.
type MockRateLimiter struct {
	mu      sync.Mutex
	Allowed bool
	Err     error
	Keys    []string
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Keys = append(m.Keys, key)
	if m.Err != nil {
		return false, m.Err
	}
	return m.Allowed, nil
}
