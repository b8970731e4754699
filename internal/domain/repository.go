package domain

import "context"

// LogStore abstracts the read-only directory tree written by the log collector.
type LogStore interface {
	// ListChatrooms returns the sorted chatroom names. A missing logs root yields no chatrooms.
	ListChatrooms(ctx context.Context) ([]string, error)

	// ChatroomExists reports whether the chatroom directory is present.
	ChatroomExists(ctx context.Context, chatroom string) (bool, error)

	// ListDays returns the day files of a chatroom grouped by year and month.
	ListDays(ctx context.Context, chatroom string, order SortOrder) ([]MonthIndex, error)

	// ResolveDayFile returns the path of a day's transcript or ErrDayNotFound.
	ResolveDayFile(ctx context.Context, chatroom, year, month, day string) (string, error)

	// AdjacentDay returns the neighbouring day that has a transcript, or nil.
	AdjacentDay(ctx context.Context, chatroom string, date Date, dir Direction) (*Date, error)
}

// RateLimiter decides whether a client may run another expensive request.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
