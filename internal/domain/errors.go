package domain

import "errors"

var (
	ErrChatroomNotFound   = errors.New("chatroom not found")
	ErrDayNotFound        = errors.New("log file not found")
	ErrEmptyQuery         = errors.New("search query is empty")
	ErrInvalidDate        = errors.New("invalid date")
	ErrMalformedLine      = errors.New("malformed log line")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// IsNotFound reports whether err means the requested chatroom or day does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrChatroomNotFound) || errors.Is(err, ErrDayNotFound)
}

// IsInputError reports whether err was caused by caller-supplied input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrInvalidDate)
}
