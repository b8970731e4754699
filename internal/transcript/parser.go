// Package transcript reads the tab-separated day files written by the log collector.
//
// Each line holds three fields separated by the first two tab characters:
//
//	2024-01-02T03:04:05.000000+0000<TAB>user<TAB>message, possibly with tabs
package transcript

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/V4T54L/matterlog/internal/domain"
)

// TimestampLayout is the collector's timestamp format: microseconds and a
// numeric zone offset without a colon.
const TimestampLayout = "2006-01-02T15:04:05.000000-0700"

// ParseTimestamp parses a collector timestamp, keeping its recorded offset.
// time.Parse also takes a comma before the fraction, so the shape is checked first.
func ParseTimestamp(text string) (time.Time, error) {
	if len(text) != len(TimestampLayout) || text[19] != '.' {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimestamp, text)
	}
	t, err := time.Parse(TimestampLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimestamp, text)
	}
	return t, nil
}

// ParseLine splits one record into timestamp, user and message.
// Leading whitespace and the line terminator are trimmed; trailing spaces
// belong to the message and are kept so it round-trips verbatim.
func ParseLine(raw string) (domain.LogLine, error) {
	raw = strings.TrimLeftFunc(strings.TrimRight(raw, "\r\n"), unicode.IsSpace)

	parts := strings.SplitN(raw, "\t", 3)
	if len(parts) < 3 {
		return domain.LogLine{}, fmt.Errorf("%w: expected 3 tab-separated fields, got %d", domain.ErrMalformedLine, len(parts))
	}

	ts, err := ParseTimestamp(parts[0])
	if err != nil {
		return domain.LogLine{}, err
	}

	return domain.LogLine{
		Timestamp:    ts,
		RawTimestamp: parts[0],
		User:         parts[1],
		Message:      parts[2],
	}, nil
}
