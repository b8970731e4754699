package domain

import (
	"fmt"
	"strconv"
	"time"
)

// TimeOfDayLayout renders the wall-clock part of a transcript timestamp.
const TimeOfDayLayout = "15:04:05"

// Date is a calendar day used for previous/next navigation.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Path returns the zero-padded storage segments of the date.
func (d Date) Path() (year, month, day string) {
	return fmt.Sprintf("%04d", d.Year), fmt.Sprintf("%02d", d.Month), fmt.Sprintf("%02d", d.Day)
}

func (d Date) String() string {
	y, m, dd := d.Path()
	return y + "-" + m + "-" + dd
}

// DayRef identifies a day file exactly as named on disk.
type DayRef struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// MonthIndex groups the day files of one year/month directory.
type MonthIndex struct {
	Year  string   `json:"year"`
	Month string   `json:"month"`
	Days  []string `json:"days"`
}

// Flatten expands month groups into individual day references, preserving order.
func Flatten(months []MonthIndex) []DayRef {
	var refs []DayRef
	for _, m := range months {
		for _, d := range m.Days {
			refs = append(refs, DayRef{Year: m.Year, Month: m.Month, Day: d})
		}
	}
	return refs
}

// SortOrder selects the direction in which days are listed.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// Direction selects the neighbour returned by adjacency lookups.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// LogLine is one record of a transcript file.
type LogLine struct {
	Timestamp    time.Time `json:"timestamp"`
	RawTimestamp string    `json:"-"`
	User         string    `json:"user"`
	Message      string    `json:"message"`
}

// Time returns HH:MM:SS in the offset the line was recorded with.
func (l LogLine) Time() string {
	return l.Timestamp.Format(TimeOfDayLayout)
}

// String reconstructs the tab-separated record without a trailing newline.
func (l LogLine) String() string {
	return l.RawTimestamp + "\t" + l.User + "\t" + l.Message
}

// TranscriptEntry is a parsed line together with its 1-based position in the file.
type TranscriptEntry struct {
	Ordinal int     `json:"line"`
	Line    LogLine `json:"entry"`
}

// Anchor is the in-page fragment identifier of the entry.
func (e TranscriptEntry) Anchor() string {
	return fmt.Sprintf("L%d", e.Ordinal)
}

// NewDate validates a calendar date.
func NewDate(year, month, day int) (Date, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if year < 1 || year > 9999 || t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate validates the decimal path segments of a day page.
func ParseDate(year, month, day string) (Date, error) {
	parts := [3]int{}
	for i, s := range [3]string{year, month, day} {
		n, err := strconv.Atoi(s)
		if err != nil || s[0] == '+' || s[0] == '-' {
			return Date{}, fmt.Errorf("%w: %q-%q-%q", ErrInvalidDate, year, month, day)
		}
		parts[i] = n
	}
	return NewDate(parts[0], parts[1], parts[2])
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}
