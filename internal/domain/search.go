package domain

import "fmt"

// Span is a contiguous piece of a message, either plain text or a query match.
// Text is unescaped; renderers escape for their own output format.
type Span struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// SearchResult is one matching transcript line.
type SearchResult struct {
	Year       string  `json:"year"`
	Month      string  `json:"month"`
	Day        string  `json:"day"`
	LineNumber int     `json:"line"`
	Line       LogLine `json:"entry"`
	Spans      []Span  `json:"spans"`
}

// Anchor is the fragment of the matching line on its day page.
func (r SearchResult) Anchor() string {
	return fmt.Sprintf("L%d", r.LineNumber)
}

// SearchResults holds every match of one query, newest first.
type SearchResults struct {
	Chatroom string         `json:"chatroom"`
	Query    string         `json:"query"`
	Results  []SearchResult `json:"results"`
}

// Count returns the number of matching lines.
func (s *SearchResults) Count() int {
	return len(s.Results)
}
