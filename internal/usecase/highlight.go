package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/V4T54L/matterlog/internal/domain"
)

// matcher finds case-insensitive occurrences of a query in message text.
// Comparison uses Unicode simple case folding rune by rune, so match offsets
// always refer to the original message bytes.
type matcher struct {
	query string
	runes int
}

func newMatcher(query string) matcher {
	return matcher{query: query, runes: utf8.RuneCountInString(query)}
}

// find returns the byte range of the first match at or after from, or -1, -1.
func (m matcher) find(s string, from int) (int, int) {
	for i := from; i < len(s); {
		end, ok := advanceRunes(s, i, m.runes)
		if !ok {
			break
		}
		if strings.EqualFold(s[i:end], m.query) {
			return i, end
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

func (m matcher) matches(s string) bool {
	start, _ := m.find(s, 0)
	return start >= 0
}

// highlight splits s into alternating plain and matched spans. The result
// starts and ends with a plain span, either of which may be empty.
func (m matcher) highlight(s string) []domain.Span {
	var spans []domain.Span
	pos := 0
	for {
		start, end := m.find(s, pos)
		if start < 0 {
			break
		}
		spans = append(spans,
			domain.Span{Text: s[pos:start]},
			domain.Span{Text: s[start:end], Match: true},
		)
		pos = end
	}
	return append(spans, domain.Span{Text: s[pos:]})
}

// Highlight marks every non-overlapping case-insensitive occurrence of query in message.
func Highlight(message, query string) []domain.Span {
	if query == "" {
		return []domain.Span{{Text: message}}
	}
	return newMatcher(query).highlight(message)
}

func advanceRunes(s string, i, n int) (int, bool) {
	for ; n > 0; n-- {
		if i >= len(s) {
			return i, false
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i, true
}
