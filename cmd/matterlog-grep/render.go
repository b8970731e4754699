package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/V4T54L/matterlog/internal/domain"
)

type renderer struct {
	location lipgloss.Style
	user     lipgloss.Style
	match    lipgloss.Style
	summary  lipgloss.Style
}

func newRenderer() renderer {
	return renderer{
		location: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		user:     lipgloss.NewStyle().Bold(true),
		match:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
		summary:  lipgloss.NewStyle().Faint(true),
	}
}

// write prints one line per result followed by the result count.
func (r renderer) write(w io.Writer, res *domain.SearchResults) {
	for _, hit := range res.Results {
		loc := fmt.Sprintf("%s-%s-%s#L%d", hit.Year, hit.Month, hit.Day, hit.LineNumber)
		fmt.Fprintf(w, "%s %s %s %s\n",
			r.location.Render(loc),
			hit.Line.Time(),
			r.user.Render("<"+hit.Line.User+">"),
			r.spans(hit.Spans),
		)
	}

	noun := "results"
	if res.Count() == 1 {
		noun = "result"
	}
	fmt.Fprintln(w, r.summary.Render(fmt.Sprintf("%d %s found", res.Count(), noun)))
}

func (r renderer) spans(spans []domain.Span) string {
	var b strings.Builder
	for _, s := range spans {
		// tabs inside messages would break the column layout
		text := strings.ReplaceAll(s.Text, "\t", " ")
		if s.Match {
			b.WriteString(r.match.Render(text))
		} else {
			b.WriteString(text)
		}
	}
	return b.String()
}
