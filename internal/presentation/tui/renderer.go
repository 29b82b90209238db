package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Without a terminal the markdown is returned unchanged.
func NewRenderer(tty bool) func(string) (string, error) {
	if !tty {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}

// SummaryMarkdown describes a transducer as a markdown document.
func SummaryMarkdown(name string, s ops.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Tapes | %d |\n", len(s.Tapes))
	fmt.Fprintf(&sb, "| States | %d |\n", s.States)
	fmt.Fprintf(&sb, "| Transitions | %d |\n", s.Transitions)
	fmt.Fprintf(&sb, "| Finals | %d |\n", s.Finals)
	fmt.Fprintf(&sb, "| Symbols | %d |\n", s.Symbols)
	fmt.Fprintf(&sb, "| Defined symbols | %d |\n\n", s.Defined)
	sb.WriteString("## Tapes\n\n")
	for i, t := range s.Tapes {
		fmt.Fprintf(&sb, "%d. `%s`\n", i+1, t)
	}
	return sb.String()
}
