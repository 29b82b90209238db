package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the fsnt banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"   __           _   ", "#818cf8"},
		{"  / _|___ _ __ | |_ ", "#a78bfa"},
		{" |  _(_-< '  \\|  _|", "#c084fc"},
		{" |_| /__/_||_|\\__|", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  multi-tape transducers "+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
