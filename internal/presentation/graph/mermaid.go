package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/fsnt/pkg/fst"
)

// Overlay marks states to highlight on the graph.
type Overlay struct {
	Highlight []fst.StateID
}

// GenerateMermaid produces a Mermaid flowchart syntax string for a transducer.
// It applies semantic styling:
// - Initial: ((Circle))
// - Final: (((Double circle)))
// - Default: (Rounded)
// Edge labels spell the symbols of each tape joined by ':', followed by /weight when
// the weight is non-zero. Overlay styles are applied if provided.
func GenerateMermaid(t *fst.Transducer, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	table := t.Symbols()

	for i := range t.Size() {
		s := fst.StateID(i)
		opener, closer := "(", ")"
		switch {
		case s == fst.Initial && t.IsFinal(s):
			opener, closer = "(((", ")))"
		case s == fst.Initial:
			opener, closer = "((", "))"
		case t.IsFinal(s):
			opener, closer = "(((", ")))"
		}
		label := strconv.Itoa(i)
		if w, ok := t.FinalWeight(s); ok && w != 0 {
			label += "/" + strconv.FormatFloat(w, 'g', -1, 64)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(s), opener, label, closer)
	}

	for i := range t.Size() {
		src := fst.StateID(i)
		for _, e := range t.Edges(src) {
			syms := make([]string, len(e.Transition.Symbols))
			for k, sym := range e.Transition.Symbols {
				syms[k] = table.FormatToken(sym, true)
			}
			label := strings.Join(syms, ":")
			if e.Transition.Weight != 0 {
				label += "/" + strconv.FormatFloat(e.Transition.Weight, 'g', -1, 64)
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(src), escapeLabel(label), nodeID(e.Target))
		}
	}

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high contrast regardless of theme.
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[fst.StateID]bool)
		for _, s := range overlay.Highlight {
			if seen[s] || int(s) >= t.Size() {
				continue
			}
			seen[s] = true
			fmt.Fprintf(&sb, "    class %s highlight;\n", nodeID(s))
		}
	}

	return sb.String()
}

func nodeID(s fst.StateID) string {
	return "s" + strconv.Itoa(int(s))
}

// escapeLabel keeps symbol names from breaking the quoted Mermaid label.
func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "#quot;")
}
