package att

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/fsnt/pkg/fst"
)

// Options control Write.
type Options struct {
	// Weights appends a weight column to transitions and finals.
	Weights bool
	// Headers writes the "# tapes:" and "# alt:" lines.
	Headers bool
}

// DefaultOptions writes weights and headers.
var DefaultOptions = Options{Weights: true, Headers: true}

// Write encodes t. Transitions are listed by source state, then destination,
// followed by the final states in ascending order.
func Write(w io.Writer, t *fst.Transducer, opts Options) error {
	bw := bufio.NewWriter(w)
	if opts.Headers {
		writeHeaders(bw, t)
	}
	table := t.Symbols()
	for src := range t.Size() {
		for _, e := range t.Edges(fst.StateID(src)) {
			bw.WriteString(strconv.Itoa(src))
			bw.WriteByte('\t')
			bw.WriteString(strconv.Itoa(int(e.Target)))
			for _, sym := range e.Transition.Symbols {
				bw.WriteByte('\t')
				bw.WriteString(table.FormatToken(sym, true))
			}
			if opts.Weights {
				bw.WriteByte('\t')
				bw.WriteString(formatWeight(e.Transition.Weight))
			}
			bw.WriteByte('\n')
		}
	}
	for _, f := range t.Finals() {
		bw.WriteString(strconv.Itoa(int(f)))
		if opts.Weights {
			fw, _ := t.FinalWeight(f)
			bw.WriteByte('\t')
			bw.WriteString(formatWeight(fw))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteSeparator writes the line that ends a transducer in a multi-transducer stream.
func WriteSeparator(w io.Writer) error {
	_, err := io.WriteString(w, "--\n")
	return err
}

func writeHeaders(w *bufio.Writer, t *fst.Transducer) {
	names := make([]string, t.TapeCount())
	for i := range names {
		names[i] = t.TapeName(i)
	}
	w.WriteString(tapesHeader)
	w.WriteString("\t")
	w.WriteString(strings.Join(names, "\t"))
	w.WriteByte('\n')
	for i, primary := range names {
		for _, alt := range t.AltTapeNames(i) {
			w.WriteString(altHeader + "\t" + primary + "\t" + alt + "\n")
		}
	}
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', 6, 64)
}
