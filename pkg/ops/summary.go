package ops

import (
	"github.com/aretw0/fsnt/pkg/fst"
)

// Summary is a size report for a transducer.
type Summary struct {
	Tapes       []string `json:"tapes" yaml:"tapes"`
	States      int      `json:"states" yaml:"states"`
	Transitions int      `json:"transitions" yaml:"transitions"`
	Finals      int      `json:"finals" yaml:"finals"`
	Symbols     int      `json:"symbols" yaml:"symbols"`
	Defined     int      `json:"defined" yaml:"defined"`
}

// Summarize counts the parts of t. Symbols excludes epsilon.
func Summarize(t *fst.Transducer) Summary {
	tapes := make([]string, t.TapeCount())
	for i := range tapes {
		tapes[i] = t.TapeName(i)
	}
	return Summary{
		Tapes:       tapes,
		States:      t.Size(),
		Transitions: t.TransitionCount(),
		Finals:      len(t.Finals()),
		Symbols:     t.Symbols().Len() - 1,
		Defined:     len(t.Symbols().Defined()),
	}
}
