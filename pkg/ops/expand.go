package ops

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/cockroachdb/errors"
)

// DefaultMaxCycles is the number of times Expand follows a cycle when unset.
const DefaultMaxCycles = 5

// Path is one accepted path, spelled out per tape.
type Path struct {
	Tapes  []string `json:"tapes" yaml:"tapes"`
	Weight float64  `json:"weight" yaml:"weight"`
}

// String joins the tapes with ':'.
func (p Path) String() string {
	return strings.Join(p.Tapes, ":")
}

type walker struct {
	state  fst.StateID
	tapes  []string
	weight float64
	visits map[fst.StateID]int
}

func (w *walker) clone() *walker {
	return &walker{
		state:  w.state,
		tapes:  slices.Clone(w.tapes),
		weight: w.weight,
		visits: maps.Clone(w.visits),
	}
}

// Expand enumerates the accepted paths of t depth first. A path may enter any state at
// most maxCycles+1 times, so cyclic transducers yield a finite list. Epsilon symbols
// contribute nothing to the tape strings; the final weight is included in Weight.
func Expand(ctx context.Context, t *fst.Transducer, maxCycles int) ([]Path, error) {
	var paths []Path
	err := Walk(ctx, t, maxCycles, func(p Path) error {
		paths = append(paths, p)
		return nil
	})
	return paths, err
}

// Walk is Expand with a callback; returning an error from fn stops the walk.
func Walk(ctx context.Context, t *fst.Transducer, maxCycles int, fn func(Path) error) error {
	if maxCycles < 0 {
		maxCycles = DefaultMaxCycles
	}
	table := t.Symbols()
	first := &walker{
		tapes:  make([]string, t.TapeCount()),
		visits: map[fst.StateID]int{fst.Initial: 1},
	}
	todo := []*walker{first}
	for len(todo) > 0 {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "expand interrupted")
		}
		cur := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		if w, ok := t.FinalWeight(cur.state); ok {
			if err := fn(Path{Tapes: slices.Clone(cur.tapes), Weight: cur.weight + w}); err != nil {
				return err
			}
		}
		for _, e := range t.Edges(cur.state) {
			if cur.visits[e.Target]+1 > maxCycles+1 {
				continue
			}
			next := cur.clone()
			next.state = e.Target
			next.visits[e.Target]++
			next.weight += e.Transition.Weight
			for i, sym := range e.Transition.Symbols {
				next.tapes[i] += table.FormatToken(sym, false)
			}
			todo = append(todo, next)
		}
	}
	return nil
}
