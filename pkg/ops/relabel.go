package ops

import (
	"slices"

	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/symbols"
)

// Relabel returns a copy of t where every symbol with an entry in update is replaced.
// Symbols without an entry are kept, epsilon included.
func Relabel(t *fst.Transducer, update symbols.Renaming) *fst.Transducer {
	ret := t.EmptyCopy()
	ret.AddStates(t.Size() - 1)
	for src := range t.Size() {
		s := fst.StateID(src)
		for _, e := range t.Edges(s) {
			tr := fst.Transition{Symbols: slices.Clone(e.Transition.Symbols), Weight: e.Transition.Weight}
			for i, sym := range tr.Symbols {
				if to, ok := update[sym]; ok {
					tr.Symbols[i] = to
				}
			}
			_ = ret.InsertTransition(s, e.Target, tr)
		}
	}
	for _, f := range t.Finals() {
		w, _ := t.FinalWeight(f)
		ret.SetFinal(f, w)
	}
	return ret
}

// RelabelNames interns the replacement names in a copy of t's alphabet and relabels
// by name. Names absent from t are ignored.
func RelabelNames(t *fst.Transducer, names map[string]string) *fst.Transducer {
	update := make(symbols.Renaming, len(names))
	ret := Relabel(t, nil)
	for from, to := range names {
		sym, ok := ret.Symbols().Find(from)
		if !ok {
			continue
		}
		update[sym] = ret.Symbols().Intern(to)
	}
	return Relabel(ret, update)
}
