package ops

import (
	"github.com/aretw0/fsnt/pkg/fst"
)

// Reverse returns a transducer accepting the reversal of every path of t.
//
// The result has t.Size()+1 states. State 0 is a fresh initial state with epsilon
// transitions, carrying the final weights, to each former final state. The former
// initial state becomes state t.Size(), the only final state.
func Reverse(t *fst.Transducer) *fst.Transducer {
	ret := t.EmptyCopy()
	end := fst.StateID(t.Size())
	ret.AddStates(t.Size())
	ret.SetFinal(end, 0)

	at := func(s fst.StateID) fst.StateID {
		if s == fst.Initial {
			return end
		}
		return s
	}
	for _, f := range t.Finals() {
		w, _ := t.FinalWeight(f)
		_ = ret.InsertEpsilon(fst.Initial, at(f), w)
	}
	for src := range t.Size() {
		s := fst.StateID(src)
		for _, e := range t.Edges(s) {
			_ = ret.InsertTransition(at(e.Target), at(s), e.Transition)
		}
	}
	return ret
}
