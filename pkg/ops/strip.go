package ops

import (
	"slices"

	"github.com/aretw0/fsnt/pkg/fst"
)

// Strip removes every state that is not both reachable from the initial state and
// able to reach a final state. Surviving states are renumbered in ascending order;
// the initial state stays 0 even when nothing survives.
func Strip(t *fst.Transducer) *fst.Transducer {
	forward := make(map[fst.StateID][]fst.StateID)
	backward := make(map[fst.StateID][]fst.StateID)
	for src := range t.Size() {
		s := fst.StateID(src)
		for _, e := range t.Edges(s) {
			forward[s] = append(forward[s], e.Target)
			backward[e.Target] = append(backward[e.Target], s)
		}
	}

	accessible := follow(forward, []fst.StateID{fst.Initial})
	coaccessible := follow(backward, t.Finals())

	keep := func(s fst.StateID) bool { return accessible[s] && coaccessible[s] }

	ret := t.EmptyCopy()
	renumber := make(map[fst.StateID]fst.StateID)
	for src := range t.Size() {
		s := fst.StateID(src)
		switch {
		case !keep(s):
		case s == fst.Initial:
			renumber[s] = fst.Initial
		default:
			renumber[s] = ret.AddState()
		}
	}

	for src := range t.Size() {
		s := fst.StateID(src)
		from, ok := renumber[s]
		if !ok {
			continue
		}
		for _, e := range t.Edges(s) {
			to, ok := renumber[e.Target]
			if !ok {
				continue
			}
			// Both ends are valid states of ret and the transition came from a
			// transducer with the same tape count.
			_ = ret.InsertTransition(from, to, e.Transition)
		}
	}
	for _, f := range t.Finals() {
		if n, ok := renumber[f]; ok {
			w, _ := t.FinalWeight(f)
			ret.SetFinal(n, w)
		}
	}
	return ret
}

func follow(links map[fst.StateID][]fst.StateID, roots []fst.StateID) map[fst.StateID]bool {
	seen := make(map[fst.StateID]bool)
	todo := slices.Clone(roots)
	for len(todo) > 0 {
		cur := todo[0]
		todo = todo[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		todo = append(todo, links[cur]...)
	}
	return seen
}
