package fst

import (
	"maps"
	"slices"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/symbols"
	"github.com/cockroachdb/errors"
)

// Transducer is a multi-tape weighted automaton.
type Transducer struct {
	tapeCount int
	alphabet  *symbols.Table
	tapes     map[string]TapeInfo
	tapeOrder []string
	adj       []map[StateID][]Transition
	finals    map[StateID]float64
}

// New creates a transducer with a fresh symbol table and the initial state allocated.
func New(tapeCount int) *Transducer {
	return NewWithSymbols(tapeCount, symbols.NewTable())
}

// NewWithSymbols creates a transducer that owns the given table.
func NewWithSymbols(tapeCount int, table *symbols.Table) *Transducer {
	t := &Transducer{
		tapeCount: tapeCount,
		alphabet:  table,
		tapes:     make(map[string]TapeInfo),
		finals:    make(map[StateID]float64),
	}
	t.AddState()
	return t
}

// EmptyCopy returns a transducer with the same tapes, a copy of the symbol table and
// only the initial state.
func (t *Transducer) EmptyCopy() *Transducer {
	ret := NewWithSymbols(t.tapeCount, t.alphabet.Clone())
	for _, name := range t.tapeOrder {
		ret.tapeOrder = append(ret.tapeOrder, name)
		ret.tapes[name] = t.tapes[name]
	}
	return ret
}

// Symbols returns the alphabet owned by the transducer.
func (t *Transducer) Symbols() *symbols.Table {
	return t.alphabet
}

// TapeCount returns the number of tapes.
func (t *Transducer) TapeCount() int {
	return t.tapeCount
}

// Size returns the number of allocated states.
func (t *Transducer) Size() int {
	return len(t.adj)
}

// AddState allocates a new state.
func (t *Transducer) AddState() StateID {
	id := StateID(len(t.adj))
	t.adj = append(t.adj, nil)
	return id
}

// AddStates allocates n new states.
func (t *Transducer) AddStates(n int) {
	for range n {
		t.AddState()
	}
}

func (t *Transducer) has(s StateID) bool {
	return s >= 0 && int(s) < len(t.adj)
}

// InsertTransition connects src to dst. The transition must carry one symbol per tape.
func (t *Transducer) InsertTransition(src, dst StateID, tr Transition) error {
	if len(tr.Symbols) != t.tapeCount {
		return errors.Wrapf(domain.ErrDimensionMismatch, "transition has %d symbols, transducer has %d tapes",
			len(tr.Symbols), t.tapeCount)
	}
	if !t.has(src) || !t.has(dst) {
		return errors.Wrapf(domain.ErrUnknownState, "%d -> %d with %d states", src, dst, len(t.adj))
	}
	if t.adj[src] == nil {
		t.adj[src] = make(map[StateID][]Transition)
	}
	t.adj[src][dst] = append(t.adj[src][dst], tr.Clone())
	return nil
}

// InsertTransitionNew connects src to a newly allocated state and returns it.
// With checkExists set, an identical transition already leaving src is reused and its
// destination returned instead.
func (t *Transducer) InsertTransitionNew(src StateID, tr Transition, checkExists bool) (StateID, error) {
	if checkExists && t.has(src) {
		for _, e := range t.Edges(src) {
			if e.Transition.Equal(tr) {
				return e.Target, nil
			}
		}
	}
	if len(tr.Symbols) != t.tapeCount {
		return 0, errors.Wrapf(domain.ErrDimensionMismatch, "transition has %d symbols, transducer has %d tapes",
			len(tr.Symbols), t.tapeCount)
	}
	if !t.has(src) {
		return 0, errors.Wrapf(domain.ErrUnknownState, "source %d with %d states", src, len(t.adj))
	}
	dst := t.AddState()
	return dst, t.InsertTransition(src, dst, tr)
}

// InsertEpsilon connects src to dst with an all-epsilon transition.
func (t *Transducer) InsertEpsilon(src, dst StateID, weight float64) error {
	return t.InsertTransition(src, dst, Epsilon(t.tapeCount, weight))
}

// InsertEpsilonNew adds an all-epsilon transition from src to a new (or, with
// checkExists, an existing) state.
func (t *Transducer) InsertEpsilonNew(src StateID, checkExists bool, weight float64) (StateID, error) {
	return t.InsertTransitionNew(src, Epsilon(t.tapeCount, weight), checkExists)
}

// EraseTransitions removes every transition from src to dst.
func (t *Transducer) EraseTransitions(src, dst StateID) {
	if !t.has(src) || t.adj[src] == nil {
		return
	}
	delete(t.adj[src], dst)
}

// Edges lists the transitions leaving src ordered by destination, then by insertion.
func (t *Transducer) Edges(src StateID) []Edge {
	if !t.has(src) {
		return nil
	}
	out := t.adj[src]
	var edges []Edge
	for _, dst := range slices.Sorted(maps.Keys(out)) {
		for _, tr := range out[dst] {
			edges = append(edges, Edge{Target: dst, Transition: tr})
		}
	}
	return edges
}

// Transitions returns the parallel transitions from src to dst.
func (t *Transducer) Transitions(src, dst StateID) []Transition {
	if !t.has(src) {
		return nil
	}
	return slices.Clone(t.adj[src][dst])
}

// TransitionCount returns the total number of transitions.
func (t *Transducer) TransitionCount() int {
	n := 0
	for _, out := range t.adj {
		for _, trs := range out {
			n += len(trs)
		}
	}
	return n
}

// SetFinal marks state as accepting with the given weight.
func (t *Transducer) SetFinal(state StateID, weight float64) {
	t.finals[state] = weight
}

// SetNotFinal removes state from the accepting set.
func (t *Transducer) SetNotFinal(state StateID) {
	delete(t.finals, state)
}

// IsFinal reports whether state is accepting.
func (t *Transducer) IsFinal(state StateID) bool {
	_, ok := t.finals[state]
	return ok
}

// FinalWeight returns the acceptance weight of state.
func (t *Transducer) FinalWeight(state StateID) (float64, bool) {
	w, ok := t.finals[state]
	return w, ok
}

// Finals returns the accepting states in ascending order.
func (t *Transducer) Finals() []StateID {
	return slices.Sorted(maps.Keys(t.finals))
}
