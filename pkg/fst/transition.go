package fst

import (
	"slices"

	"github.com/aretw0/fsnt/pkg/symbols"
)

// StateID addresses a state inside a Transducer.
type StateID int

// Initial is the initial state of every transducer.
const Initial StateID = 0

// Transition carries one symbol per tape and a weight.
type Transition struct {
	Symbols []symbols.Symbol
	Weight  float64
}

// NewTransition builds a zero-weight transition over the given symbols.
func NewTransition(syms ...symbols.Symbol) Transition {
	return Transition{Symbols: syms}
}

// Epsilon returns an all-epsilon transition for the given tape count.
func Epsilon(tapes int, weight float64) Transition {
	return Transition{Symbols: make([]symbols.Symbol, tapes), Weight: weight}
}

// Equal reports whether both transitions have the same symbols and weight.
func (t Transition) Equal(o Transition) bool {
	return t.Weight == o.Weight && slices.Equal(t.Symbols, o.Symbols)
}

// Clone returns a copy that does not share the symbol slice.
func (t Transition) Clone() Transition {
	return Transition{Symbols: slices.Clone(t.Symbols), Weight: t.Weight}
}

// Edge is a transition together with its destination state.
type Edge struct {
	Target     StateID
	Transition Transition
}
