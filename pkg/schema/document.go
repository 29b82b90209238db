package schema

import (
	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/symbols"
	"github.com/cockroachdb/errors"
)

// Document is the serializable form of a transducer.
type Document struct {
	TapeCount   int          `json:"tape_count" yaml:"tape_count"`
	Tapes       []Tape       `json:"tapes,omitempty" yaml:"tapes,omitempty"`
	Symbols     []string     `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Expansions  []Expansion  `json:"expansions,omitempty" yaml:"expansions,omitempty"`
	States      int          `json:"states" yaml:"states"`
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Finals      []Final      `json:"finals,omitempty" yaml:"finals,omitempty"`
}

// Tape names one tape index. Several entries may share an index.
type Tape struct {
	Name  string `json:"name" yaml:"name"`
	Index int    `json:"index" yaml:"index"`
	Flags uint32 `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Expansion describes the meaning attached to a symbol.
// Which fields apply depends on Kind: members for union and negation, tape for
// identity, class for category and op/feature/value for flags.
type Expansion struct {
	Symbol  string   `json:"symbol" yaml:"symbol"`
	Kind    string   `json:"kind" yaml:"kind"`
	Members []string `json:"members,omitempty" yaml:"members,omitempty"`
	Tape    int      `json:"tape,omitempty" yaml:"tape,omitempty"`
	Class   string   `json:"class,omitempty" yaml:"class,omitempty"`
	Op      string   `json:"op,omitempty" yaml:"op,omitempty"`
	Feature string   `json:"feature,omitempty" yaml:"feature,omitempty"`
	Value   string   `json:"value,omitempty" yaml:"value,omitempty"`
}

// Transition is one arc. Symbols are names; the empty name is epsilon.
type Transition struct {
	From    int      `json:"from" yaml:"from"`
	To      int      `json:"to" yaml:"to"`
	Symbols []string `json:"symbols" yaml:"symbols,flow"`
	Weight  float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Final marks an accepting state.
type Final struct {
	State  int     `json:"state" yaml:"state"`
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// FromTransducer captures t. The symbol list preserves handle order, so a round trip
// keeps handles stable.
func FromTransducer(t *fst.Transducer) *Document {
	table := t.Symbols()
	doc := &Document{
		TapeCount: t.TapeCount(),
		Symbols:   table.Names()[1:],
		States:    t.Size(),
	}
	for _, name := range t.TapeNames() {
		info, _ := t.TapeInfo(name)
		doc.Tapes = append(doc.Tapes, Tape{Name: name, Index: info.Index, Flags: info.Flags})
	}
	for _, sym := range table.Defined() {
		doc.Expansions = append(doc.Expansions, expansionOf(table, sym))
	}
	for src := range t.Size() {
		for _, e := range t.Edges(fst.StateID(src)) {
			names := make([]string, len(e.Transition.Symbols))
			for i, sym := range e.Transition.Symbols {
				names[i] = table.Name(sym)
			}
			doc.Transitions = append(doc.Transitions, Transition{
				From:    src,
				To:      int(e.Target),
				Symbols: names,
				Weight:  e.Transition.Weight,
			})
		}
	}
	for _, f := range t.Finals() {
		w, _ := t.FinalWeight(f)
		doc.Finals = append(doc.Finals, Final{State: int(f), Weight: w})
	}
	return doc
}

func expansionOf(table *symbols.Table, sym symbols.Symbol) Expansion {
	exp := table.Lookup(sym)
	out := Expansion{Symbol: table.Name(sym), Kind: exp.Kind().String()}
	names := func(members []symbols.Symbol) []string {
		res := make([]string, len(members))
		for i, m := range members {
			res[i] = table.Name(m)
		}
		return res
	}
	switch e := exp.(type) {
	case symbols.Union:
		out.Members = names(e.Members)
	case symbols.Negation:
		out.Members = names(e.Members)
	case symbols.Identity:
		out.Tape = e.Tape
	case symbols.Category:
		out.Class = e.Class.String()
	case symbols.Flag:
		out.Op = e.Op.Letter()
		out.Feature = table.Name(e.Feature)
		out.Value = table.Name(e.Value)
	}
	return out
}

// BuildOption configures Document.Transducer.
type BuildOption func(*build)

type build struct {
	maxStates int
}

// WithMaxStates rejects documents declaring more than n states with
// domain.ErrResourceExhausted. Zero means no limit.
func WithMaxStates(n int) BuildOption {
	return func(b *build) {
		b.maxStates = n
	}
}

// Transducer validates the document and builds the transducer it describes.
func (d *Document) Transducer(opts ...BuildOption) (*fst.Transducer, error) {
	var b build
	for _, opt := range opts {
		opt(&b)
	}
	if b.maxStates > 0 && d.States > b.maxStates {
		return nil, errors.Wrapf(domain.ErrResourceExhausted, "document declares %d states, the limit is %d", d.States, b.maxStates)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	t := fst.New(d.TapeCount)
	table := t.Symbols()
	for _, name := range d.Symbols {
		table.Intern(name)
	}
	t.AddStates(max(d.States, 1) - 1)

	for _, tape := range d.Tapes {
		if err := t.SetTapeInfo(tape.Name, fst.TapeInfo{Index: tape.Index, Flags: tape.Flags}); err != nil {
			return nil, err
		}
	}
	for _, e := range d.Expansions {
		exp, _ := e.expansion(table)
		if err := table.Define(table.Intern(e.Symbol), exp, true); err != nil {
			return nil, err
		}
	}
	for _, tr := range d.Transitions {
		syms := make([]symbols.Symbol, len(tr.Symbols))
		for i, name := range tr.Symbols {
			syms[i] = table.Intern(name)
		}
		if err := t.InsertTransition(fst.StateID(tr.From), fst.StateID(tr.To), fst.Transition{Symbols: syms, Weight: tr.Weight}); err != nil {
			return nil, err
		}
	}
	for _, f := range d.Finals {
		t.SetFinal(fst.StateID(f.State), f.Weight)
	}
	return t, nil
}

// expansion interns the names the expansion refers to. It reports false when a code
// (kind, class or op) is unknown.
func (e Expansion) expansion(table *symbols.Table) (symbols.Expansion, bool) {
	kind, ok := symbols.ParseKind(e.Kind)
	if !ok {
		return nil, false
	}
	members := func() []symbols.Symbol {
		res := make([]symbols.Symbol, len(e.Members))
		for i, m := range e.Members {
			res[i] = table.Intern(m)
		}
		return res
	}
	switch kind {
	case symbols.KindUnion:
		return symbols.NewUnion(members()...), true
	case symbols.KindNegation:
		return symbols.NewNegation(members()...), true
	case symbols.KindIdentity:
		return symbols.Identity{Tape: e.Tape}, true
	case symbols.KindCategory:
		class, ok := symbols.ParseClass(e.Class)
		return symbols.Category{Class: class}, ok
	case symbols.KindFlag:
		op, ok := symbols.ParseFlagOp(e.Op)
		return symbols.Flag{Op: op, Feature: table.Intern(e.Feature), Value: table.Intern(e.Value)}, ok
	}
	return nil, false
}
