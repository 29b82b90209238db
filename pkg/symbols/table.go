package symbols

import (
	"maps"
	"slices"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/cockroachdb/errors"
)

// Symbol is an interned handle over a name.
type Symbol uint32

// Epsilon is the reserved empty symbol.
const Epsilon Symbol = 0

// Renaming maps handles of one table to handles of another.
type Renaming map[Symbol]Symbol

// Apply returns the renamed handle, or sym itself when the renaming has no entry.
// Epsilon always maps to Epsilon.
func (r Renaming) Apply(sym Symbol) Symbol {
	if sym == Epsilon {
		return Epsilon
	}
	if to, ok := r[sym]; ok {
		return to
	}
	return sym
}

func (r Renaming) applyAll(syms []Symbol) []Symbol {
	out := make([]Symbol, len(syms))
	for i, s := range syms {
		out[i] = r.Apply(s)
	}
	return out
}

// Table interns symbol names and stores their expansions.
type Table struct {
	names []string
	ids   map[string]Symbol
	defs  map[Symbol]Expansion
}

// NewTable returns a table holding only epsilon.
func NewTable() *Table {
	t := &Table{
		ids:  make(map[string]Symbol),
		defs: make(map[Symbol]Expansion),
	}
	t.Intern("")
	return t
}

// Intern returns the handle for name, allocating one on first use.
func (t *Table) Intern(name string) Symbol {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := Symbol(len(t.names))
	t.names = append(t.names, name)
	t.ids[name] = id
	return id
}

// Find returns the handle for name without interning it.
func (t *Table) Find(name string) (Symbol, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the name behind sym, or "" for handles this table never issued.
func (t *Table) Name(sym Symbol) string {
	if int(sym) >= len(t.names) {
		return ""
	}
	return t.names[sym]
}

// Len returns the number of interned names, epsilon included.
func (t *Table) Len() int {
	return len(t.names)
}

// Names returns the interned names indexed by handle.
func (t *Table) Names() []string {
	return slices.Clone(t.names)
}

// Define attaches an expansion to sym.
// With checkConflict set, an existing different expansion is an ErrDefinitionConflict;
// otherwise the new expansion replaces it.
func (t *Table) Define(sym Symbol, exp Expansion, checkConflict bool) error {
	if exp == nil {
		return errors.AssertionFailedf("nil expansion for symbol %d", sym)
	}
	if sym == Epsilon {
		return errors.Wrap(domain.ErrDefinitionConflict, "epsilon cannot carry an expansion")
	}
	if int(sym) >= len(t.names) {
		return errors.Wrapf(domain.ErrUnknownSymbol, "handle %d", sym)
	}
	if old, ok := t.defs[sym]; ok && checkConflict && !Equal(old, exp) {
		return errors.Wrapf(domain.ErrDefinitionConflict,
			"symbol %q is already a %s, cannot redefine as %s", t.names[sym], old.Kind(), exp.Kind())
	}
	t.defs[sym] = exp
	return nil
}

// IsDefined reports whether sym carries an expansion.
func (t *Table) IsDefined(sym Symbol) bool {
	_, ok := t.defs[sym]
	return ok
}

// Lookup returns the expansion of sym, or nil. Check IsDefined first.
func (t *Table) Lookup(sym Symbol) Expansion {
	return t.defs[sym]
}

// Defined returns every symbol with an expansion, in handle order.
func (t *Table) Defined() []Symbol {
	return slices.Sorted(maps.Keys(t.defs))
}

// IsEpsilon reports whether sym is epsilon, or a flag diacritic when flagsAsEpsilon is set.
func (t *Table) IsEpsilon(sym Symbol, flagsAsEpsilon bool) bool {
	if sym == Epsilon {
		return true
	}
	if !flagsAsEpsilon {
		return false
	}
	_, isFlag := t.defs[sym].(Flag)
	return isFlag
}

// Merge interns every name of other into t and returns the old-to-new handle mapping.
// Expansions are not carried over; see ImportExpansions.
func (t *Table) Merge(other *Table) Renaming {
	r := make(Renaming, len(other.names))
	r[Epsilon] = Epsilon
	for i := 1; i < len(other.names); i++ {
		r[Symbol(i)] = t.Intern(other.names[i])
	}
	return r
}

// ImportExpansions copies the expansions of other into t, translating every handle
// through r (normally the result of t.Merge(other)).
func (t *Table) ImportExpansions(other *Table, r Renaming, checkConflict bool) error {
	for _, sym := range other.Defined() {
		target, ok := r[sym]
		if !ok {
			return errors.Wrapf(domain.ErrUnknownSymbol, "symbol %q was not merged", other.Name(sym))
		}
		if err := t.Define(target, remap(other.defs[sym], r), checkConflict); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	return &Table{
		names: slices.Clone(t.names),
		ids:   maps.Clone(t.ids),
		defs:  maps.Clone(t.defs),
	}
}
