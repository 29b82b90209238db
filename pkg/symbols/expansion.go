package symbols

import (
	"fmt"
	"slices"
)

// Kind identifies the variant of an Expansion.
// Values are explicit so that persisted documents stay stable.
type Kind int

const (
	KindUnion    Kind = 0
	KindNegation Kind = 1
	KindIdentity Kind = 2
	KindCategory Kind = 3
	KindFlag     Kind = 4
)

var kindNames = map[Kind]string{
	KindUnion:    "union",
	KindNegation: "negation",
	KindIdentity: "identity",
	KindCategory: "category",
	KindFlag:     "flag",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Class is a character class used by Category expansions.
type Class int

const (
	ClassAny   Class = 0
	ClassTag   Class = 1
	ClassChar  Class = 2
	ClassUpper Class = 3
	ClassLower Class = 4
)

var classNames = map[Class]string{
	ClassAny:   "any",
	ClassTag:   "tag",
	ClassChar:  "char",
	ClassUpper: "upper",
	ClassLower: "lower",
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ParseClass is the inverse of Class.String.
func ParseClass(s string) (Class, bool) {
	for c, name := range classNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// FlagOp is the operation performed by a flag diacritic.
type FlagOp int

const (
	FlagClear    FlagOp = 0
	FlagPositive FlagOp = 1
	FlagNegative FlagOp = 2
	FlagRequire  FlagOp = 3
	FlagDisallow FlagOp = 4
	FlagUnify    FlagOp = 5
)

var flagLetters = map[FlagOp]string{
	FlagClear:    "C",
	FlagPositive: "P",
	FlagNegative: "N",
	FlagRequire:  "R",
	FlagDisallow: "D",
	FlagUnify:    "U",
}

// Letter returns the single-letter code used in flag diacritic names (e.g. "P" in @P.CASE.NOM@).
func (op FlagOp) Letter() string {
	return flagLetters[op]
}

func (op FlagOp) String() string {
	if s, ok := flagLetters[op]; ok {
		return s
	}
	return fmt.Sprintf("flag(%d)", int(op))
}

// ParseFlagOp maps a flag letter back to its operation.
func ParseFlagOp(letter string) (FlagOp, bool) {
	for op, l := range flagLetters {
		if l == letter {
			return op, true
		}
	}
	return 0, false
}

// Expansion is the semantic meaning attached to a symbol.
// The set of implementations is closed: Union, Negation, Identity, Category and Flag.
type Expansion interface {
	Kind() Kind
	isExpansion()
}

// Union denotes "any of Members" when checking compatibility.
type Union struct {
	Members []Symbol
}

// Negation denotes the complement of Members.
type Negation struct {
	Members []Symbol
}

// Identity denotes "copy whatever is on tape Tape".
type Identity struct {
	Tape int
}

// Category is a character class tag.
type Category struct {
	Class Class
}

// Flag is a flag diacritic. Value is Epsilon for flags without a value (e.g. @C.CASE@).
type Flag struct {
	Op      FlagOp
	Feature Symbol
	Value   Symbol
}

func (Union) Kind() Kind    { return KindUnion }
func (Negation) Kind() Kind { return KindNegation }
func (Identity) Kind() Kind { return KindIdentity }
func (Category) Kind() Kind { return KindCategory }
func (Flag) Kind() Kind     { return KindFlag }

func (Union) isExpansion()    {}
func (Negation) isExpansion() {}
func (Identity) isExpansion() {}
func (Category) isExpansion() {}
func (Flag) isExpansion()     {}

// NewUnion builds a Union with a sorted, de-duplicated member set.
func NewUnion(members ...Symbol) Union {
	return Union{Members: normalize(members)}
}

// NewNegation builds a Negation with a sorted, de-duplicated member set.
func NewNegation(members ...Symbol) Negation {
	return Negation{Members: normalize(members)}
}

// Contains reports whether sym is one of the union's members.
func (u Union) Contains(sym Symbol) bool {
	_, found := slices.BinarySearch(u.Members, sym)
	return found
}

func normalize(members []Symbol) []Symbol {
	out := slices.Clone(members)
	slices.Sort(out)
	return slices.Compact(out)
}

// Equal reports whether two expansions have the same kind and payload.
func Equal(a, b Expansion) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Union:
		y, ok := b.(Union)
		return ok && slices.Equal(normalize(x.Members), normalize(y.Members))
	case Negation:
		y, ok := b.(Negation)
		return ok && slices.Equal(normalize(x.Members), normalize(y.Members))
	case Identity:
		y, ok := b.(Identity)
		return ok && x == y
	case Category:
		y, ok := b.(Category)
		return ok && x == y
	case Flag:
		y, ok := b.(Flag)
		return ok && x == y
	}
	return false
}

// remap rewrites every handle inside e through r. Handles missing from r are kept.
func remap(e Expansion, r Renaming) Expansion {
	switch x := e.(type) {
	case Union:
		return NewUnion(r.applyAll(x.Members)...)
	case Negation:
		return NewNegation(r.applyAll(x.Members)...)
	case Flag:
		return Flag{Op: x.Op, Feature: r.Apply(x.Feature), Value: r.Apply(x.Value)}
	}
	return e
}
