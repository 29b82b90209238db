package symbols

import (
	"strings"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/cockroachdb/errors"
)

// Escapes used by the ATT text format.
const (
	EpsilonToken = "@0@"
	SpaceToken   = "@_SPACE_@"
	TabToken     = "@_TAB_@"
)

// ParseToken interns a token as it appears in ATT text.
// Flag diacritics such as @P.CASE.NOM@ or @C.CASE@ are interned under their full
// name and defined with a Flag expansion.
func (t *Table) ParseToken(tok string) (Symbol, error) {
	switch tok {
	case "", EpsilonToken, "@_EPSILON_SYMBOL_@":
		return Epsilon, nil
	case SpaceToken:
		return t.Intern(" "), nil
	case TabToken:
		return t.Intern("\t"), nil
	}
	flag, ok, err := parseFlag(t, tok)
	if err != nil {
		return Epsilon, err
	}
	sym := t.Intern(tok)
	if ok {
		if err := t.Define(sym, flag, true); err != nil {
			return Epsilon, err
		}
	}
	return sym, nil
}

// parseFlag recognises @X.FEATURE@ and @X.FEATURE.VALUE@.
func parseFlag(t *Table, tok string) (Flag, bool, error) {
	if len(tok) < 5 || tok[0] != '@' || tok[len(tok)-1] != '@' || tok[2] != '.' {
		return Flag{}, false, nil
	}
	op, ok := ParseFlagOp(tok[1:2])
	if !ok {
		return Flag{}, false, nil
	}
	parts := strings.Split(tok[3:len(tok)-1], ".")
	if parts[0] == "" || len(parts) > 2 {
		return Flag{}, false, errors.Wrapf(domain.ErrMalformedInput, "flag diacritic %q", tok)
	}
	f := Flag{Op: op, Feature: t.Intern(parts[0])}
	if len(parts) == 2 {
		f.Value = t.Intern(parts[1])
	}
	switch op {
	case FlagPositive, FlagNegative, FlagUnify:
		if f.Value == Epsilon {
			return Flag{}, false, errors.Wrapf(domain.ErrMalformedInput, "flag diacritic %q needs a value", tok)
		}
	case FlagClear:
		if f.Value != Epsilon {
			return Flag{}, false, errors.Wrapf(domain.ErrMalformedInput, "flag diacritic %q takes no value", tok)
		}
	}
	return f, true, nil
}

// FormatToken renders sym for output. With escape set, epsilon and whitespace
// symbols use the ATT escapes so that the result survives tab-separated files.
func (t *Table) FormatToken(sym Symbol, escape bool) string {
	name := t.Name(sym)
	if !escape {
		return name
	}
	switch {
	case sym == Epsilon || name == "":
		return EpsilonToken
	case name == " ":
		return SpaceToken
	case name == "\t":
		return TabToken
	}
	return name
}
