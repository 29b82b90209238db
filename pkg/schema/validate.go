package schema

import (
	"fmt"

	"github.com/aretw0/fsnt/pkg/symbols"
)

// Validate checks the document for structural problems.
// Returns an *AggregateError with all validation failures found.
func (d *Document) Validate() error {
	var errs []error
	fail := func(key, reason string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: reason, Value: value})
	}

	if d.TapeCount < 0 {
		fail("tape_count", "must not be negative", d.TapeCount)
	}
	if d.States < 0 {
		fail("states", "must not be negative", d.States)
	}
	states := max(d.States, 1)

	for i, tape := range d.Tapes {
		key := fmt.Sprintf("tapes[%d]", i)
		if tape.Name == "" {
			fail(key+".name", "required", nil)
		}
		if tape.Index < 0 || tape.Index >= d.TapeCount {
			fail(key+".index", fmt.Sprintf("must be in [0, %d)", d.TapeCount), tape.Index)
		}
	}

	scratch := symbols.NewTable()
	for i, e := range d.Expansions {
		key := fmt.Sprintf("expansions[%d]", i)
		if e.Symbol == "" {
			fail(key+".symbol", "required", nil)
		}
		if _, ok := e.expansion(scratch); !ok {
			fail(key, "unknown kind, class or flag operation", e.Kind)
		}
	}

	for i, tr := range d.Transitions {
		key := fmt.Sprintf("transitions[%d]", i)
		if tr.From < 0 || tr.From >= states {
			fail(key+".from", fmt.Sprintf("must be in [0, %d)", states), tr.From)
		}
		if tr.To < 0 || tr.To >= states {
			fail(key+".to", fmt.Sprintf("must be in [0, %d)", states), tr.To)
		}
		if len(tr.Symbols) != d.TapeCount {
			fail(key+".symbols", fmt.Sprintf("expected %d symbols", d.TapeCount), len(tr.Symbols))
		}
	}

	for i, f := range d.Finals {
		if f.State < 0 || f.State >= states {
			fail(fmt.Sprintf("finals[%d].state", i), fmt.Sprintf("must be in [0, %d)", states), f.State)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
