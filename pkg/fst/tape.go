package fst

import (
	"fmt"
	"slices"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/cockroachdb/errors"
)

// TapeInfo places a tape name on a physical tape index.
type TapeInfo struct {
	Index int
	Flags uint32
}

// SetTapeInfo registers name for a tape. Re-registering a name replaces its info.
func (t *Transducer) SetTapeInfo(name string, info TapeInfo) error {
	if info.Index < 0 || info.Index >= t.tapeCount {
		return errors.Wrapf(domain.ErrTapeIndex, "tape %q at index %d, transducer has %d tapes",
			name, info.Index, t.tapeCount)
	}
	if _, ok := t.tapes[name]; !ok {
		t.tapeOrder = append(t.tapeOrder, name)
	}
	t.tapes[name] = info
	return nil
}

// SetTapeInfos registers several names. Names are applied in the given order.
func (t *Transducer) SetTapeInfos(names []string, infos map[string]TapeInfo) error {
	for _, name := range names {
		info, ok := infos[name]
		if !ok {
			continue
		}
		if err := t.SetTapeInfo(name, info); err != nil {
			return err
		}
	}
	return nil
}

// TapeInfo looks up a tape by name.
func (t *Transducer) TapeInfo(name string) (TapeInfo, bool) {
	info, ok := t.tapes[name]
	return info, ok
}

// TapeNames returns all tape names in registration order.
func (t *Transducer) TapeNames() []string {
	return slices.Clone(t.tapeOrder)
}

// TapeInfos returns a copy of the name to tape mapping.
func (t *Transducer) TapeInfos() map[string]TapeInfo {
	out := make(map[string]TapeInfo, len(t.tapes))
	for k, v := range t.tapes {
		out[k] = v
	}
	return out
}

// TapeName returns the primary name of a tape index: the first name registered for it,
// or Tape_N (1-based) when it has none.
func (t *Transducer) TapeName(index int) string {
	for _, name := range t.tapeOrder {
		if t.tapes[name].Index == index {
			return name
		}
	}
	return DefaultTapeName(index)
}

// AltTapeNames returns the names of a tape index other than its primary name.
func (t *Transducer) AltTapeNames(index int) []string {
	var out []string
	primary := ""
	for _, name := range t.tapeOrder {
		if t.tapes[name].Index != index {
			continue
		}
		if primary == "" {
			primary = name
			continue
		}
		out = append(out, name)
	}
	return out
}

// DefaultTapeName is the name given to index when no name is known.
func DefaultTapeName(index int) string {
	return fmt.Sprintf("Tape_%d", index+1)
}
