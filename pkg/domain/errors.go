package domain

import "github.com/cockroachdb/errors"

// Configuration errors, reported by the composer before any state is built.
var (
	// ErrTooManyGlueTapes is returned when more tapes are glued than one side has.
	ErrTooManyGlueTapes = errors.New("more glue pairs than tapes")

	// ErrUnknownTape is returned when a glue pair names a tape the transducer does not have.
	ErrUnknownTape = errors.New("unknown tape")

	// ErrDuplicateGlue is returned when the same right-hand tape is glued twice.
	ErrDuplicateGlue = errors.New("tape glued more than once")
)

// Symbol table errors.
var (
	// ErrDefinitionConflict is returned when a symbol already carries a different expansion.
	ErrDefinitionConflict = errors.New("conflicting symbol definition")

	// ErrUnknownSymbol is returned for handles that were never interned.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// Transducer construction errors.
var (
	// ErrDimensionMismatch is returned when a transition does not carry one symbol per tape.
	ErrDimensionMismatch = errors.New("transition has wrong dimensions")

	// ErrTapeIndex is returned when tape metadata points outside [0, tapeCount).
	ErrTapeIndex = errors.New("tape index out of range")

	// ErrUnknownState is returned when a transition refers to a state that was never allocated.
	ErrUnknownState = errors.New("unknown state")
)

// ErrResourceExhausted is returned when composition exceeds a configured state or backlog ceiling.
var ErrResourceExhausted = errors.New("composition resource limit exceeded")

// ErrTransducerNotFound is returned when a name cannot be found in a store.
var ErrTransducerNotFound = errors.New("transducer not found")

// ErrMalformedInput is returned by readers for input they cannot interpret.
var ErrMalformedInput = errors.New("malformed transducer input")
