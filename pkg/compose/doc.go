/*
Package compose builds the composition of two multi-tape transducers.

Composition fuses pairs of "glue" tapes, one from each input, and runs both
automata in lock-step so that the glued tapes agree. The output carries A's tapes
followed by B's unglued tapes.

Since the two sides may produce symbols on a glued tape at different cadences,
every tape keeps a small FIFO backlog: a symbol is only emitted once something is
available to match it. Product states are keyed by the pair of input states plus
the backlog contents, and each distinct key yields exactly one output state.

Usage:

	out, err := compose.Compose(ctx, a, b, []compose.Glue{{Left: "surface", Right: "input"}})
	if err != nil {
		return err
	}

Configuration errors (unknown tapes, too many glue pairs) are reported by New before
any state is built. A pair of transitions whose symbols cannot be reconciled is not
an error; it only shrinks the output language.
*/
package compose
