/*
Package fsnt is a toolkit for multi-tape weighted finite-state transducers.

A transducer carries any number of named tapes. Two transducers are combined by
composition over one or more glued tape pairs: each glued tape of the left side is
matched against its partner on the right, and the result keeps every other tape of
both sides. Unlike classic two-tape composition, glued tapes do not need to advance in
lock step; symbols that one side emits early wait in a per-tape backlog until the
other side consumes them.

# Packages

  - pkg/symbols: the interned alphabet and symbol expansions (unions, flags, ...).
  - pkg/fst: the transducer graph.
  - pkg/compose: multi-tape composition.
  - pkg/ops: strip, reverse, relabel and path expansion.
  - pkg/att and pkg/schema: AT&T text and JSON/YAML document formats.
  - pkg/ports and pkg/adapters: named transducer storage and the HTTP and MCP surfaces.
  - pkg/observability: Prometheus metrics fed by composition hooks.

The fsnt command (cmd/fsnt) exposes the same operations on the command line.

# Usage

The Toolkit ties composition to a store:

	kit := fsnt.New(fsnt.WithStore(memory.NewStore()))
	out, err := kit.ComposeStored(ctx, fsnt.ComposeRequest{
		Left:   "lexicon",
		Right:  "rules",
		Glue:   []compose.Glue{{Left: "surface", Right: "input"}},
		Output: "analyzer",
		Strip:  true,
	})

Library packages can also be used directly; see compose.Compose.
*/
package fsnt
