// Package schema provides the document form of a transducer used by stores and
// network adapters.
//
// A Document spells symbols out by name so that it stays readable in JSON and YAML
// and can be edited by hand:
//
//	tape_count: 2
//	tapes:
//	  - {name: surface, index: 0}
//	  - {name: analysis, index: 1}
//	states: 2
//	transitions:
//	  - {from: 0, to: 1, symbols: [c, c]}
//	finals:
//	  - {state: 1}
//
// Epsilon is the empty name. Documents are checked with Validate before they are
// turned into transducers; all problems are reported at once.
package schema
