/*
Package symbols interns symbol names to integer handles and records the semantic
expansion of special symbols.

Handle 0 is always epsilon, the empty symbol. Interning is idempotent and
append-only, so a handle never changes meaning once issued by a Table.

# Expansions

A symbol may carry at most one Expansion:

  - Union: matches any of its members.
  - Negation: complement of its members.
  - Identity: copies whatever is on another tape.
  - Category: a character class tag.
  - Flag: a flag diacritic, a zero-width constraint marker.

A Table is not safe for concurrent mutation.
*/
package symbols
