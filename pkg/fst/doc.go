/*
Package fst provides the multi-tape weighted transducer data structure.

States are dense integer indices with state 0 as the initial state. Each source
state maps destination states to a list of parallel transitions; parallel
transitions between the same pair of states are alternatives and are never merged.
Every transition carries exactly one symbol per tape and a weight; weights add
along a path (lower is better).

States are created lazily and never removed during construction. Pruning is left
to the ops package.
*/
package fst
