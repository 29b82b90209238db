// Package ops provides whole-transducer transformations: pruning, reversal,
// relabeling and path expansion. Every operation returns a new transducer and leaves
// its input untouched.
package ops
