/*
Package att reads and writes transducers in the tab-separated ATT text format.

Every line is either a transition

	src	dst	sym1	...	symN	[weight]

or a final state

	state	[weight]

Header lines start with '#'. "# tapes:" lists the tape names in index order and
"# alt:" adds an alternative name for an already named tape. A line made only of
dashes ends the transducer, so several transducers can share a stream.

Epsilon is written as @0@, a space as @_SPACE_@ and a tab as @_TAB_@. Flag
diacritics (@P.F.V@ and friends) become symbols with a flag expansion.
*/
package att
