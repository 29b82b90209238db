package compose

import (
	"slices"
	"strconv"

	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/symbols"
)

// backlog holds one FIFO queue of pending symbols per tape.
type backlog [][]symbols.Symbol

func newBacklog(tapes int) backlog {
	return make(backlog, tapes)
}

func (b backlog) clone() backlog {
	out := make(backlog, len(b))
	for i, q := range b {
		out[i] = slices.Clone(q)
	}
	return out
}

func (b backlog) empty() bool {
	for _, q := range b {
		if len(q) > 0 {
			return false
		}
	}
	return true
}

// depth is the length of the longest queue.
func (b backlog) depth() int {
	n := 0
	for _, q := range b {
		n = max(n, len(q))
	}
	return n
}

func (b backlog) size() int {
	n := 0
	for _, q := range b {
		n += len(q)
	}
	return n
}

// step enqueues sym unless it is epsilon and then dequeues the front of the queue,
// or returns epsilon when nothing is pending.
func (b backlog) step(tape int, sym symbols.Symbol) symbols.Symbol {
	return stepBacklog(&b[tape], sym)
}

func (b backlog) pushFront(tape int, sym symbols.Symbol) {
	b[tape] = slices.Insert(b[tape], 0, sym)
}

func stepBacklog(q *[]symbols.Symbol, sym symbols.Symbol) symbols.Symbol {
	if sym != symbols.Epsilon {
		*q = append(*q, sym)
	}
	if len(*q) == 0 {
		return symbols.Epsilon
	}
	front := (*q)[0]
	*q = (*q)[1:]
	return front
}

func (b backlog) appendKey(buf []byte) []byte {
	for i, q := range b {
		if i > 0 {
			buf = append(buf, '|')
		}
		for j, sym := range q {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendUint(buf, uint64(sym), 10)
		}
	}
	return buf
}

// product is a state of the traversal: a state of each input plus the pending
// backlogs, realized as out in the output transducer.
type product struct {
	a, b  fst.StateID
	left  backlog
	right backlog
	out   fst.StateID
}

type memoKey struct {
	a, b    fst.StateID
	pending string
}

func (p *product) key() memoKey {
	buf := p.left.appendKey(nil)
	buf = append(buf, '#')
	buf = p.right.appendKey(buf)
	return memoKey{a: p.a, b: p.b, pending: string(buf)}
}
