package ops_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/aretw0/fsnt/pkg/symbols"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRead(t *testing.T, text string) *fst.Transducer {
	t.Helper()
	tr, err := att.Read(strings.NewReader(text))
	require.NoError(t, err)
	return tr
}

func paths(t *testing.T, tr *fst.Transducer, cycles int) []string {
	t.Helper()
	got, err := ops.Expand(context.Background(), tr, cycles)
	require.NoError(t, err)
	out := make([]string, len(got))
	for i, p := range got {
		out[i] = p.String()
	}
	slices.Sort(out)
	return out
}

func TestExpand(t *testing.T) {
	tr := mustRead(t, `
0 1 a x
1 2 b @0@
0 2 c y
2
`)
	assert.Equal(t, []string{"ab:x", "c:y"}, paths(t, tr, 0))
}

func TestExpand_Cycles(t *testing.T) {
	tr := mustRead(t, "0\t0\ta\n0\n")
	assert.Equal(t, []string{""}, paths(t, tr, 0), "the initial state already counts one visit")
	assert.Equal(t, []string{"", "a"}, paths(t, tr, 1))
	assert.Equal(t, []string{"", "a", "aa", "aaa"}, paths(t, tr, 3))
}

func TestExpand_Weights(t *testing.T) {
	tr := mustRead(t, "0\t1\ta\t1.5\n1\t0.5\n")
	got, err := ops.Expand(context.Background(), tr, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 2.0, got[0].Weight, 1e-9)
}

func TestWalk_StopsOnError(t *testing.T) {
	tr := mustRead(t, "0\t1\ta\n0\t1\tb\n1\n")
	stop := errors.New("stop")
	seen := 0
	err := ops.Walk(context.Background(), tr, 0, func(ops.Path) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestExpand_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ops.Expand(ctx, mustRead(t, "0\t1\ta\n1\n"), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStrip(t *testing.T) {
	// 3 is unreachable, 2 is a dead end.
	tr := mustRead(t, `
0 1 a
0 2 b
3 1 c
1 4 d
4
`)
	got := ops.Strip(tr)
	assert.Equal(t, 3, got.Size())
	assert.Equal(t, 2, got.TransitionCount())
	assert.Equal(t, []fst.StateID{2}, got.Finals())
	assert.Equal(t, paths(t, tr, 0), paths(t, got, 0))
	assert.Equal(t, 5, tr.Size(), "input is untouched")
}

func TestStrip_KeepsStateOrder(t *testing.T) {
	// 2 is reached before 1 is visited; 4 is a dead end.
	tr := mustRead(t, `
0 2 a
2 1 b
1 3 c
2 4 d
3
`)
	got := ops.Strip(tr)
	require.Equal(t, 4, got.Size())
	edges := got.Edges(fst.Initial)
	require.Len(t, edges, 1)
	assert.Equal(t, fst.StateID(2), edges[0].Target)
	assert.Equal(t, []fst.StateID{3}, got.Finals())
	assert.Equal(t, paths(t, tr, 0), paths(t, got, 0))
}

func TestStrip_NothingAccepted(t *testing.T) {
	tr := mustRead(t, "0\t1\ta\n1\t2\tb\n")
	got := ops.Strip(tr)
	assert.Equal(t, 1, got.Size())
	assert.Empty(t, got.Finals())
	assert.Zero(t, got.TransitionCount())
}

func TestReverse(t *testing.T) {
	tr := mustRead(t, `
0 1 a x 0
1 2 b y 0
1 0.5
2 0
`)
	got := ops.Reverse(tr)
	assert.Equal(t, tr.Size()+1, got.Size())
	assert.Equal(t, []fst.StateID{fst.StateID(tr.Size())}, got.Finals())
	assert.Equal(t, []string{"a:x", "ba:yx"}, paths(t, got, 0))

	res, err := ops.Expand(context.Background(), got, 0)
	require.NoError(t, err)
	weights := map[string]float64{}
	for _, p := range res {
		weights[p.String()] = p.Weight
	}
	assert.InDelta(t, 0.5, weights["a:x"], 1e-9)
}

func TestReverse_FinalInitial(t *testing.T) {
	tr := mustRead(t, "0\t1\ta\n1\t0\tb\n0\n")
	got := ops.Reverse(tr)
	assert.Equal(t, []string{"", "ba"}, paths(t, got, 1))
}

func TestRelabel(t *testing.T) {
	tr := mustRead(t, "0\t1\ta\tb\n1\n")
	table := tr.Symbols()
	a, _ := table.Find("a")
	b, _ := table.Find("b")

	got := ops.Relabel(tr, symbols.Renaming{a: b})
	assert.Equal(t, []string{"bb"}, replaceColon(paths(t, got, 0)))
	assert.Equal(t, []string{"ab"}, replaceColon(paths(t, tr, 0)))

	byName := ops.RelabelNames(tr, map[string]string{"b": "z", "missing": "q"})
	assert.Equal(t, []string{"az"}, replaceColon(paths(t, byName, 0)))
	_, ok := tr.Symbols().Find("z")
	assert.False(t, ok)
}

func replaceColon(in []string) []string {
	for i, s := range in {
		in[i] = strings.ReplaceAll(s, ":", "")
	}
	return in
}

func TestSummarize(t *testing.T) {
	tr := mustRead(t, "0\t1\ta\tx\n1\t2\tb\t@0@\n2\n")
	assert.Equal(t, ops.Summary{
		Tapes:       []string{"Tape_1", "Tape_2"},
		States:      3,
		Transitions: 2,
		Finals:      1,
		Symbols:     3,
	}, ops.Summarize(tr))
}
