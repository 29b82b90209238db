package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractTransducer(t *testing.T) *fst.Transducer {
	t.Helper()
	tr := fst.New(2)
	table := tr.Symbols()
	a, b := table.Intern("a"), table.Intern("b")
	v := table.Intern("<V>")
	require.NoError(t, table.Define(v, symbols.NewUnion(a, b), true))
	require.NoError(t, tr.SetTapeInfo("surface", fst.TapeInfo{Index: 0}))
	require.NoError(t, tr.SetTapeInfo("analysis", fst.TapeInfo{Index: 1, Flags: 2}))
	s1, err := tr.InsertTransitionNew(fst.Initial, fst.Transition{Symbols: []symbols.Symbol{a, v}, Weight: 0.5}, false)
	require.NoError(t, err)
	require.NoError(t, tr.InsertTransition(s1, s1, fst.NewTransition(b, symbols.Epsilon)))
	tr.SetFinal(s1, 1)
	return tr
}

// RunTransducerStoreContract runs a suite of tests to verify that a TransducerStore
// implementation adheres to the defined interface contract.
func RunTransducerStoreContract(t *testing.T, store TransducerStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		src := contractTransducer(t)
		require.NoError(t, store.Save(ctx, name, src), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, src.TapeCount(), loaded.TapeCount())
		assert.Equal(t, src.Size(), loaded.Size())
		assert.Equal(t, src.TapeInfos(), loaded.TapeInfos())
		assert.Equal(t, src.Symbols().Names(), loaded.Symbols().Names())
		assert.Equal(t, src.Finals(), loaded.Finals())
		assert.Equal(t, src.Edges(fst.Initial), loaded.Edges(fst.Initial))
		assert.Equal(t, src.Edges(1), loaded.Edges(1))

		v, ok := loaded.Symbols().Find("<V>")
		require.True(t, ok)
		assert.True(t, loaded.Symbols().IsDefined(v), "expansions are persisted")
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.AddState()
		loaded.SetNotFinal(1)

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 2, again.Size())
		assert.True(t, again.IsFinal(1))
	})

	t.Run("Overwrite", func(t *testing.T) {
		replacement := fst.New(1)
		require.NoError(t, store.Save(ctx, name, replacement))
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.TapeCount())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrTransducerNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractTransducer(t)))
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrTransducerNotFound, "Load after Delete should return ErrTransducerNotFound")
		assert.NoError(t, store.Delete(ctx, name), "deleting twice is fine")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-b"
		id2 := name + "-a"
		require.NoError(t, store.Save(ctx, id1, contractTransducer(t)))
		require.NoError(t, store.Save(ctx, id2, contractTransducer(t)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsIncreasing(t, names)
	})
}
