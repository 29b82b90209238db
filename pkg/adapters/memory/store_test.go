package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/fsnt/pkg/adapters/memory"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunTransducerStoreContract(t, store)
}

func TestNewFromTransducers(t *testing.T) {
	store, err := memory.NewFromTransducers(map[string]*fst.Transducer{
		"one": fst.New(1),
		"two": fst.New(2),
	})
	require.NoError(t, err)

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, names)

	two, err := store.Load(context.Background(), "two")
	require.NoError(t, err)
	assert.Equal(t, 2, two.TapeCount())
}

func TestMemoryStore_EmptyName(t *testing.T) {
	err := memory.NewStore().Save(context.Background(), "", fst.New(1))
	assert.Error(t, err)
}
