package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/fsnt/internal/adapters/redis"
	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.TransducerStore = (*redis.Store)(nil)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ports.RunTransducerStoreContract(t, store)
}

func TestRedisStore_PrefixAndTTL(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"), redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "lexicon", fst.New(2)))
	assert.True(t, mr.Exists("test:lexicon"))
	assert.Equal(t, time.Minute, mr.TTL("test:lexicon"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "lexicon")
	assert.ErrorIs(t, err, domain.ErrTransducerNotFound)
}

func TestRedisStore_Corrupt(t *testing.T) {
	mr, client := setup(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "not json"))

	_, err := redis.NewFromClient(client).Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}
