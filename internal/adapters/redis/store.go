package redis

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/cockroachdb/errors"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "fsnt:transducer:"

// Store implements ports.TransducerStore using Redis.
// Values are JSON documents; a sorted set indexes the names.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored transducers.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the transducer to Redis.
func (s *Store) Save(ctx context.Context, name string, t *fst.Transducer) error {
	if name == "" {
		return errors.New("transducer name cannot be empty")
	}
	data, err := schema.Encode(schema.FromTransducer(t), schema.FormatJSON)
	if err != nil {
		return errors.Wrap(err, "failed to encode transducer")
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(name), data, s.ttl)

	// Score is the expiry time; without a TTL it is far in the future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: name,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to save to redis")
	}
	return nil
}

// Load retrieves the transducer from Redis.
func (s *Store) Load(ctx context.Context, name string) (*fst.Transducer, error) {
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, errors.Wrapf(domain.ErrTransducerNotFound, "%s", name)
		}
		return nil, errors.Wrap(err, "failed to get from redis")
	}

	doc, err := schema.Decode(val, schema.FormatJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", name)
	}
	return doc.Transducer()
}

// Delete removes the transducer and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the live names. Expired entries are pruned from the index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to prune expired transducers")
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transducers")
	}
	slices.Sort(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
