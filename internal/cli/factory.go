package cli

import (
	"log/slog"

	"github.com/aretw0/fsnt"
	"github.com/aretw0/fsnt/internal/adapters/file"
	"github.com/aretw0/fsnt/internal/adapters/redis"
	"github.com/aretw0/fsnt/internal/config"
	"github.com/aretw0/fsnt/pkg/adapters/memory"
	"github.com/aretw0/fsnt/pkg/compose"
	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/ports"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/cockroachdb/errors"
)

// OpenStore builds the store described by cfg. The returned close function releases
// backend connections and is never nil.
func OpenStore(cfg config.StoreConfig) (ports.TransducerStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Kind {
	case "memory":
		return memory.NewStore(), noop, nil
	case "file", "":
		format, ok := schema.ParseFormat(cfg.Format)
		if !ok {
			format = schema.FormatJSON
		}
		return file.New(cfg.Dir, file.WithFormat(format)), noop, nil
	case "redis":
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, store.Close, nil
	}
	return nil, noop, errors.Newf("unknown store kind %q", cfg.Kind)
}

// ComposeOptions turns the composition defaults into composer options.
func ComposeOptions(cfg config.ComposeConfig) []compose.Option {
	return []compose.Option{
		compose.WithFlagsAsEpsilon(cfg.FlagsAsEpsilon),
		compose.WithMaxStates(cfg.MaxStates),
		compose.WithMaxBacklog(cfg.MaxBacklog),
	}
}

// NewToolkit wires a Toolkit from the configuration.
func NewToolkit(cfg config.Config, store ports.TransducerStore, logger *slog.Logger, hooks ...domain.ComposeHooks) *fsnt.Toolkit {
	opts := []fsnt.Option{
		fsnt.WithStore(store),
		fsnt.WithLogger(logger),
		fsnt.WithComposeOptions(ComposeOptions(cfg.Compose)...),
	}
	for _, h := range hooks {
		opts = append(opts, fsnt.WithHooks(h))
	}
	return fsnt.New(opts...)
}
