package fsnt

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/fsnt/pkg/adapters/memory"
	"github.com/aretw0/fsnt/pkg/compose"
	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/aretw0/fsnt/pkg/ports"
	"github.com/cockroachdb/errors"
)

// Toolkit is the high-level entry point for the library.
// It binds composition and path expansion to a transducer store.
type Toolkit struct {
	store       ports.TransducerStore
	hooks       domain.ComposeHooks
	composeOpts []compose.Option
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Toolkit.
type Option func(*Toolkit)

// WithStore sets the backing store. Defaults to an in-memory store.
func WithStore(s ports.TransducerStore) Option {
	return func(k *Toolkit) {
		k.store = s
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Toolkit) {
		k.logger = logger
	}
}

// WithHooks registers composition observability hooks. Repeated calls chain the hooks.
func WithHooks(hooks domain.ComposeHooks) Option {
	return func(k *Toolkit) {
		k.hooks = k.hooks.Merge(hooks)
	}
}

// WithComposeOptions adds options applied to every composition, such as ceilings.
func WithComposeOptions(opts ...compose.Option) Option {
	return func(k *Toolkit) {
		k.composeOpts = append(k.composeOpts, opts...)
	}
}

// New initializes a Toolkit.
func New(opts ...Option) *Toolkit {
	k := &Toolkit{}
	for _, opt := range opts {
		opt(k)
	}
	if k.store == nil {
		k.store = memory.NewStore()
	}
	if k.logger == nil {
		k.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return k
}

// Store returns the backing store.
func (k *Toolkit) Store() ports.TransducerStore {
	return k.store
}

// Compose composes a and b over glue. Per-call options are applied after the
// toolkit-wide ones.
func (k *Toolkit) Compose(ctx context.Context, a, b *fst.Transducer, glue []compose.Glue, opts ...compose.Option) (*fst.Transducer, error) {
	all := []compose.Option{compose.WithLogger(k.logger), compose.WithHooks(k.hooks)}
	all = append(all, k.composeOpts...)
	all = append(all, opts...)
	return compose.Compose(ctx, a, b, glue, all...)
}

// ComposeRequest names two stored transducers to compose.
type ComposeRequest struct {
	Left           string         `json:"left" yaml:"left"`
	Right          string         `json:"right" yaml:"right"`
	Glue           []compose.Glue `json:"glue" yaml:"glue"`
	Output         string         `json:"output,omitempty" yaml:"output,omitempty"`
	Strip          bool           `json:"strip,omitempty" yaml:"strip,omitempty"`
	// FlagsAsEpsilon overrides the toolkit's compose options when set.
	FlagsAsEpsilon *bool `json:"flags_as_epsilon,omitempty" yaml:"flags_as_epsilon,omitempty"`
}

// ComposeStored loads both sides from the store, composes them and, when Output is
// set, saves the result under that name.
func (k *Toolkit) ComposeStored(ctx context.Context, req ComposeRequest) (*fst.Transducer, error) {
	if req.Left == "" || req.Right == "" {
		return nil, errors.New("both left and right transducer names are required")
	}
	left, err := k.store.Load(ctx, req.Left)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load left transducer")
	}
	right, err := k.store.Load(ctx, req.Right)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load right transducer")
	}

	var opts []compose.Option
	if req.FlagsAsEpsilon != nil {
		opts = append(opts, compose.WithFlagsAsEpsilon(*req.FlagsAsEpsilon))
	}
	out, err := k.Compose(ctx, left, right, req.Glue, opts...)
	if err != nil {
		return nil, err
	}
	if req.Strip {
		out = ops.Strip(out)
	}

	if req.Output != "" {
		if err := k.store.Save(ctx, req.Output, out); err != nil {
			return nil, errors.Wrap(err, "failed to save composition")
		}
		k.logger.Info("Composition stored", "left", req.Left, "right", req.Right, "output", req.Output, "states", out.Size())
	}
	return out, nil
}

// Expand lists the paths of a stored transducer. See ops.Expand for maxCycles.
func (k *Toolkit) Expand(ctx context.Context, name string, maxCycles int) ([]ops.Path, error) {
	t, err := k.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return ops.Expand(ctx, t, maxCycles)
}
