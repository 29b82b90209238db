package compose

import (
	"log/slog"

	"github.com/aretw0/fsnt/pkg/domain"
)

// Option configures a Composer.
type Option func(*Composer)

// WithFlagsAsEpsilon makes flag diacritics match like epsilon on glued tapes.
func WithFlagsAsEpsilon(enabled bool) Option {
	return func(c *Composer) {
		c.flagsAsEpsilon = enabled
	}
}

// WithMaxStates aborts the traversal with domain.ErrResourceExhausted once the output
// would exceed n states. Zero disables the ceiling.
func WithMaxStates(n int) Option {
	return func(c *Composer) {
		c.maxStates = n
	}
}

// WithMaxBacklog aborts the traversal once a single tape backlog would hold more than
// n symbols. Zero disables the ceiling.
func WithMaxBacklog(n int) Option {
	return func(c *Composer) {
		c.maxBacklog = n
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated calls chain the hooks.
func WithHooks(hooks domain.ComposeHooks) Option {
	return func(c *Composer) {
		c.hooks = c.hooks.Merge(hooks)
	}
}
