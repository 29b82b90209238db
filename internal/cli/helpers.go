package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/fsnt/internal/logging"
	"github.com/aretw0/fsnt/pkg/domain"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger.
// Debug forces debug level; otherwise level and format come from the configuration.
// Logs always go to Stderr so that Stdout can carry transducers.
func CreateLogger(debug bool, level, format string) (*slog.Logger, error) {
	if debug {
		return logging.NewWithWriter(os.Stderr, slog.LevelDebug, format), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, lvl, format), nil
}

// PrintSystemMessage prints a standardized system message.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// DebugHooks logs every composition event at debug level.
func DebugHooks(logger *slog.Logger) domain.ComposeHooks {
	return domain.ComposeHooks{
		OnStart: func(ctx context.Context, e *domain.ComposeEvent) {
			logger.Debug("Compose Start", "left_tapes", e.LeftTapes, "right_tapes", e.RightTapes, "glue", e.Glue)
		},
		OnStateAdded: func(ctx context.Context, e *domain.StateEvent) {
			logger.Debug("State Added", "left", e.Left, "right", e.Right, "output", e.Output, "backlog", e.Backlog, "queue", e.QueueDepth)
		},
		OnFinish: func(ctx context.Context, e *domain.ComposeEvent) {
			if e.Err != nil {
				logger.Debug("Compose Failed", "err", e.Err, "states", e.States)
				return
			}
			logger.Debug("Compose Finished", "states", e.States, "transitions", e.Transitions, "rejected", e.Rejected, "duration", e.Duration)
		},
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
