package ports

import (
	"context"

	"github.com/aretw0/fsnt/pkg/fst"
)

// TransducerStore persists transducers under a name.
// Implementations store copies: mutating a saved or loaded transducer never affects
// the stored one.
type TransducerStore interface {
	// Save stores t under name, replacing any previous value.
	Save(ctx context.Context, name string, t *fst.Transducer) error

	// Load retrieves the transducer stored under name.
	// Returns domain.ErrTransducerNotFound if there is none.
	Load(ctx context.Context, name string) (*fst.Transducer, error)

	// Delete removes name. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)
}
