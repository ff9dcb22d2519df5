package ports

import (
	"context"

	"github.com/aretw0/modfsm/pkg/domain"
)

// AutomatonStore persists automaton definitions keyed by modulus.
type AutomatonStore interface {
	// Save stores the definition built for modulus, replacing any previous one.
	Save(ctx context.Context, modulus int, def *domain.Definition) error

	// Load retrieves the definition for modulus.
	// Returns domain.ErrAutomatonNotFound if nothing is stored.
	Load(ctx context.Context, modulus int) (*domain.Definition, error)

	// Delete removes the definition for modulus. Deleting a missing entry is not an error.
	Delete(ctx context.Context, modulus int) error

	// List returns the moduli currently stored, in ascending order.
	List(ctx context.Context) ([]int, error)
}
