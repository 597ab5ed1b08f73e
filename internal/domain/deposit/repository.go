package deposit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines the interface for deposit data operations
type Repository interface {
	// Create persists a new deposit
	Create(ctx context.Context, d *Deposit) error

	// GetByRentalID retrieves the deposit held against a rental
	GetByRentalID(ctx context.Context, rentalID uuid.UUID) (*Deposit, error)

	// UpdateStatus persists the deposit's settlement outcome
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) Repository
}
