package penalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines the interface for penalty record data operations
type Repository interface {
	// Create persists a new penalty record
	Create(ctx context.Context, r *Record) error

	// ListByRentalID retrieves all penalties assessed against a rental
	ListByRentalID(ctx context.Context, rentalID uuid.UUID) ([]*Record, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) Repository
}
