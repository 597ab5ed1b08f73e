package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines the interface for payment ledger data operations
type Repository interface {
	// Create persists a new payment transaction
	Create(ctx context.Context, t *Transaction) error

	// ListByRentalID retrieves a rental's payment transactions with
	// pagination, oldest first
	ListByRentalID(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*Transaction, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) Repository
}
