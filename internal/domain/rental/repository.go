package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines the interface for rental agreement data operations
type Repository interface {
	// Create persists a new rental agreement
	Create(ctx context.Context, agreement *Agreement) error

	// GetByID retrieves a rental agreement by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Agreement, error)

	// GetForUpdate retrieves a rental agreement and locks its row for the
	// duration of the surrounding transaction
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Agreement, error)

	// UpdateStatus persists a lifecycle transition
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// SetActualReturnDate persists the recorded return date
	SetActualReturnDate(ctx context.Context, id uuid.UUID, actualReturnDate time.Time) error

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) Repository
}
