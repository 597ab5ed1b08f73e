package car

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines the interface for car data operations
type Repository interface {
	// Create persists a new car
	Create(ctx context.Context, c *Car) error

	// GetByID retrieves a car by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Car, error)

	// List retrieves cars with pagination
	List(ctx context.Context, limit, offset int) ([]*Car, error)

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) Repository
}

// InventoryGateway is the single entry point for fleet status changes
type InventoryGateway interface {
	// SetStatus transitions a car to the given status
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error

	// WithTx returns a gateway bound to the given transaction
	WithTx(tx pgx.Tx) InventoryGateway
}
