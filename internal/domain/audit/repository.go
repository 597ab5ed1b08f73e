package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages audit trail persistence with pagination support
type Repository interface {
	CreateMany(ctx context.Context, entries []*Entry) error
	GetByRentalID(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByRentalID(ctx context.Context, rentalID uuid.UUID) (int64, error)
	ExistsByEventID(ctx context.Context, eventID uuid.UUID) (bool, error)
}

// ErrEntryNotFound indicates a missing audit entry
type ErrEntryNotFound struct {
	RentalID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "audit entries not found for rental: " + e.RentalID.String()
}
