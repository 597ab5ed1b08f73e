package rental

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrIllegalTransition is returned when a lifecycle operation is applied to
// an agreement whose current status does not permit it.
type ErrIllegalTransition struct {
	From Status
	Op   string
}

func (e ErrIllegalTransition) Error() string {
	return fmt.Sprintf("cannot %s rental in status %s", e.Op, e.From)
}

// ErrInvalidDate is returned when a supplied date violates the agreement's
// date ordering rules.
type ErrInvalidDate struct {
	Reason string
}

func (e ErrInvalidDate) Error() string {
	return fmt.Sprintf("invalid date: %s", e.Reason)
}

// ErrRentalNotFound is returned when a rental agreement doesn't exist
type ErrRentalNotFound struct {
	RentalID uuid.UUID
}

func (e ErrRentalNotFound) Error() string {
	return fmt.Sprintf("rental with ID %s not found", e.RentalID)
}
