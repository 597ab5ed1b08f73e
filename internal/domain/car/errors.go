package car

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrCarNotFound is returned when a car doesn't exist
type ErrCarNotFound struct {
	CarID uuid.UUID
}

func (e ErrCarNotFound) Error() string {
	return fmt.Sprintf("car with ID %s not found", e.CarID)
}

// ErrCarUnavailable is returned when a rental is requested for a car that
// is not AVAILABLE.
type ErrCarUnavailable struct {
	CarID  uuid.UUID
	Status Status
}

func (e ErrCarUnavailable) Error() string {
	return fmt.Sprintf("car %s is not available (status %s)", e.CarID, e.Status)
}
