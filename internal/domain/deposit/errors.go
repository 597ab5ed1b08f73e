package deposit

import (
	"fmt"

	"github.com/carfleet-billing/internal/domain/money"
	"github.com/google/uuid"
)

// ErrInvalidAmount is returned when a deposit amount violates the
// positive-amount rule.
type ErrInvalidAmount struct {
	Amount money.Money
	Reason string
}

func (e ErrInvalidAmount) Error() string {
	return fmt.Sprintf("invalid amount %s: %s", e.Amount, e.Reason)
}

// ErrAlreadySettled is returned when a deposit is settled a second time
type ErrAlreadySettled struct {
	DepositID uuid.UUID
	Status    Status
}

func (e ErrAlreadySettled) Error() string {
	return fmt.Sprintf("deposit %s already settled with status %s", e.DepositID, e.Status)
}

// ErrDepositNotFound is returned when no deposit exists for a rental
type ErrDepositNotFound struct {
	RentalID uuid.UUID
}

func (e ErrDepositNotFound) Error() string {
	return fmt.Sprintf("deposit for rental %s not found", e.RentalID)
}
