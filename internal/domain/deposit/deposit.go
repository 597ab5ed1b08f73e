package deposit

import (
	"time"

	"github.com/carfleet-billing/internal/domain/money"
	"github.com/google/uuid"
)

// Status represents the settlement state of a security deposit
type Status string

const (
	StatusHeld          Status = "HELD"
	StatusRefunded      Status = "REFUNDED"
	StatusPartialRefund Status = "PARTIAL_REFUND"
	StatusForfeited     Status = "FORFEITED"
)

// Deposit is the security amount held against a rental. It is settled
// exactly once, at return time.
type Deposit struct {
	ID        uuid.UUID   `json:"id"`
	RentalID  uuid.UUID   `json:"rental_id"`
	Amount    money.Money `json:"amount"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// New creates a HELD deposit for a rental. The amount must be positive.
func New(rentalID uuid.UUID, amount money.Money) (*Deposit, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount{Amount: amount, Reason: "deposit amount must be positive"}
	}
	now := time.Now().UTC()
	return &Deposit{
		ID:        uuid.New(),
		RentalID:  rentalID,
		Amount:    amount,
		Status:    StatusHeld,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Reconcile computes the refund owed after penalties are deducted from the
// held amount. Penalties exceeding the deposit are absorbed: the refund
// never goes negative and no receivable is raised for the difference.
func Reconcile(amount, penaltiesTotal money.Money) (money.Money, Status) {
	refund := amount.Sub(penaltiesTotal)
	switch {
	case !refund.IsPositive():
		return money.Zero(), StatusForfeited
	case penaltiesTotal.IsZero():
		return refund, StatusRefunded
	default:
		return refund, StatusPartialRefund
	}
}

// Settle applies the reconciliation outcome to a HELD deposit
func (d *Deposit) Settle(penaltiesTotal money.Money) (money.Money, error) {
	if d.Status != StatusHeld {
		return money.Zero(), ErrAlreadySettled{DepositID: d.ID, Status: d.Status}
	}
	refund, status := Reconcile(d.Amount, penaltiesTotal)
	d.Status = status
	return refund, nil
}
