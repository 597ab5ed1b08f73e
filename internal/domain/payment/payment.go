package payment

import (
	"fmt"
	"time"

	"github.com/carfleet-billing/internal/domain/money"
	"github.com/google/uuid"
)

// Type classifies a payment ledger entry
type Type string

const (
	TypeRentalCharge  Type = "RENTAL_CHARGE"
	TypeDepositHeld   Type = "DEPOSIT_HELD"
	TypeDepositRefund Type = "DEPOSIT_REFUND"
	TypePenaltyCharge Type = "PENALTY_CHARGE"
)

// Transaction is an append-only payment ledger entry for a rental.
// Entries are never updated or deleted after creation.
type Transaction struct {
	ID        uuid.UUID   `json:"id"`
	RentalID  uuid.UUID   `json:"rental_id"`
	Type      Type        `json:"type"`
	Amount    money.Money `json:"amount"`
	Note      string      `json:"note"`
	CreatedAt time.Time   `json:"created_at"`
}

// New creates a payment transaction. Amounts are stored positive; the
// entry type carries the direction.
func New(rentalID uuid.UUID, txType Type, amount money.Money, note string) (*Transaction, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount{Amount: amount}
	}
	return &Transaction{
		ID:        uuid.New(),
		RentalID:  rentalID,
		Type:      txType,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ErrInvalidAmount is returned for negative payment amounts
type ErrInvalidAmount struct {
	Amount money.Money
}

func (e ErrInvalidAmount) Error() string {
	return fmt.Sprintf("payment amount cannot be negative, got %s", e.Amount)
}
