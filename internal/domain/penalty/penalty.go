package penalty

import (
	"fmt"
	"time"

	"github.com/carfleet-billing/internal/domain/money"
	"github.com/google/uuid"
)

// Reason classifies why a penalty was assessed
type Reason string

const (
	ReasonLateReturn   Reason = "LATE_RETURN"
	ReasonBadCondition Reason = "BAD_CONDITION"
)

// Record is a single penalty assessed against a rental at return time
type Record struct {
	ID        uuid.UUID   `json:"id"`
	RentalID  uuid.UUID   `json:"rental_id"`
	Reason    Reason      `json:"reason"`
	Amount    money.Money `json:"amount"`
	Note      string      `json:"note"`
	CreatedAt time.Time   `json:"created_at"`
}

// New creates a penalty record. The amount must be positive: a zero
// penalty is never recorded.
func New(rentalID uuid.UUID, reason Reason, amount money.Money, note string) (*Record, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount{Amount: amount}
	}
	return &Record{
		ID:        uuid.New(),
		RentalID:  rentalID,
		Reason:    reason,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ErrInvalidAmount is returned for non-positive penalty amounts
type ErrInvalidAmount struct {
	Amount money.Money
}

func (e ErrInvalidAmount) Error() string {
	return fmt.Sprintf("penalty amount must be positive, got %s", e.Amount)
}

// Total sums the amounts of a set of penalty records
func Total(records []*Record) money.Money {
	total := money.Zero()
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}
