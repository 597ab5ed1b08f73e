package audit

import (
	"time"

	"github.com/carfleet-billing/internal/domain/shared"
	"github.com/google/uuid"
)

// Entry is one immutable record in the rental audit trail, projected
// from settlement events into MongoDB.
type Entry struct {
	EventID       uuid.UUID        `json:"event_id" bson:"event_id"`
	Kind          shared.EventKind `json:"kind" bson:"kind"`
	RentalID      uuid.UUID        `json:"rental_id" bson:"rental_id"`
	CarID         uuid.UUID        `json:"car_id" bson:"car_id"`
	RequestID     string           `json:"request_id,omitempty" bson:"request_id,omitempty"`
	EntryType     string           `json:"entry_type" bson:"entry_type"`
	Amount        string           `json:"amount" bson:"amount"`
	Note          string           `json:"note,omitempty" bson:"note,omitempty"`
	DepositStatus string           `json:"deposit_status,omitempty" bson:"deposit_status,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at" bson:"occurred_at"`
	RecordedAt    time.Time        `json:"recorded_at" bson:"recorded_at"`
}

// FromEvent expands a settlement event into one audit entry per payment
// transaction it carries.
func FromEvent(event *shared.SettlementEvent) []*Entry {
	now := time.Now().UTC()
	entries := make([]*Entry, 0, len(event.Transactions))
	for _, tx := range event.Transactions {
		entries = append(entries, &Entry{
			EventID:       event.EventID,
			Kind:          event.Kind,
			RentalID:      event.RentalID,
			CarID:         event.CarID,
			RequestID:     event.RequestID,
			EntryType:     tx.Type,
			Amount:        tx.Amount.String(),
			Note:          tx.Note,
			DepositStatus: event.DepositStatus,
			OccurredAt:    event.OccurredAt,
			RecordedAt:    now,
		})
	}
	return entries
}
