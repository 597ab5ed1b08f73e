// Package shared holds the event contract exchanged between the rental
// API and the audit projector.
package shared

import (
	"time"

	"github.com/carfleet-billing/internal/domain/money"
	"github.com/google/uuid"
)

// EventKind distinguishes the lifecycle moments that produce events
type EventKind string

const (
	EventRentalOpened  EventKind = "RENTAL_OPENED"
	EventRentalSettled EventKind = "RENTAL_SETTLED"
)

// TransactionRecord mirrors one payment ledger entry inside an event
type TransactionRecord struct {
	Type   string      `json:"type"`
	Amount money.Money `json:"amount"`
	Note   string      `json:"note"`
}

// SettlementEvent is the payload written to the outbox and published to
// Kafka whenever a rental opens or settles.
type SettlementEvent struct {
	EventID       uuid.UUID           `json:"event_id"`
	Kind          EventKind           `json:"kind"`
	RentalID      uuid.UUID           `json:"rental_id"`
	CarID         uuid.UUID           `json:"car_id"`
	RequestID     string              `json:"request_id,omitempty"`
	OccurredAt    time.Time           `json:"occurred_at"`
	InvoiceTotal  money.Money         `json:"invoice_total"`
	DepositStatus string              `json:"deposit_status,omitempty"`
	RefundAmount  money.Money         `json:"refund_amount"`
	Transactions  []TransactionRecord `json:"transactions"`
}
