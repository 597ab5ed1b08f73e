package invoice

import (
	"fmt"
	"time"

	"github.com/carfleet-billing/internal/domain/money"
	"github.com/google/uuid"
)

// LineItem is a single labelled amount on an invoice
type LineItem struct {
	Description string      `json:"description"`
	Amount      money.Money `json:"amount"`
}

// Invoice is an immutable settlement document. Its total is always the
// sum of its line items.
type Invoice struct {
	id       uuid.UUID
	rentalID uuid.UUID
	items    []LineItem
	issuedAt time.Time
}

func (i Invoice) ID() uuid.UUID       { return i.id }
func (i Invoice) RentalID() uuid.UUID { return i.rentalID }
func (i Invoice) IssuedAt() time.Time { return i.issuedAt }

// Items returns a copy of the invoice's line items
func (i Invoice) Items() []LineItem {
	items := make([]LineItem, len(i.items))
	copy(items, i.items)
	return items
}

// Total sums the line items
func (i Invoice) Total() money.Money {
	total := money.Zero()
	for _, item := range i.items {
		total = total.Add(item.Amount)
	}
	return total
}

// ErrNegativeAmount is returned when a negative line item is added
type ErrNegativeAmount struct {
	Description string
	Amount      money.Money
}

func (e ErrNegativeAmount) Error() string {
	return fmt.Sprintf("invoice item %q has negative amount %s", e.Description, e.Amount)
}

// ErrBuilderConsumed is returned when a builder is reused after Build
type ErrBuilderConsumed struct{}

func (ErrBuilderConsumed) Error() string {
	return "invoice builder already consumed"
}

// Builder accumulates line items for a single invoice. A builder is
// consumed by Build and cannot be reused.
type Builder struct {
	rentalID uuid.UUID
	items    []LineItem
	consumed bool
}

// NewBuilder creates a builder for the given rental's invoice
func NewBuilder(rentalID uuid.UUID) *Builder {
	return &Builder{rentalID: rentalID}
}

// AddItem appends a line item. Zero amounts are accepted, negative
// amounts are rejected.
func (b *Builder) AddItem(description string, amount money.Money) error {
	if b.consumed {
		return ErrBuilderConsumed{}
	}
	if amount.IsNegative() {
		return ErrNegativeAmount{Description: description, Amount: amount}
	}
	b.items = append(b.items, LineItem{Description: description, Amount: amount})
	return nil
}

// Build returns the finished invoice and consumes the builder
func (b *Builder) Build() (Invoice, error) {
	if b.consumed {
		return Invoice{}, ErrBuilderConsumed{}
	}
	b.consumed = true
	items := make([]LineItem, len(b.items))
	copy(items, b.items)
	return Invoice{
		id:       uuid.New(),
		rentalID: b.rentalID,
		items:    items,
		issuedAt: time.Now().UTC(),
	}, nil
}
