package service

import (
	"context"
	"time"

	"github.com/carfleet-billing/internal/domain/audit"
	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/domain/invoice"
	"github.com/carfleet-billing/internal/domain/money"
	"github.com/carfleet-billing/internal/domain/payment"
	"github.com/carfleet-billing/internal/domain/rental"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxBeginner starts database transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Clock provides the current time, injectable for deterministic tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// CreateRentalParams carries the input for opening a rental
type CreateRentalParams struct {
	CustomerID         uuid.UUID
	CarID              uuid.UUID
	IssueDate          time.Time
	ExpectedReturnDate time.Time
	DepositAmount      money.Money
	RequestID          string
}

// SettleReturnParams carries the input for settling a return
type SettleReturnParams struct {
	RentalID         uuid.UUID
	ActualReturnDate *time.Time
	BadCondition     bool
	RequestID        string
}

// RentalService manages the rental lifecycle outside of settlement
type RentalService interface {
	CreateRental(ctx context.Context, params CreateRentalParams) (*rental.Agreement, error)
	CancelRental(ctx context.Context, id uuid.UUID) error
	GetRental(ctx context.Context, id uuid.UUID) (*rental.Agreement, error)
	ListPayments(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*payment.Transaction, error)
}

// SettlementService runs the atomic return settlement
type SettlementService interface {
	SettleReturn(ctx context.Context, params SettleReturnParams) (invoice.Invoice, error)
}

// FleetService exposes read access to the car fleet
type FleetService interface {
	GetCar(ctx context.Context, id uuid.UUID) (*car.Car, error)
	ListCars(ctx context.Context, limit, offset int) ([]*car.Car, error)
}

// AuditService serves the projected audit trail
type AuditService interface {
	GetAuditTrail(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*audit.Entry, int64, error)
}
