package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/domain/deposit"
	"github.com/carfleet-billing/internal/domain/outbox"
	"github.com/carfleet-billing/internal/domain/payment"
	"github.com/carfleet-billing/internal/domain/penalty"
	"github.com/carfleet-billing/internal/domain/rental"
	"github.com/carfleet-billing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns a constant time for deterministic settlement tests
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// MockTx implements the pgx.Tx interface for testing
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return &pgconn.StatementDescription{}, nil
}

func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *MockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *MockTx) Conn() *pgx.Conn {
	return nil
}

// MockTxBeginner hands out transactions like *pgxpool.Pool does
type MockTxBeginner struct {
	mock.Mock
}

func (m *MockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, agreement *rental.Agreement) error {
	args := m.Called(ctx, agreement)
	return args.Error(0)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*rental.Agreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Agreement), args.Error(1)
}

func (m *MockRentalRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*rental.Agreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Agreement), args.Error(1)
}

func (m *MockRentalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status rental.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRentalRepository) SetActualReturnDate(ctx context.Context, id uuid.UUID, returned time.Time) error {
	args := m.Called(ctx, id, returned)
	return args.Error(0)
}

func (m *MockRentalRepository) WithTx(tx pgx.Tx) rental.Repository {
	return m
}

type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) Create(ctx context.Context, c *car.Car) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCarRepository) GetByID(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*car.Car), args.Error(1)
}

func (m *MockCarRepository) List(ctx context.Context, limit, offset int) ([]*car.Car, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*car.Car), args.Error(1)
}

func (m *MockCarRepository) WithTx(tx pgx.Tx) car.Repository {
	return m
}

type MockInventoryGateway struct {
	mock.Mock
}

func (m *MockInventoryGateway) SetStatus(ctx context.Context, carID uuid.UUID, status car.Status) error {
	args := m.Called(ctx, carID, status)
	return args.Error(0)
}

func (m *MockInventoryGateway) WithTx(tx pgx.Tx) car.InventoryGateway {
	return m
}

type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, dep *deposit.Deposit) error {
	args := m.Called(ctx, dep)
	return args.Error(0)
}

func (m *MockDepositRepository) GetByRentalID(ctx context.Context, rentalID uuid.UUID) (*deposit.Deposit, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deposit.Deposit), args.Error(1)
}

func (m *MockDepositRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status deposit.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDepositRepository) WithTx(tx pgx.Tx) deposit.Repository {
	return m
}

type MockPenaltyRepository struct {
	mock.Mock
}

func (m *MockPenaltyRepository) Create(ctx context.Context, rec *penalty.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockPenaltyRepository) ListByRentalID(ctx context.Context, rentalID uuid.UUID) ([]*penalty.Record, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*penalty.Record), args.Error(1)
}

func (m *MockPenaltyRepository) WithTx(tx pgx.Tx) penalty.Repository {
	return m
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, txn *payment.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByRentalID(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*payment.Transaction, error) {
	args := m.Called(ctx, rentalID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

func (m *MockPaymentRepository) WithTx(tx pgx.Tx) payment.Repository {
	return m
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return m
}

var (
	_ rental.Repository    = (*MockRentalRepository)(nil)
	_ car.Repository       = (*MockCarRepository)(nil)
	_ car.InventoryGateway = (*MockInventoryGateway)(nil)
	_ deposit.Repository   = (*MockDepositRepository)(nil)
	_ penalty.Repository   = (*MockPenaltyRepository)(nil)
	_ payment.Repository   = (*MockPaymentRepository)(nil)
	_ outbox.Repository    = (*MockOutboxRepository)(nil)
)
