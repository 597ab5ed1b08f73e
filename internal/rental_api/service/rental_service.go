package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/domain/deposit"
	"github.com/carfleet-billing/internal/domain/outbox"
	"github.com/carfleet-billing/internal/domain/payment"
	"github.com/carfleet-billing/internal/domain/rental"
	"github.com/carfleet-billing/internal/domain/shared"
	"github.com/google/uuid"
)

// RentalServiceImpl implements the RentalService interface
type RentalServiceImpl struct {
	logger      *slog.Logger
	db          TxBeginner
	clock       Clock
	rentalRepo  rental.Repository
	carRepo     car.Repository
	inventory   car.InventoryGateway
	depositRepo deposit.Repository
	paymentRepo payment.Repository
	outboxRepo  outbox.Repository
}

// NewRentalService creates a new rental service
func NewRentalService(
	logger *slog.Logger,
	db TxBeginner,
	clock Clock,
	rentalRepo rental.Repository,
	carRepo car.Repository,
	inventory car.InventoryGateway,
	depositRepo deposit.Repository,
	paymentRepo payment.Repository,
	outboxRepo outbox.Repository,
) RentalService {
	return &RentalServiceImpl{
		logger:      logger,
		db:          db,
		clock:       clock,
		rentalRepo:  rentalRepo,
		carRepo:     carRepo,
		inventory:   inventory,
		depositRepo: depositRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
	}
}

// CreateRental atomically opens a rental: the agreement is created, the
// deposit is held, the car is taken off the fleet, and the agreement is
// activated. Requires an AVAILABLE car.
func (s *RentalServiceImpl) CreateRental(ctx context.Context, params CreateRentalParams) (*rental.Agreement, error) {
	agreement, err := rental.NewAgreement(params.CustomerID, params.CarID, params.IssueDate, params.ExpectedReturnDate)
	if err != nil {
		return nil, err
	}

	dep, err := deposit.New(agreement.ID, params.DepositAmount)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rental creation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rentalRepo := s.rentalRepo.WithTx(tx)
	carRepo := s.carRepo.WithTx(tx)
	inventory := s.inventory.WithTx(tx)
	depositRepo := s.depositRepo.WithTx(tx)
	paymentRepo := s.paymentRepo.WithTx(tx)
	outboxRepo := s.outboxRepo.WithTx(tx)

	vehicle, err := carRepo.GetByID(ctx, params.CarID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != car.StatusAvailable {
		err = car.ErrCarUnavailable{CarID: vehicle.ID, Status: vehicle.Status}
		return nil, err
	}

	if err = rentalRepo.Create(ctx, agreement); err != nil {
		return nil, err
	}

	if err = depositRepo.Create(ctx, dep); err != nil {
		return nil, err
	}

	var heldTx *payment.Transaction
	heldTx, err = payment.New(agreement.ID, payment.TypeDepositHeld, dep.Amount, "Deposit collected")
	if err != nil {
		return nil, err
	}
	if err = paymentRepo.Create(ctx, heldTx); err != nil {
		return nil, err
	}

	if err = inventory.SetStatus(ctx, vehicle.ID, car.StatusRented); err != nil {
		return nil, err
	}

	if err = agreement.Activate(); err != nil {
		return nil, err
	}
	if err = rentalRepo.UpdateStatus(ctx, agreement.ID, agreement.Status); err != nil {
		return nil, err
	}

	event := &shared.SettlementEvent{
		EventID:    uuid.New(),
		Kind:       shared.EventRentalOpened,
		RentalID:   agreement.ID,
		CarID:      vehicle.ID,
		RequestID:  params.RequestID,
		OccurredAt: s.clock.Now(),
		Transactions: []shared.TransactionRecord{
			{Type: string(payment.TypeDepositHeld), Amount: dep.Amount, Note: heldTx.Note},
		},
	}
	var message *outbox.Message
	message, err = outbox.NewMessage(event)
	if err != nil {
		return nil, fmt.Errorf("failed to build outbox message: %w", err)
	}
	if err = outboxRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rental creation transaction: %w", err)
	}

	s.logger.Info("Rental created",
		"rental_id", agreement.ID.String(),
		"car_id", vehicle.ID.String(),
		"deposit", dep.Amount.String(),
	)

	return agreement, nil
}

// CancelRental cancels a DRAFT rental and releases its car. Rentals in
// any other status cannot be cancelled.
func (s *RentalServiceImpl) CancelRental(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cancellation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rentalRepo := s.rentalRepo.WithTx(tx)
	inventory := s.inventory.WithTx(tx)

	agreement, err := rentalRepo.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if agreement.Status != rental.StatusDraft {
		err = rental.ErrIllegalTransition{From: agreement.Status, Op: rental.OpClose}
		return err
	}
	if err = agreement.Close(); err != nil {
		return err
	}
	if err = rentalRepo.UpdateStatus(ctx, agreement.ID, agreement.Status); err != nil {
		return err
	}

	if err = inventory.SetStatus(ctx, agreement.CarID, car.StatusAvailable); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cancellation transaction: %w", err)
	}

	s.logger.Info("Rental cancelled", "rental_id", agreement.ID.String())
	return nil
}

// GetRental retrieves a rental agreement by ID
func (s *RentalServiceImpl) GetRental(ctx context.Context, id uuid.UUID) (*rental.Agreement, error) {
	return s.rentalRepo.GetByID(ctx, id)
}

// ListPayments retrieves a rental's payment history, oldest first
func (s *RentalServiceImpl) ListPayments(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*payment.Transaction, error) {
	if _, err := s.rentalRepo.GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByRentalID(ctx, rentalID, limit, offset)
}
