package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carfleet-billing/internal/config"
	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/domain/deposit"
	"github.com/carfleet-billing/internal/domain/invoice"
	"github.com/carfleet-billing/internal/domain/money"
	"github.com/carfleet-billing/internal/domain/outbox"
	"github.com/carfleet-billing/internal/domain/payment"
	"github.com/carfleet-billing/internal/domain/penalty"
	"github.com/carfleet-billing/internal/domain/pricing"
	"github.com/carfleet-billing/internal/domain/rental"
	"github.com/carfleet-billing/internal/domain/shared"
	"github.com/google/uuid"
)

// SettlementServiceImpl settles returned rentals. Every settlement runs
// in a single database transaction with the rental row locked, so at
// most one writer ever settles a given rental.
type SettlementServiceImpl struct {
	logger      *slog.Logger
	db          TxBeginner
	clock       Clock
	engine      *pricing.Engine
	fees        config.SettlementConfig
	rentalRepo  rental.Repository
	carRepo     car.Repository
	inventory   car.InventoryGateway
	depositRepo deposit.Repository
	penaltyRepo penalty.Repository
	paymentRepo payment.Repository
	outboxRepo  outbox.Repository
}

// NewSettlementService creates the settlement service
func NewSettlementService(
	logger *slog.Logger,
	db TxBeginner,
	clock Clock,
	engine *pricing.Engine,
	fees config.SettlementConfig,
	rentalRepo rental.Repository,
	carRepo car.Repository,
	inventory car.InventoryGateway,
	depositRepo deposit.Repository,
	penaltyRepo penalty.Repository,
	paymentRepo payment.Repository,
	outboxRepo outbox.Repository,
) SettlementService {
	return &SettlementServiceImpl{
		logger:      logger,
		db:          db,
		clock:       clock,
		engine:      engine,
		fees:        fees,
		rentalRepo:  rentalRepo,
		carRepo:     carRepo,
		inventory:   inventory,
		depositRepo: depositRepo,
		penaltyRepo: penaltyRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
	}
}

// SettleReturn runs the full return settlement: record the return,
// charge the rental, assess penalties, reconcile the deposit, release
// the car, and close the agreement. Either every step commits or none
// does, and the rental's final invoice is returned.
func (s *SettlementServiceImpl) SettleReturn(ctx context.Context, params SettleReturnParams) (invoice.Invoice, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("failed to begin settlement transaction: %w", err)
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
	penaltyRepo := s.penaltyRepo.WithTx(tx)
	paymentRepo := s.paymentRepo.WithTx(tx)
	outboxRepo := s.outboxRepo.WithTx(tx)

	agreement, err := rentalRepo.GetForUpdate(ctx, params.RentalID)
	if err != nil {
		return invoice.Invoice{}, err
	}

	// Validate the lifecycle before any write: settling a closed or
	// cancelled rental must fail with an illegal transition.
	if err = agreement.ReturnCar(); err != nil {
		return invoice.Invoice{}, err
	}

	if agreement.ActualReturnDate == nil {
		returnDate := s.clock.Now()
		if params.ActualReturnDate != nil {
			returnDate = *params.ActualReturnDate
		}
		if err = agreement.MarkReturned(returnDate); err != nil {
			return invoice.Invoice{}, err
		}
		if err = rentalRepo.SetActualReturnDate(ctx, agreement.ID, *agreement.ActualReturnDate); err != nil {
			return invoice.Invoice{}, err
		}
	}

	if err = rentalRepo.UpdateStatus(ctx, agreement.ID, rental.StatusReturned); err != nil {
		return invoice.Invoice{}, err
	}

	vehicle, err := carRepo.GetByID(ctx, agreement.CarID)
	if err != nil {
		return invoice.Invoice{}, err
	}

	builder := invoice.NewBuilder(agreement.ID)
	var transactions []shared.TransactionRecord

	// Age depreciation is anchored on the issue date, so a rental
	// spanning a year boundary is priced at the age it started with.
	durationDays := agreement.DurationDays()
	rentalCharge := s.engine.Calculate(vehicle.BaseDailyPrice, durationDays, vehicle.Year, agreement.IssueDate)

	var chargeTx *payment.Transaction
	chargeTx, err = payment.New(agreement.ID, payment.TypeRentalCharge, rentalCharge, "Rental charge")
	if err != nil {
		return invoice.Invoice{}, err
	}
	if err = paymentRepo.Create(ctx, chargeTx); err != nil {
		return invoice.Invoice{}, err
	}
	if err = builder.AddItem("Rental charge", rentalCharge); err != nil {
		return invoice.Invoice{}, err
	}
	transactions = append(transactions, shared.TransactionRecord{
		Type:   string(payment.TypeRentalCharge),
		Amount: rentalCharge,
		Note:   chargeTx.Note,
	})

	var records []*penalty.Record
	if lateDays := agreement.LateDays(); lateDays > 0 {
		note := fmt.Sprintf("Late by %d day(s)", lateDays)
		var rec *penalty.Record
		rec, err = penalty.New(agreement.ID, penalty.ReasonLateReturn, s.fees.LateFeePerDay.MulInt(lateDays), note)
		if err != nil {
			return invoice.Invoice{}, err
		}
		records = append(records, rec)
	}
	if params.BadCondition {
		var rec *penalty.Record
		rec, err = penalty.New(agreement.ID, penalty.ReasonBadCondition, s.fees.BadConditionFee, "Bad condition reported")
		if err != nil {
			return invoice.Invoice{}, err
		}
		records = append(records, rec)
	}

	for _, rec := range records {
		if err = penaltyRepo.Create(ctx, rec); err != nil {
			return invoice.Invoice{}, err
		}
		if err = builder.AddItem(penaltyDescription(rec.Reason), rec.Amount); err != nil {
			return invoice.Invoice{}, err
		}
	}

	// All penalties settle as one aggregated ledger entry
	penaltiesTotal := penalty.Total(records)
	if penaltiesTotal.IsPositive() {
		var penaltyTx *payment.Transaction
		penaltyTx, err = payment.New(agreement.ID, payment.TypePenaltyCharge, penaltiesTotal, "Penalties")
		if err != nil {
			return invoice.Invoice{}, err
		}
		if err = paymentRepo.Create(ctx, penaltyTx); err != nil {
			return invoice.Invoice{}, err
		}
		transactions = append(transactions, shared.TransactionRecord{
			Type:   string(payment.TypePenaltyCharge),
			Amount: penaltiesTotal,
			Note:   penaltyTx.Note,
		})
	}

	dep, err := depositRepo.GetByRentalID(ctx, agreement.ID)
	if err != nil {
		return invoice.Invoice{}, err
	}

	var refund money.Money
	refund, err = dep.Settle(penaltiesTotal)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if err = depositRepo.UpdateStatus(ctx, dep.ID, dep.Status); err != nil {
		return invoice.Invoice{}, err
	}
	if refund.IsPositive() {
		var refundTx *payment.Transaction
		refundTx, err = payment.New(agreement.ID, payment.TypeDepositRefund, refund, "Deposit refund")
		if err != nil {
			return invoice.Invoice{}, err
		}
		if err = paymentRepo.Create(ctx, refundTx); err != nil {
			return invoice.Invoice{}, err
		}
		transactions = append(transactions, shared.TransactionRecord{
			Type:   string(payment.TypeDepositRefund),
			Amount: refund,
			Note:   refundTx.Note,
		})
	}

	// Financial mutations are done, the car can rejoin the fleet
	if err = inventory.SetStatus(ctx, agreement.CarID, car.StatusAvailable); err != nil {
		return invoice.Invoice{}, err
	}

	if err = agreement.Close(); err != nil {
		return invoice.Invoice{}, err
	}
	if err = rentalRepo.UpdateStatus(ctx, agreement.ID, rental.StatusClosed); err != nil {
		return invoice.Invoice{}, err
	}

	inv, err := builder.Build()
	if err != nil {
		return invoice.Invoice{}, err
	}

	event := &shared.SettlementEvent{
		EventID:       uuid.New(),
		Kind:          shared.EventRentalSettled,
		RentalID:      agreement.ID,
		CarID:         agreement.CarID,
		RequestID:     params.RequestID,
		OccurredAt:    s.clock.Now(),
		InvoiceTotal:  inv.Total(),
		DepositStatus: string(dep.Status),
		RefundAmount:  refund,
		Transactions:  transactions,
	}
	message, err := outbox.NewMessage(event)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("failed to build outbox message: %w", err)
	}
	if err = outboxRepo.Create(ctx, message); err != nil {
		return invoice.Invoice{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return invoice.Invoice{}, fmt.Errorf("failed to commit settlement transaction: %w", err)
	}

	s.logger.Info("Rental settled",
		"rental_id", agreement.ID.String(),
		"invoice_total", inv.Total().String(),
		"deposit_status", string(dep.Status),
		"refund", refund.String(),
	)

	return inv, nil
}

// penaltyDescription is the invoice line description for a penalty
// reason. The free-form comment stays on the penalty record itself.
func penaltyDescription(reason penalty.Reason) string {
	switch reason {
	case penalty.ReasonLateReturn:
		return "Late return penalty"
	case penalty.ReasonBadCondition:
		return "Bad condition penalty"
	default:
		return string(reason)
	}
}
