package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/domain/deposit"
	"github.com/carfleet-billing/internal/domain/money"
	"github.com/carfleet-billing/internal/domain/payment"
	"github.com/carfleet-billing/internal/domain/rental"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type rentalFixture struct {
	db          *MockTxBeginner
	tx          *MockTx
	rentalRepo  *MockRentalRepository
	carRepo     *MockCarRepository
	inventory   *MockInventoryGateway
	depositRepo *MockDepositRepository
	paymentRepo *MockPaymentRepository
	outboxRepo  *MockOutboxRepository
	service     RentalService
}

func newRentalFixture(now time.Time) *rentalFixture {
	f := &rentalFixture{
		db:          new(MockTxBeginner),
		tx:          new(MockTx),
		rentalRepo:  new(MockRentalRepository),
		carRepo:     new(MockCarRepository),
		inventory:   new(MockInventoryGateway),
		depositRepo: new(MockDepositRepository),
		paymentRepo: new(MockPaymentRepository),
		outboxRepo:  new(MockOutboxRepository),
	}
	f.service = NewRentalService(
		newTestLogger(),
		f.db,
		fixedClock{now: now},
		f.rentalRepo,
		f.carRepo,
		f.inventory,
		f.depositRepo,
		f.paymentRepo,
		f.outboxRepo,
	)
	return f
}

func (f *rentalFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.db.AssertExpectations(t)
	f.tx.AssertExpectations(t)
	f.rentalRepo.AssertExpectations(t)
	f.carRepo.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
	f.depositRepo.AssertExpectations(t)
	f.paymentRepo.AssertExpectations(t)
	f.outboxRepo.AssertExpectations(t)
}

func TestRentalServiceImpl_CreateRental(t *testing.T) {
	ctx := context.Background()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expected := issue.AddDate(0, 0, 7)
	now := issue.Add(9 * time.Hour)

	validParams := func(carID uuid.UUID) CreateRentalParams {
		return CreateRentalParams{
			CustomerID:         uuid.New(),
			CarID:              carID,
			IssueDate:          issue,
			ExpectedReturnDate: expected,
			DepositAmount:      money.MustParse("200.00"),
		}
	}

	t.Run("Success", func(t *testing.T) {
		f := newRentalFixture(now)
		carID := uuid.New()
		vehicle := &car.Car{
			ID:             carID,
			Brand:          "Toyota",
			Model:          "Corolla",
			Class:          car.ClassEconomy,
			Year:           2024,
			BaseDailyPrice: money.MustParse("100.00"),
			Status:         car.StatusAvailable,
		}

		f.db.On("Begin", ctx).Return(f.tx, nil).Once()
		f.carRepo.On("GetByID", ctx, carID).Return(vehicle, nil).Once()
		f.rentalRepo.On("Create", ctx, mock.AnythingOfType("*rental.Agreement")).Return(nil).Once()
		f.depositRepo.On("Create", ctx, mock.MatchedBy(func(d *deposit.Deposit) bool {
			return d.Status == deposit.StatusHeld && d.Amount.String() == "200.00"
		})).Return(nil).Once()
		f.paymentRepo.On("Create", ctx, mock.MatchedBy(func(txn *payment.Transaction) bool {
			return txn.Type == payment.TypeDepositHeld && txn.Note == "Deposit collected"
		})).Return(nil).Once()
		f.inventory.On("SetStatus", ctx, carID, car.StatusRented).Return(nil).Once()
		f.rentalRepo.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), rental.StatusActive).Return(nil).Once()
		f.outboxRepo.On("Create", ctx, mock.AnythingOfType("*outbox.Message")).Return(nil).Once()
		f.tx.On("Commit", ctx).Return(nil).Once()

		agreement, err := f.service.CreateRental(ctx, validParams(carID))

		require.NoError(t, err)
		require.NotNil(t, agreement)
		assert.Equal(t, rental.StatusActive, agreement.Status)
		assert.Equal(t, carID, agreement.CarID)
		assert.Equal(t, rental.Day(issue), agreement.IssueDate)
		f.assertExpectations(t)
	})

	t.Run("CarNotAvailable", func(t *testing.T) {
		f := newRentalFixture(now)
		carID := uuid.New()
		vehicle := &car.Car{
			ID:             carID,
			BaseDailyPrice: money.MustParse("100.00"),
			Status:         car.StatusRented,
		}

		f.db.On("Begin", ctx).Return(f.tx, nil).Once()
		f.carRepo.On("GetByID", ctx, carID).Return(vehicle, nil).Once()
		f.tx.On("Rollback", ctx).Return(nil).Once()

		agreement, err := f.service.CreateRental(ctx, validParams(carID))

		assert.Nil(t, agreement)
		var unavailableErr car.ErrCarUnavailable
		require.ErrorAs(t, err, &unavailableErr)
		assert.Equal(t, car.StatusRented, unavailableErr.Status)
		f.rentalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("InvalidDateRange", func(t *testing.T) {
		f := newRentalFixture(now)
		params := validParams(uuid.New())
		params.ExpectedReturnDate = params.IssueDate

		agreement, err := f.service.CreateRental(ctx, params)

		assert.Nil(t, agreement)
		var dateErr rental.ErrInvalidDate
		require.ErrorAs(t, err, &dateErr)
		f.db.AssertNotCalled(t, "Begin", mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("NonPositiveDeposit", func(t *testing.T) {
		f := newRentalFixture(now)
		params := validParams(uuid.New())
		params.DepositAmount = money.Zero()

		agreement, err := f.service.CreateRental(ctx, params)

		assert.Nil(t, agreement)
		var amountErr deposit.ErrInvalidAmount
		require.ErrorAs(t, err, &amountErr)
		f.db.AssertNotCalled(t, "Begin", mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("RepositoryErrorRollsBack", func(t *testing.T) {
		f := newRentalFixture(now)
		carID := uuid.New()
		vehicle := &car.Car{
			ID:             carID,
			BaseDailyPrice: money.MustParse("100.00"),
			Status:         car.StatusAvailable,
		}
		repoErr := errors.New("insert failed")

		f.db.On("Begin", ctx).Return(f.tx, nil).Once()
		f.carRepo.On("GetByID", ctx, carID).Return(vehicle, nil).Once()
		f.rentalRepo.On("Create", ctx, mock.AnythingOfType("*rental.Agreement")).Return(repoErr).Once()
		f.tx.On("Rollback", ctx).Return(nil).Once()

		agreement, err := f.service.CreateRental(ctx, validParams(carID))

		assert.Nil(t, agreement)
		assert.ErrorIs(t, err, repoErr)
		f.assertExpectations(t)
	})
}

func TestRentalServiceImpl_CancelRental(t *testing.T) {
	ctx := context.Background()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := issue.Add(time.Hour)

	t.Run("CancelsDraft", func(t *testing.T) {
		f := newRentalFixture(now)
		agreement := activeAgreement(issue, issue.AddDate(0, 0, 7))
		agreement.Status = rental.StatusDraft

		f.db.On("Begin", ctx).Return(f.tx, nil).Once()
		f.rentalRepo.On("GetForUpdate", ctx, agreement.ID).Return(agreement, nil).Once()
		f.rentalRepo.On("UpdateStatus", ctx, agreement.ID, rental.StatusCancelled).Return(nil).Once()
		f.inventory.On("SetStatus", ctx, agreement.CarID, car.StatusAvailable).Return(nil).Once()
		f.tx.On("Commit", ctx).Return(nil).Once()

		err := f.service.CancelRental(ctx, agreement.ID)

		require.NoError(t, err)
		assert.Equal(t, rental.StatusCancelled, agreement.Status)
		f.assertExpectations(t)
	})

	t.Run("ActiveRentalCannotBeCancelled", func(t *testing.T) {
		f := newRentalFixture(now)
		agreement := activeAgreement(issue, issue.AddDate(0, 0, 7))

		f.db.On("Begin", ctx).Return(f.tx, nil).Once()
		f.rentalRepo.On("GetForUpdate", ctx, agreement.ID).Return(agreement, nil).Once()
		f.tx.On("Rollback", ctx).Return(nil).Once()

		err := f.service.CancelRental(ctx, agreement.ID)

		var transitionErr rental.ErrIllegalTransition
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, rental.StatusActive, transitionErr.From)
		f.inventory.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestRentalServiceImpl_GetRental(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		f := newRentalFixture(now)
		agreement := activeAgreement(now, now.AddDate(0, 0, 3))

		f.rentalRepo.On("GetByID", ctx, agreement.ID).Return(agreement, nil).Once()

		found, err := f.service.GetRental(ctx, agreement.ID)

		require.NoError(t, err)
		assert.Equal(t, agreement, found)
		f.assertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newRentalFixture(now)
		rentalID := uuid.New()

		f.rentalRepo.On("GetByID", ctx, rentalID).
			Return(nil, rental.ErrRentalNotFound{RentalID: rentalID}).Once()

		found, err := f.service.GetRental(ctx, rentalID)

		assert.Nil(t, found)
		var notFoundErr rental.ErrRentalNotFound
		require.ErrorAs(t, err, &notFoundErr)
		f.assertExpectations(t)
	})
}

func TestRentalServiceImpl_ListPayments(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		f := newRentalFixture(now)
		agreement := activeAgreement(now, now.AddDate(0, 0, 3))
		charge, err := payment.New(agreement.ID, payment.TypeRentalCharge, money.MustParse("300.00"), "Rental charge")
		require.NoError(t, err)

		f.rentalRepo.On("GetByID", ctx, agreement.ID).Return(agreement, nil).Once()
		f.paymentRepo.On("ListByRentalID", ctx, agreement.ID, 20, 0).
			Return([]*payment.Transaction{charge}, nil).Once()

		payments, err := f.service.ListPayments(ctx, agreement.ID, 20, 0)

		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, payment.TypeRentalCharge, payments[0].Type)
		f.assertExpectations(t)
	})

	t.Run("UnknownRental", func(t *testing.T) {
		f := newRentalFixture(now)
		rentalID := uuid.New()

		f.rentalRepo.On("GetByID", ctx, rentalID).
			Return(nil, rental.ErrRentalNotFound{RentalID: rentalID}).Once()

		payments, err := f.service.ListPayments(ctx, rentalID, 20, 0)

		assert.Nil(t, payments)
		var notFoundErr rental.ErrRentalNotFound
		require.ErrorAs(t, err, &notFoundErr)
		f.paymentRepo.AssertNotCalled(t, "ListByRentalID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}
