package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/carfleet-billing/internal/domain/rental"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newStoredAgreement() *rental.Agreement {
	now := time.Now()
	return &rental.Agreement{
		ID:                 uuid.New(),
		CustomerID:         uuid.New(),
		CarID:              uuid.New(),
		IssueDate:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpectedReturnDate: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		Status:             rental.StatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestRentalRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &RentalRepository{querier: mock, logger: newTestLogger()}
	a := newStoredAgreement()

	query := `
		INSERT INTO rentals \(id, customer_id, car_id, issue_date, expected_return_date, actual_return_date, status, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(a.ID, a.CustomerID, a.CarID, a.IssueDate, a.ExpectedReturnDate, a.ActualReturnDate, a.Status, a.CreatedAt, a.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repo.Create(ctx, a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(a.ID, a.CustomerID, a.CarID, a.IssueDate, a.ExpectedReturnDate, a.ActualReturnDate, a.Status, a.CreatedAt, a.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, a)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to create rental")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func rentalRows(a *rental.Agreement) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "customer_id", "car_id", "issue_date", "expected_return_date", "actual_return_date", "status", "created_at", "updated_at"}).
		AddRow(a.ID, a.CustomerID, a.CarID, a.IssueDate, a.ExpectedReturnDate, a.ActualReturnDate, a.Status, a.CreatedAt, a.UpdatedAt)
}

func TestRentalRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &RentalRepository{querier: mock, logger: newTestLogger()}
	a := newStoredAgreement()

	query := `
		SELECT id, customer_id, car_id, issue_date, expected_return_date, actual_return_date, status, created_at, updated_at
		FROM rentals
		WHERE id = \$1
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(a.ID).WillReturnRows(rentalRows(a))

		got, err := repo.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(a.ID).WillReturnError(pgx.ErrNoRows)

		got, err := repo.GetByID(ctx, a.ID)
		assert.Nil(t, got)
		var notFound rental.ErrRentalNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, a.ID, notFound.RentalID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_GetForUpdate(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &RentalRepository{querier: mock, logger: newTestLogger()}
	a := newStoredAgreement()

	query := `
		SELECT id, customer_id, car_id, issue_date, expected_return_date, actual_return_date, status, created_at, updated_at
		FROM rentals
		WHERE id = \$1
		FOR UPDATE
	`

	mock.ExpectQuery(query).WithArgs(a.ID).WillReturnRows(rentalRows(a))

	got, err := repo.GetForUpdate(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &RentalRepository{querier: mock, logger: newTestLogger()}
	id := uuid.New()

	query := `
		UPDATE rentals
		SET status = \$1, updated_at = NOW\(\)
		WHERE id = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(rental.StatusClosed, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateStatus(ctx, id, rental.StatusClosed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(rental.StatusClosed, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, id, rental.StatusClosed)
		var notFound rental.ErrRentalNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_SetActualReturnDate(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &RentalRepository{querier: mock, logger: newTestLogger()}
	id := uuid.New()
	returnDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	query := `
		UPDATE rentals
		SET actual_return_date = \$1, updated_at = NOW\(\)
		WHERE id = \$2
	`

	mock.ExpectExec(query).
		WithArgs(returnDate, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.SetActualReturnDate(ctx, id, returnDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}
