// Package postgres provides PostgreSQL implementations of the domain
// repositories for the rental billing system.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carfleet-billing/internal/domain/rental"
	"github.com/carfleet-billing/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RentalRepository implements the rental.Repository interface for PostgreSQL
type RentalRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewRentalRepository creates a new PostgreSQL rental repository
func NewRentalRepository(logger *slog.Logger, db *persistence.PostgresDB) rental.Repository {
	return &RentalRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so multiple repository
// calls commit or roll back together.
func (r *RentalRepository) WithTx(tx pgx.Tx) rental.Repository {
	return &RentalRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new rental agreement
func (r *RentalRepository) Create(ctx context.Context, agreement *rental.Agreement) error {
	query := `
		INSERT INTO rentals (id, customer_id, car_id, issue_date, expected_return_date, actual_return_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		agreement.ID,
		agreement.CustomerID,
		agreement.CarID,
		agreement.IssueDate,
		agreement.ExpectedReturnDate,
		agreement.ActualReturnDate,
		agreement.Status,
		agreement.CreatedAt,
		agreement.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create rental", "error", err)
		return fmt.Errorf("failed to create rental: %w", err)
	}

	return nil
}

const rentalColumns = `id, customer_id, car_id, issue_date, expected_return_date, actual_return_date, status, created_at, updated_at`

func scanRental(row pgx.Row) (*rental.Agreement, error) {
	var a rental.Agreement
	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.CarID,
		&a.IssueDate,
		&a.ExpectedReturnDate,
		&a.ActualReturnDate,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves a rental agreement by its ID
func (r *RentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*rental.Agreement, error) {
	query := `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE id = $1
	`

	a, err := scanRental(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rental.ErrRentalNotFound{RentalID: id}
		}
		r.logger.Error("Failed to get rental", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}

	return a, nil
}

// GetForUpdate obtains a pessimistic lock on the rental row and returns
// its current state. Must be called within a transaction.
func (r *RentalRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*rental.Agreement, error) {
	query := `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE id = $1
		FOR UPDATE
	`

	a, err := scanRental(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rental.ErrRentalNotFound{RentalID: id}
		}
		r.logger.Error("Failed to lock rental for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock rental for update: %w", err)
	}

	return a, nil
}

// UpdateStatus persists a lifecycle transition
func (r *RentalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status rental.Status) error {
	query := `
		UPDATE rentals
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update rental status", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update rental status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return rental.ErrRentalNotFound{RentalID: id}
	}

	return nil
}

// SetActualReturnDate persists the recorded return date
func (r *RentalRepository) SetActualReturnDate(ctx context.Context, id uuid.UUID, actualReturnDate time.Time) error {
	query := `
		UPDATE rentals
		SET actual_return_date = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, actualReturnDate, id)
	if err != nil {
		r.logger.Error("Failed to set actual return date", "id", id.String(), "error", err)
		return fmt.Errorf("failed to set actual return date: %w", err)
	}

	if result.RowsAffected() == 0 {
		return rental.ErrRentalNotFound{RentalID: id}
	}

	return nil
}
