package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/deposit"
	"github.com/carfleet-billing/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DepositRepository implements the deposit.Repository interface for PostgreSQL
type DepositRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewDepositRepository creates a new PostgreSQL deposit repository
func NewDepositRepository(logger *slog.Logger, db *persistence.PostgresDB) deposit.Repository {
	return &DepositRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *DepositRepository) WithTx(tx pgx.Tx) deposit.Repository {
	return &DepositRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new deposit
func (r *DepositRepository) Create(ctx context.Context, d *deposit.Deposit) error {
	query := `
		INSERT INTO deposits (id, rental_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		d.ID,
		d.RentalID,
		d.Amount,
		d.Status,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create deposit", "error", err)
		return fmt.Errorf("failed to create deposit: %w", err)
	}

	return nil
}

// GetByRentalID retrieves the deposit held against a rental
func (r *DepositRepository) GetByRentalID(ctx context.Context, rentalID uuid.UUID) (*deposit.Deposit, error) {
	query := `
		SELECT id, rental_id, amount, status, created_at, updated_at
		FROM deposits
		WHERE rental_id = $1
	`

	var d deposit.Deposit
	err := r.querier.QueryRow(ctx, query, rentalID).Scan(
		&d.ID,
		&d.RentalID,
		&d.Amount,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, deposit.ErrDepositNotFound{RentalID: rentalID}
		}
		r.logger.Error("Failed to get deposit", "rental_id", rentalID.String(), "error", err)
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}

	return &d, nil
}

// UpdateStatus persists the deposit's settlement outcome
func (r *DepositRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status deposit.Status) error {
	query := `
		UPDATE deposits
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update deposit status", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update deposit status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("deposit %s not found", id)
	}

	return nil
}
