package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/penalty"
	"github.com/carfleet-billing/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PenaltyRepository implements the penalty.Repository interface for PostgreSQL
type PenaltyRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPenaltyRepository creates a new PostgreSQL penalty repository
func NewPenaltyRepository(logger *slog.Logger, db *persistence.PostgresDB) penalty.Repository {
	return &PenaltyRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *PenaltyRepository) WithTx(tx pgx.Tx) penalty.Repository {
	return &PenaltyRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new penalty record
func (r *PenaltyRepository) Create(ctx context.Context, rec *penalty.Record) error {
	query := `
		INSERT INTO penalties (id, rental_id, reason, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		rec.ID,
		rec.RentalID,
		rec.Reason,
		rec.Amount,
		rec.Note,
		rec.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create penalty record", "error", err)
		return fmt.Errorf("failed to create penalty record: %w", err)
	}

	return nil
}

// ListByRentalID retrieves all penalties assessed against a rental
func (r *PenaltyRepository) ListByRentalID(ctx context.Context, rentalID uuid.UUID) ([]*penalty.Record, error) {
	query := `
		SELECT id, rental_id, reason, amount, note, created_at
		FROM penalties
		WHERE rental_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, rentalID)
	if err != nil {
		r.logger.Error("Failed to list penalties", "rental_id", rentalID.String(), "error", err)
		return nil, fmt.Errorf("failed to list penalties: %w", err)
	}
	defer rows.Close()

	var records []*penalty.Record
	for rows.Next() {
		var rec penalty.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.RentalID,
			&rec.Reason,
			&rec.Amount,
			&rec.Note,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan penalty row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate penalty rows: %w", err)
	}

	return records, nil
}
