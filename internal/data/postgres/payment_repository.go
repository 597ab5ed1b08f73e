package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/payment"
	"github.com/carfleet-billing/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository implements the payment.Repository interface for PostgreSQL
type PaymentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPaymentRepository creates a new PostgreSQL payment repository
func NewPaymentRepository(logger *slog.Logger, db *persistence.PostgresDB) payment.Repository {
	return &PaymentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *PaymentRepository) WithTx(tx pgx.Tx) payment.Repository {
	return &PaymentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new payment transaction. Entries are append-only:
// there is no update or delete path.
func (r *PaymentRepository) Create(ctx context.Context, t *payment.Transaction) error {
	query := `
		INSERT INTO payment_transactions (id, rental_id, type, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		t.ID,
		t.RentalID,
		t.Type,
		t.Amount,
		t.Note,
		t.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create payment transaction", "error", err)
		return fmt.Errorf("failed to create payment transaction: %w", err)
	}

	return nil
}

// ListByRentalID retrieves a rental's payment transactions, oldest first
func (r *PaymentRepository) ListByRentalID(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*payment.Transaction, error) {
	query := `
		SELECT id, rental_id, type, amount, note, created_at
		FROM payment_transactions
		WHERE rental_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, rentalID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list payment transactions", "rental_id", rentalID.String(), "error", err)
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*payment.Transaction
	for rows.Next() {
		var t payment.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.RentalID,
			&t.Type,
			&t.Amount,
			&t.Note,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment transaction row: %w", err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment transaction rows: %w", err)
	}

	return transactions, nil
}
