package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CarRepository implements the car.Repository interface for PostgreSQL
type CarRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCarRepository creates a new PostgreSQL car repository
func NewCarRepository(logger *slog.Logger, db *persistence.PostgresDB) car.Repository {
	return &CarRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *CarRepository) WithTx(tx pgx.Tx) car.Repository {
	return &CarRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new car
func (r *CarRepository) Create(ctx context.Context, c *car.Car) error {
	query := `
		INSERT INTO cars (id, brand, model, class, year, base_daily_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		c.ID,
		c.Brand,
		c.Model,
		c.Class,
		c.Year,
		c.BaseDailyPrice,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create car", "error", err)
		return fmt.Errorf("failed to create car: %w", err)
	}

	return nil
}

// GetByID retrieves a car by its ID
func (r *CarRepository) GetByID(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	query := `
		SELECT id, brand, model, class, year, base_daily_price, status, created_at, updated_at
		FROM cars
		WHERE id = $1
	`

	var c car.Car
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Brand,
		&c.Model,
		&c.Class,
		&c.Year,
		&c.BaseDailyPrice,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, car.ErrCarNotFound{CarID: id}
		}
		r.logger.Error("Failed to get car", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	return &c, nil
}

// List retrieves cars with pagination, newest first
func (r *CarRepository) List(ctx context.Context, limit, offset int) ([]*car.Car, error) {
	query := `
		SELECT id, brand, model, class, year, base_daily_price, status, created_at, updated_at
		FROM cars
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list cars", "error", err)
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	var cars []*car.Car
	for rows.Next() {
		var c car.Car
		if err := rows.Scan(
			&c.ID,
			&c.Brand,
			&c.Model,
			&c.Class,
			&c.Year,
			&c.BaseDailyPrice,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan car row: %w", err)
		}
		cars = append(cars, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate car rows: %w", err)
	}

	return cars, nil
}

// CarInventoryGateway implements car.InventoryGateway for PostgreSQL
type CarInventoryGateway struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCarInventoryGateway creates the fleet status gateway
func NewCarInventoryGateway(logger *slog.Logger, db *persistence.PostgresDB) car.InventoryGateway {
	return &CarInventoryGateway{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (g *CarInventoryGateway) WithTx(tx pgx.Tx) car.InventoryGateway {
	return &CarInventoryGateway{
		querier: tx,
		logger:  g.logger,
	}
}

// SetStatus transitions a car's fleet status
func (g *CarInventoryGateway) SetStatus(ctx context.Context, id uuid.UUID, status car.Status) error {
	query := `
		UPDATE cars
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := g.querier.Exec(ctx, query, status, id)
	if err != nil {
		g.logger.Error("Failed to set car status", "id", id.String(), "status", status, "error", err)
		return fmt.Errorf("failed to set car status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return car.ErrCarNotFound{CarID: id}
	}

	return nil
}
