package service

import (
	"context"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/car"
	"github.com/google/uuid"
)

// FleetServiceImpl implements the FleetService interface
type FleetServiceImpl struct {
	logger  *slog.Logger
	carRepo car.Repository
}

// NewFleetService creates a new fleet service
func NewFleetService(logger *slog.Logger, carRepo car.Repository) FleetService {
	return &FleetServiceImpl{
		logger:  logger,
		carRepo: carRepo,
	}
}

// GetCar retrieves a car by ID
func (s *FleetServiceImpl) GetCar(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

// ListCars retrieves cars from the fleet, newest first
func (s *FleetServiceImpl) ListCars(ctx context.Context, limit, offset int) ([]*car.Car, error) {
	return s.carRepo.List(ctx, limit, offset)
}
