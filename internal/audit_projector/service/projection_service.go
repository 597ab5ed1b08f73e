package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/audit"
	"github.com/carfleet-billing/internal/domain/shared"
)

// ProjectionServiceImpl implements the ProjectionService interface
type ProjectionServiceImpl struct {
	logger    *slog.Logger
	auditRepo audit.Repository
}

// NewProjectionService creates a new projection service
func NewProjectionService(logger *slog.Logger, auditRepo audit.Repository) ProjectionService {
	return &ProjectionServiceImpl{
		logger:    logger,
		auditRepo: auditRepo,
	}
}

// ProjectEvent writes one audit entry per transaction in the event.
// Events are deduplicated by event ID, so Kafka redeliveries after a
// missed offset commit do not duplicate the trail.
func (s *ProjectionServiceImpl) ProjectEvent(ctx context.Context, event *shared.SettlementEvent) error {
	exists, err := s.auditRepo.ExistsByEventID(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check audit trail for event %s: %w", event.EventID, err)
	}
	if exists {
		s.logger.Info("Event already projected, skipping",
			"event_id", event.EventID.String(),
			"rental_id", event.RentalID.String(),
		)
		return nil
	}

	entries := audit.FromEvent(event)
	if len(entries) == 0 {
		s.logger.Warn("Event carries no transactions, nothing to project",
			"event_id", event.EventID.String(),
			"rental_id", event.RentalID.String(),
		)
		return nil
	}

	if err := s.auditRepo.CreateMany(ctx, entries); err != nil {
		return fmt.Errorf("failed to write audit entries for event %s: %w", event.EventID, err)
	}

	s.logger.Info("Projected settlement event into audit trail",
		"event_id", event.EventID.String(),
		"rental_id", event.RentalID.String(),
		"kind", string(event.Kind),
		"entries", len(entries),
	)
	return nil
}
