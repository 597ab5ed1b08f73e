package service

import (
	"context"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditServiceImpl serves the audit trail projected into MongoDB
type AuditServiceImpl struct {
	logger    *slog.Logger
	auditRepo audit.Repository
}

// NewAuditService creates a new audit service
func NewAuditService(logger *slog.Logger, auditRepo audit.Repository) AuditService {
	return &AuditServiceImpl{
		logger:    logger,
		auditRepo: auditRepo,
	}
}

// GetAuditTrail retrieves a rental's audit entries with the total count
func (s *AuditServiceImpl) GetAuditTrail(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*audit.Entry, int64, error) {
	entries, err := s.auditRepo.GetByRentalID(ctx, rentalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.auditRepo.CountByRentalID(ctx, rentalID)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}
