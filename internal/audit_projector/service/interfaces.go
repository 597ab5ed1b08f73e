package service

import (
	"context"

	"github.com/carfleet-billing/internal/domain/shared"
)

// ProjectionService turns settlement events into audit trail entries
type ProjectionService interface {
	ProjectEvent(ctx context.Context, event *shared.SettlementEvent) error
}
