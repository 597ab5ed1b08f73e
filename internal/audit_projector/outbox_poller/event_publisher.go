package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/outbox"
	"github.com/carfleet-billing/internal/domain/shared"
	"github.com/carfleet-billing/internal/platform/messaging/producers"
)

// EventPublisher pushes drained outbox messages onto the settlement topic
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// EventPublisherImpl implements EventPublisher
type EventPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	logger *slog.Logger,
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
) EventPublisher {
	return &EventPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent publishes a single outbox message to Kafka and marks it
// PROCESSED. Messages keyed by rental ID keep a rental's events ordered
// within one partition.
func (p *EventPublisherImpl) PublishEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetSettlementEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal settlement event from outbox payload",
			"outbox_id", message.ID, "event_id", message.EventID.String(), "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if event.RequestID != "" {
		logger = p.logger.With("request_id", event.RequestID)
	}

	if err := p.producer.Publish(ctx, event.RentalID.String(), event); err != nil {
		logger.Error("Failed to publish settlement event",
			"outbox_id", message.ID, "event_id", event.EventID.String(), "error", err,
		)
		return fmt.Errorf("failed to publish settlement event %s: %w", event.EventID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", event.EventID.String(), "error", err,
		)
		return fmt.Errorf("event %s published, but failed to mark outbox %d as PROCESSED: %w", event.EventID, message.ID, err)
	}

	logger.Info("Outbox message published and marked as PROCESSED", "outbox_id", message.ID, "event_id", event.EventID.String())
	return nil
}
