package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carfleet-billing/internal/domain/audit"
)

const (
	// AuditCollectionName is the name of the audit trail collection in MongoDB
	AuditCollectionName = "audit_entries"
)

// AuditRepository implements the audit.Repository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) audit.Repository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// CreateMany stores a batch of audit entries projected from one event
func (r *AuditRepository) CreateMany(ctx context.Context, entries []*audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	collection := r.db.Collection(AuditCollectionName)

	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		docs[i] = e
	}

	if _, err := collection.InsertMany(ctx, docs); err != nil {
		r.logger.Error("Failed to create audit entries",
			"event_id", entries[0].EventID.String(),
			"error", err)
		return fmt.Errorf("failed to create audit entries: %w", err)
	}

	return nil
}

// GetByRentalID retrieves paginated audit entries for a rental, oldest first
func (r *AuditRepository) GetByRentalID(ctx context.Context, rentalID uuid.UUID, limit, offset int) ([]*audit.Entry, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"rental_id": rentalID}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": 1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get audit entries",
			"rental_id", rentalID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*audit.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode audit entries",
			"rental_id", rentalID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}

	return entries, nil
}

// CountByRentalID counts the audit entries recorded for a rental
func (r *AuditRepository) CountByRentalID(ctx context.Context, rentalID uuid.UUID) (int64, error) {
	collection := r.db.Collection(AuditCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"rental_id": rentalID})
	if err != nil {
		r.logger.Error("Failed to count audit entries",
			"rental_id", rentalID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return count, nil
}

// ExistsByEventID reports whether an event was already projected, making
// the projection idempotent under redelivery.
func (r *AuditRepository) ExistsByEventID(ctx context.Context, eventID uuid.UUID) (bool, error) {
	collection := r.db.Collection(AuditCollectionName)

	var entry audit.Entry
	err := collection.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		r.logger.Error("Failed to check audit entry existence",
			"event_id", eventID.String(),
			"error", err)
		return false, fmt.Errorf("failed to check audit entry existence: %w", err)
	}

	return true, nil
}
