package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/carfleet-billing/internal/domain/outbox"
	"github.com/carfleet-billing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	message := &outbox.Message{
		EventID:   uuid.New(),
		RentalID:  uuid.New(),
		Payload:   json.RawMessage(`{"kind":"RENTAL_SETTLED"}`),
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO settlement_outbox \(event_id, rental_id, payload, status, attempts, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)
		RETURNING id
	`

	mock.ExpectQuery(query).
		WithArgs(message.EventID, message.RentalID, message.Payload, message.Status, message.Attempts, message.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, repo.Create(ctx, message))
	assert.Equal(t, int64(42), message.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	now := time.Now()

	query := `
		SELECT id, event_id, rental_id, payload, status, attempts, created_at, last_attempt_at
		FROM settlement_outbox
		WHERE status = \$1
		ORDER BY created_at ASC
		LIMIT \$2
	`

	rows := pgxmock.NewRows([]string{"id", "event_id", "rental_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}).
		AddRow(int64(1), uuid.New(), uuid.New(), json.RawMessage(`{}`), shared.OutboxStatusPending, 0, now, nil)

	mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).WillReturnRows(rows)

	messages, err := repo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, int64(1), messages[0].ID)
	assert.Equal(t, shared.OutboxStatusPending, messages[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	query := `
		UPDATE settlement_outbox
		SET status = \$1, last_attempt_at = \$2
		WHERE id = \$3
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 7, shared.OutboxStatusProcessed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, 7, shared.OutboxStatusProcessed)
		var notFound outbox.ErrMessageNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
