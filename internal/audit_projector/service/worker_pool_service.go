package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/carfleet-billing/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolProjectionService fans event projection out over an ants
// pool while keeping the caller's error semantics synchronous.
type WorkerPoolProjectionService struct {
	baseService ProjectionService
	pool        *ants.Pool
	logger      *slog.Logger
	mu          sync.Mutex
	results     map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProjectionService(
	baseService ProjectionService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProjectionService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProjectionService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProjectEvent submits an event to the worker pool and waits for the
// projection result.
func (s *WorkerPoolProjectionService) ProjectEvent(ctx context.Context, event *shared.SettlementEvent) error {
	logger := s.logger
	if event.RequestID != "" {
		logger = s.logger.With("request_id", event.RequestID)
	}

	logger.Debug("Submitting event to worker pool",
		"event_id", event.EventID.String(),
		"rental_id", event.RentalID.String(),
	)

	resultChan := make(chan error, 1)

	eventID := event.EventID.String()
	s.mu.Lock()
	s.results[eventID] = resultChan
	s.mu.Unlock()

	eventCopy := *event

	err := s.pool.Submit(func() {
		err := s.baseService.ProjectEvent(ctx, &eventCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, eventID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, eventID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit event to worker pool",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProjectionService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProjectionService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProjectionService) Capacity() int {
	return s.pool.Cap()
}
