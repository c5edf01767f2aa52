package inbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/corray333/bookstore/internal/audit/dal/interfaces/iinboxrepo"
	"github.com/corray333/bookstore/internal/audit/service/models/inbox"
	"github.com/corray333/bookstore/internal/orders/service/models/event"
)

// service represents the service layer interface.
type service interface {
	RecordEvent(ctx context.Context, ev event.PurchaseEvent) error
}

// Worker retries parked deliveries from the inbox table.
type Worker struct {
	inboxRepo    iinboxrepo.IInboxRepository
	service      service
	pollInterval time.Duration
	batchSize    int
	stopCh       chan struct{}
}

// NewWorker creates a new inbox worker.
func NewWorker(
	inboxRepo iinboxrepo.IInboxRepository,
	service service,
	pollInterval time.Duration,
	batchSize int,
) *Worker {
	return &Worker{
		inboxRepo:    inboxRepo,
		service:      service,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		stopCh:       make(chan struct{}),
	}
}

// Start polls the inbox until the context is canceled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Inbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Inbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Inbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.inboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from inbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Retrying inbox messages", "count", len(messages))

	for _, msg := range messages {
		w.retry(ctx, msg)
	}
}

func (w *Worker) retry(ctx context.Context, msg inbox.InboxMessage) {
	var ev event.PurchaseEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		slog.Error("Failed to unmarshal event from inbox", "error", err, "inbox_id", msg.ID)

		// A payload that never parses will never succeed. Drop it once the
		// retry budget is spent.
		newRetryCount := msg.RetryCount + 1
		if newRetryCount >= msg.MaxRetries {
			slog.Warn("Max retries reached for malformed message, deleting",
				"inbox_id", msg.ID,
				"message_id", msg.MessageID,
			)
			if err := w.inboxRepo.Delete(ctx, msg.ID); err != nil {
				slog.Error("Failed to delete message from inbox", "inbox_id", msg.ID, "error", err)
			}

			return
		}

		w.scheduleRetry(ctx, msg, newRetryCount, err)

		return
	}

	if err := w.service.RecordEvent(ctx, ev); err != nil {
		slog.Warn("Failed to record event from inbox, will retry",
			"inbox_id", msg.ID,
			"event_id", ev.EventID,
			"error", err,
		)
		w.scheduleRetry(ctx, msg, msg.RetryCount+1, err)

		return
	}

	if err := w.inboxRepo.Delete(ctx, msg.ID); err != nil {
		slog.Error("Failed to delete message from inbox after processing", "inbox_id", msg.ID, "error", err)

		return
	}

	slog.Info("Inbox message processed", "inbox_id", msg.ID, "event_id", ev.EventID)
}

func (w *Worker) scheduleRetry(ctx context.Context, msg inbox.InboxMessage, retryCount int, cause error) {
	backoffSeconds := math.Pow(2, float64(retryCount)) * 30
	nextRetryAt := time.Now().Add(time.Duration(backoffSeconds) * time.Second)

	if err := w.inboxRepo.UpdateRetry(ctx, msg.ID, retryCount, cause.Error(), nextRetryAt); err != nil {
		slog.Error("Failed to update retry information", "inbox_id", msg.ID, "error", err)
	}
}
