package iinboxrepo

import (
	"context"
	"time"

	"github.com/corray333/bookstore/internal/audit/service/models/inbox"
)

// IInboxRepository defines the interface for inbox operations.
type IInboxRepository interface {
	// Insert parks a failed delivery for retry
	Insert(ctx context.Context, msg inbox.InboxMessage) error

	// GetPendingMessages retrieves messages that are ready for retry
	GetPendingMessages(ctx context.Context, limit int) ([]inbox.InboxMessage, error)

	// Delete removes a message from the inbox after successful processing
	Delete(ctx context.Context, id int64) error

	// UpdateRetry updates retry count and error information
	UpdateRetry(
		ctx context.Context,
		id int64,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
