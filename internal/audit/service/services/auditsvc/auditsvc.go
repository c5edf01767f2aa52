package auditsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/bookstore/internal/audit/dal/interfaces/iauditrepo"
	"github.com/corray333/bookstore/internal/audit/service/models/auditlog"
	"github.com/corray333/bookstore/internal/orders/service/models/event"
	"go.opentelemetry.io/otel"
)

// AuditService records purchase lifecycle events into the audit log.
type AuditService struct {
	auditRepo iauditrepo.IAuditRepository
}

// option is a function that configures the AuditService.
type option func(*AuditService)

// MustNewAuditService creates a new AuditService.
func MustNewAuditService(opts ...option) *AuditService {
	s := &AuditService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithAuditRepository sets the audit repository for the AuditService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(auditRepo iauditrepo.IAuditRepository) option {
	return func(s *AuditService) {
		s.auditRepo = auditRepo
	}
}

// RecordEvent writes one purchase event to the audit log. Duplicate event ids
// are absorbed by the repository, so calling this twice for the same delivery
// is safe.
func (s *AuditService) RecordEvent(ctx context.Context, ev event.PurchaseEvent) error {
	ctx, span := otel.Tracer("service").Start(ctx, "AuditService.RecordEvent")
	defer span.End()

	slog.Info("Recording purchase event",
		"event_id", ev.EventID,
		"event_type", ev.EventType,
		"purchase_id", ev.PurchaseID,
	)

	entry := auditlog.PurchaseAuditLog{
		EventID:    ev.EventID,
		EventType:  ev.EventType,
		PurchaseID: ev.PurchaseID,
		UserID:     ev.UserID,
		BookID:     ev.BookID,
		Quantity:   ev.Quantity,
		TotalPrice: ev.TotalPrice,
		Status:     ev.Status,
		OccurredAt: ev.OccurredAt,
		RecordedAt: time.Now(),
	}

	if err := s.auditRepo.SaveAuditLogs(ctx, []auditlog.PurchaseAuditLog{entry}); err != nil {
		slog.Error("Failed to save audit log", "event_id", ev.EventID, "error", err)

		return err
	}

	return nil
}

// PurchaseHistory returns the recorded event trail of one purchase.
func (s *AuditService) PurchaseHistory(
	ctx context.Context,
	purchaseID int64,
) ([]auditlog.PurchaseAuditLog, error) {
	return s.auditRepo.ListByPurchase(ctx, purchaseID)
}
