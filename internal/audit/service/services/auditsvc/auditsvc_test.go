package auditsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corray333/bookstore/internal/audit/service/models/auditlog"
	"github.com/corray333/bookstore/internal/orders/service/models/event"
)

type fakeAuditRepo struct {
	logs []auditlog.PurchaseAuditLog
	err  error
}

func (r *fakeAuditRepo) SaveAuditLogs(_ context.Context, logs []auditlog.PurchaseAuditLog) error {
	if r.err != nil {
		return r.err
	}

	for _, l := range logs {
		if r.contains(l.EventID) {
			continue
		}
		r.logs = append(r.logs, l)
	}

	return nil
}

func (r *fakeAuditRepo) ListByPurchase(_ context.Context, purchaseID int64) ([]auditlog.PurchaseAuditLog, error) {
	var out []auditlog.PurchaseAuditLog
	for _, l := range r.logs {
		if l.PurchaseID == purchaseID {
			out = append(out, l)
		}
	}

	return out, nil
}

func (r *fakeAuditRepo) contains(eventID string) bool {
	for _, l := range r.logs {
		if l.EventID == eventID {
			return true
		}
	}

	return false
}

func TestRecordEvent(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := MustNewAuditService(WithAuditRepository(repo))

	ev := event.PurchaseEvent{
		EventID:    "evt-1",
		EventType:  event.TypePurchasePaid,
		OccurredAt: time.Now(),
		PurchaseID: 10,
		UserID:     7,
		BookID:     3,
		Quantity:   2,
		TotalPrice: 39.98,
		Status:     "Paid",
	}

	if err := svc.RecordEvent(context.Background(), ev); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	if len(repo.logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(repo.logs))
	}
	got := repo.logs[0]
	if got.EventID != "evt-1" || got.EventType != event.TypePurchasePaid || got.TotalPrice != 39.98 {
		t.Errorf("unexpected log: %+v", got)
	}
	if got.RecordedAt.IsZero() {
		t.Error("recorded_at not set")
	}
}

// Redelivering the same event must not create a second row.
func TestRecordEventIdempotent(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := MustNewAuditService(WithAuditRepository(repo))

	ev := event.PurchaseEvent{EventID: "evt-1", EventType: event.TypePurchaseCreated, PurchaseID: 10}

	if err := svc.RecordEvent(context.Background(), ev); err != nil {
		t.Fatalf("first RecordEvent: %v", err)
	}
	if err := svc.RecordEvent(context.Background(), ev); err != nil {
		t.Fatalf("second RecordEvent: %v", err)
	}

	if len(repo.logs) != 1 {
		t.Errorf("logs = %d, want 1", len(repo.logs))
	}
}

func TestRecordEventRepoFailure(t *testing.T) {
	repoErr := errors.New("db down")
	svc := MustNewAuditService(WithAuditRepository(&fakeAuditRepo{err: repoErr}))

	ev := event.PurchaseEvent{EventID: "evt-1", EventType: event.TypePurchaseCreated}
	if err := svc.RecordEvent(context.Background(), ev); !errors.Is(err, repoErr) {
		t.Fatalf("err = %v, want repo error passed through", err)
	}
}

func TestPurchaseHistory(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := MustNewAuditService(WithAuditRepository(repo))

	for i, typ := range []string{event.TypePurchaseCreated, event.TypePurchasePaid, event.TypePurchaseShipped} {
		ev := event.PurchaseEvent{EventID: string(rune('a' + i)), EventType: typ, PurchaseID: 10}
		if err := svc.RecordEvent(context.Background(), ev); err != nil {
			t.Fatalf("RecordEvent: %v", err)
		}
	}

	history, err := svc.PurchaseHistory(context.Background(), 10)
	if err != nil {
		t.Fatalf("PurchaseHistory: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("history = %d entries, want 3", len(history))
	}
}
