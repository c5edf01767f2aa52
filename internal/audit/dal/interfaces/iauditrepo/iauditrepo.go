package iauditrepo

import (
	"context"

	"github.com/corray333/bookstore/internal/audit/service/models/auditlog"
)

// IAuditRepository is interface for audit repository.
type IAuditRepository interface {
	SaveAuditLogs(ctx context.Context, logs []auditlog.PurchaseAuditLog) error
	ListByPurchase(ctx context.Context, purchaseID int64) ([]auditlog.PurchaseAuditLog, error)
}
