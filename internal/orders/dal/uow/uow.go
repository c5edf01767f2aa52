package uow

import (
	"context"

	"github.com/corray333/bookstore/internal/orders/dal/db"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ideliveryrepo"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ioutboxrepo"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ipaymentrepo"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ipurchaserepo"
	deliveryrepo "github.com/corray333/bookstore/internal/orders/dal/repositories/delivery/postgres"
	outboxrepo "github.com/corray333/bookstore/internal/orders/dal/repositories/outbox/postgres"
	paymentrepo "github.com/corray333/bookstore/internal/orders/dal/repositories/payment/postgres"
	purchaserepo "github.com/corray333/bookstore/internal/orders/dal/repositories/purchase/postgres"
	"github.com/corray333/bookstore/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// unitOfWork scopes the workflow repositories to one transaction so that a
// state transition and its side effects commit or roll back together.
type unitOfWork struct {
	pool         *pgxpool.Pool
	tx           pgx.Tx
	purchaseRepo ipurchaserepo.IPurchaseRepository
	paymentRepo  ipaymentrepo.IPaymentRepository
	deliveryRepo ideliveryrepo.IDeliveryRepository
	outboxRepo   ioutboxrepo.IOutboxRepository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:         client.Pool(),
		purchaseRepo: purchaserepo.NewPurchaseRepository(client.Pool()),
		paymentRepo:  paymentrepo.NewPaymentRepository(client.Pool()),
		deliveryRepo: deliveryrepo.NewDeliveryRepository(client.Pool()),
		outboxRepo:   outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) PurchaseRepository() ipurchaserepo.IPurchaseRepository {
	return u.purchaseRepo
}

func (u *unitOfWork) PaymentRepository() ipaymentrepo.IPaymentRepository {
	return u.paymentRepo
}

func (u *unitOfWork) DeliveryRepository() ideliveryrepo.IDeliveryRepository {
	return u.deliveryRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	u.tx = tx
	u.rebind(tx)

	return nil
}

func (u *unitOfWork) rebind(conn db.DBTX) {
	u.purchaseRepo = purchaserepo.NewPurchaseRepository(conn)
	u.paymentRepo = paymentrepo.NewPaymentRepository(conn)
	u.deliveryRepo = deliveryrepo.NewDeliveryRepository(conn)
	u.outboxRepo = outboxrepo.NewOutboxRepository(conn)
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Commit(ctx)
	u.tx = nil
	u.rebind(u.pool)

	return err
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback(ctx)
	u.tx = nil
	u.rebind(u.pool)

	return err
}
