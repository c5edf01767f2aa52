package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/bookstore/internal/identity"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ibookrepo"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ideliveryrepo"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ioutboxrepo"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ipaymentrepo"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/iproviderrepo"
	"github.com/corray333/bookstore/internal/orders/dal/interfaces/ipurchaserepo"
	"github.com/corray333/bookstore/internal/orders/dal/uow"
	"github.com/corray333/bookstore/internal/orders/service/models/book"
	"github.com/corray333/bookstore/internal/orders/service/models/delivery"
	"github.com/corray333/bookstore/internal/orders/service/models/event"
	"github.com/corray333/bookstore/internal/orders/service/models/outbox"
	"github.com/corray333/bookstore/internal/orders/service/models/payment"
	"github.com/corray333/bookstore/internal/orders/service/models/provider"
	"github.com/corray333/bookstore/internal/orders/service/models/purchase"
	"github.com/corray333/bookstore/internal/postgres"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

var (
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrDeliveryNotFound  = errors.New("delivery not found")
	ErrBookNotFound      = errors.New("book not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNotPaid           = errors.New("purchase must be paid first")
)

// unitOfWork scopes the workflow repositories to one transaction.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	PurchaseRepository() ipurchaserepo.IPurchaseRepository
	PaymentRepository() ipaymentrepo.IPaymentRepository
	DeliveryRepository() ideliveryrepo.IDeliveryRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// catalogLookup resolves a book against the authoritative catalog service.
type catalogLookup interface {
	LookupBook(ctx context.Context, id int64) (*book.Book, error)
}

// OrderService orchestrates the purchase, payment and delivery workflow.
//
// Known limitations, kept on purpose: catalog stock is never decremented or
// reserved, so concurrent purchases of the same book can oversell; paying an
// already-paid purchase succeeds again because no idempotency key exists.
type OrderService struct {
	pgClient     *postgres.Client
	catalog      catalogLookup
	providerRepo iproviderrepo.IProviderRepository
	bookRepo     ibookrepo.IBookRepository
	newUOW       func() unitOfWork
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithCatalogLookup sets the catalog collaborator for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogLookup(catalog catalogLookup) option {
	return func(s *OrderService) {
		s.catalog = catalog
	}
}

// WithProviderRepository sets the delivery provider repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProviderRepository(providerRepo iproviderrepo.IProviderRepository) option {
	return func(s *OrderService) {
		s.providerRepo = providerRepo
	}
}

// WithBookRepository sets the book mirror repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBookRepository(bookRepo ibookrepo.IBookRepository) option {
	return func(s *OrderService) {
		s.bookRepo = bookRepo
	}
}

// WithUnitOfWorkFactory overrides transaction creation.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// CreatePurchase resolves the book in the catalog, checks reported stock and
// persists a new purchase in Pending Payment. The total price is frozen at
// creation time from the price the lookup returned; later catalog changes do
// not touch it.
func (s *OrderService) CreatePurchase(
	ctx context.Context,
	caller *identity.Principal,
	bookID int64,
	quantity int,
) (*purchase.Purchase, *book.Book, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.CreatePurchase")
	defer span.End()

	if quantity <= 0 {
		return nil, nil, ErrInvalidQuantity
	}

	b, err := s.catalog.LookupBook(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}

	if b.Stock < quantity {
		return nil, nil, ErrInsufficientStock
	}

	p := purchase.Purchase{
		UserID:     caller.ID,
		BookID:     b.ID,
		Quantity:   quantity,
		TotalPrice: b.Price * float64(quantity),
		Status:     purchase.StatusPendingPayment,
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	p, err = work.PurchaseRepository().Insert(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	if err := work.OutboxRepository().Insert(ctx, newPurchaseEventMessage(event.TypePurchaseCreated, p)); err != nil {
		return nil, nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, nil, err
	}

	slog.Info("Purchase created",
		"purchase_id", p.ID,
		"user_id", p.UserID,
		"book_id", p.BookID,
		"total_price", p.TotalPrice,
	)

	return &p, b, nil
}

// ListPurchases returns the caller's own purchases.
func (s *OrderService) ListPurchases(
	ctx context.Context,
	caller *identity.Principal,
) ([]purchase.Purchase, error) {
	return s.newUOW().PurchaseRepository().ListByUser(ctx, caller.ID)
}

// GetPurchase returns one purchase. Owner or admin only.
func (s *OrderService) GetPurchase(
	ctx context.Context,
	caller *identity.Principal,
	id int64,
) (*purchase.Purchase, error) {
	p, err := s.newUOW().PurchaseRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}
	if p.UserID != caller.ID && !caller.IsAdmin {
		return nil, ErrForbidden
	}

	return p, nil
}

// CreatePayment settles a purchase. The amount always equals the frozen total
// price and the payment completes deterministically; the purchase moves to
// Paid in the same transaction. Re-paying an already-paid purchase is not
// rejected.
func (s *OrderService) CreatePayment(
	ctx context.Context,
	caller *identity.Principal,
	purchaseID int64,
	paymentMethod string,
) (*payment.Payment, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.CreatePayment")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	p, err := work.PurchaseRepository().GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}
	if p.UserID != caller.ID {
		return nil, ErrForbidden
	}

	pay := payment.Payment{
		PurchaseID:    p.ID,
		Amount:        p.TotalPrice,
		PaymentMethod: paymentMethod,
		PaymentStatus: payment.StatusCompleted,
	}

	pay, err = work.PaymentRepository().Insert(ctx, pay)
	if err != nil {
		return nil, err
	}

	if err := work.PurchaseRepository().UpdateStatus(ctx, p.ID, purchase.StatusPaid); err != nil {
		return nil, err
	}

	p.Status = purchase.StatusPaid
	if err := work.OutboxRepository().Insert(ctx, newPurchaseEventMessage(event.TypePurchasePaid, *p)); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	slog.Info("Payment processed", "payment_id", pay.ID, "purchase_id", p.ID, "amount", pay.Amount)

	return &pay, nil
}

// GetPayment returns the payment of one purchase. Owner or admin only.
func (s *OrderService) GetPayment(
	ctx context.Context,
	caller *identity.Principal,
	purchaseID int64,
) (*payment.Payment, error) {
	work := s.newUOW()

	pay, err := work.PaymentRepository().GetByPurchaseID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if pay == nil {
		return nil, ErrPaymentNotFound
	}

	p, err := work.PurchaseRepository().GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}
	if p.UserID != caller.ID && !caller.IsAdmin {
		return nil, ErrForbidden
	}

	return pay, nil
}

// CreateDelivery dispatches a paid purchase. The purchase moves to Shipped in
// the same transaction as the delivery insert.
func (s *OrderService) CreateDelivery(
	ctx context.Context,
	caller *identity.Principal,
	purchaseID, providerID int64,
	address string,
) (*delivery.Delivery, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.CreateDelivery")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	p, err := work.PurchaseRepository().GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}
	if p.UserID != caller.ID {
		return nil, ErrForbidden
	}
	if !purchase.CanTransition(p.Status, purchase.StatusShipped) {
		return nil, ErrNotPaid
	}

	d := delivery.Delivery{
		PurchaseID:     p.ID,
		ProviderID:     providerID,
		Address:        address,
		DeliveryStatus: delivery.StatusInTransit,
	}

	d, err = work.DeliveryRepository().Insert(ctx, d)
	if err != nil {
		return nil, err
	}

	if err := work.PurchaseRepository().UpdateStatus(ctx, p.ID, purchase.StatusShipped); err != nil {
		return nil, err
	}

	p.Status = purchase.StatusShipped
	if err := work.OutboxRepository().Insert(ctx, newPurchaseEventMessage(event.TypePurchaseShipped, *p)); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	slog.Info("Delivery created", "delivery_id", d.ID, "purchase_id", p.ID, "provider_id", providerID)

	return &d, nil
}

// GetDelivery returns the delivery of one purchase. Owner or admin only.
func (s *OrderService) GetDelivery(
	ctx context.Context,
	caller *identity.Principal,
	purchaseID int64,
) (*delivery.Delivery, error) {
	work := s.newUOW()

	d, err := work.DeliveryRepository().GetByPurchaseID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDeliveryNotFound
	}

	p, err := work.PurchaseRepository().GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}
	if p.UserID != caller.ID && !caller.IsAdmin {
		return nil, ErrForbidden
	}

	return d, nil
}

// ListProviders returns the delivery provider reference data.
func (s *OrderService) ListProviders(ctx context.Context) ([]provider.DeliveryProvider, error) {
	return s.providerRepo.List(ctx)
}

// SeedProviders inserts the default providers when the table is empty.
func (s *OrderService) SeedProviders(ctx context.Context) error {
	count, err := s.providerRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	providers := []provider.DeliveryProvider{
		{Name: "DHL", CoverageArea: "Internacional", Cost: 50.0},
		{Name: "FedEx", CoverageArea: "Internacional", Cost: 45.0},
		{Name: "Envía", CoverageArea: "Nacional", Cost: 20.0},
		{Name: "Servientrega", CoverageArea: "Nacional", Cost: 15.0},
	}

	if err := s.providerRepo.BulkInsert(ctx, providers); err != nil {
		return err
	}

	slog.Info("Delivery providers initialized", "count", len(providers))

	return nil
}

func newPurchaseEventMessage(eventType string, p purchase.Purchase) outbox.OutboxMessage {
	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	payload, err := json.Marshal(event.PurchaseEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		PurchaseID: p.ID,
		UserID:     p.UserID,
		BookID:     p.BookID,
		Quantity:   p.Quantity,
		TotalPrice: p.TotalPrice,
		Status:     string(p.Status),
	})
	if err != nil {
		// PurchaseEvent marshaling cannot fail on these field types.
		panic(fmt.Sprintf("failed to marshal purchase event: %v", err))
	}

	now := time.Now()

	return outbox.OutboxMessage{
		QueueName:   viper.GetString("rabbitmq.queue"),
		RoutingKey:  viper.GetString("rabbitmq.queue"),
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
}
