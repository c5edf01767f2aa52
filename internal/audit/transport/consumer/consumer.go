package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/corray333/bookstore/internal/audit/dal/interfaces/iinboxrepo"
	"github.com/corray333/bookstore/internal/audit/service/models/inbox"
	"github.com/corray333/bookstore/internal/orders/service/models/event"
	"github.com/corray333/bookstore/internal/rabbitmq"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// service represents the service layer interface.
type service interface {
	RecordEvent(ctx context.Context, ev event.PurchaseEvent) error
}

// Consumer represents the RabbitMQ consumer transport.
type Consumer struct {
	client    *rabbitmq.Client
	service   service
	inboxRepo iinboxrepo.IInboxRepository
	queue     amqp.Queue
	stop      chan struct{}
	done      chan struct{}
}

// NewConsumer creates a new Consumer.
func NewConsumer(
	client *rabbitmq.Client,
	service service,
	inboxRepo iinboxrepo.IInboxRepository,
) *Consumer {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		panic("rabbitmq.queue is not set in config")
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    queueName,
		Durable: true,
	})
	if err != nil {
		panic(err)
	}

	return &Consumer{
		client:    client,
		service:   service,
		inboxRepo: inboxRepo,
		queue:     queue,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run starts consuming messages from RabbitMQ.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "audit-svc"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queue.Name,
		Consumer: consumerTag,
	})
	if err != nil {
		return err
	}

	slog.Info("Consumer started", "queue", c.queue.Name, "consumer_tag", consumerTag)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(50)

	go func() {
		for {
			select {
			case <-c.stop:
				slog.Info("Stopping consumer")
				close(c.done)

				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Info("Message channel closed")
					close(c.done)

					return
				}

				g.Go(func() error {
					return c.processMessage(gctx, msg)
				})
			}
		}
	}()

	<-c.done
	if err := g.Wait(); err != nil {
		slog.Error("Error processing messages", "error", err)
	}

	return nil
}

// processMessage handles a single delivery. A malformed payload is rejected
// outright; a processing failure parks the message in the inbox so the
// delivery can be acked and retried later without blocking the queue.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.processMessage")
	defer span.End()

	slog.Info("Received message", "delivery_tag", msg.DeliveryTag)

	var ev event.PurchaseEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		slog.Error("Failed to unmarshal purchase event", "error", err)
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return err
	}

	if err := c.service.RecordEvent(ctx, ev); err != nil {
		slog.Error("Failed to record purchase event", "error", err, "event_id", ev.EventID)

		if parkErr := c.parkMessage(ctx, msg, ev, err); parkErr != nil {
			slog.Error("Failed to park message in inbox", "error", parkErr, "event_id", ev.EventID)
			if err := msg.Nack(false, true); err != nil {
				slog.Error("Failed to nack message", "error", err)
			}

			return parkErr
		}

		if err := msg.Ack(false); err != nil {
			slog.Error("Failed to ack parked message", "error", err)
		}

		return err
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return err
	}

	slog.Info("Purchase event recorded", "event_id", ev.EventID, "purchase_id", ev.PurchaseID)

	return nil
}

func (c *Consumer) parkMessage(
	ctx context.Context,
	msg amqp.Delivery,
	ev event.PurchaseEvent,
	cause error,
) error {
	maxRetries := viper.GetInt("rabbitmq.inbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	now := time.Now()

	return c.inboxRepo.Insert(ctx, inbox.InboxMessage{
		MessageID:   ev.EventID,
		QueueName:   c.queue.Name,
		RoutingKey:  msg.RoutingKey,
		Payload:     msg.Body,
		ContentType: msg.ContentType,
		MaxRetries:  maxRetries,
		LastError:   cause.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
		DeliveryTag: msg.DeliveryTag,
	})
}

// Shutdown gracefully shuts down the consumer.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down consumer")
	close(c.stop)

	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Consumer shutdown timeout")
	}

	return nil
}
