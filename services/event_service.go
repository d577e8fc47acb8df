package services

import (
	"context"
	"encoding/json"
	"fmt"
	"restoran_server/structs"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys of the domain events.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventContactCreated       = "contact.created"
	EventOrderCreated         = "order.created"
	EventOrderStatusChanged   = "order.status_changed"
)

// Event is the envelope published for every domain change.
type Event struct {
	Id         uuid.UUID `json:"id"`
	RoutingKey string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func NewEvent(routingKey string, data any) *Event {
	return &Event{
		Id:         uuid.New(),
		RoutingKey: routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NewEventPublisher connects to RabbitMQ when a URL is configured. A broker that
// cannot be reached at startup degrades to the log publisher.
func NewEventPublisher(logger *gecho.Logger, cfg *structs.EventsConfig) EventPublisher {
	if cfg.URL == "" {
		return NewLogPublisher(logger)
	}

	p, err := NewAmqpPublisher(cfg.URL, cfg.Exchange, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, events will be logged only", gecho.Field("error", err))
		return NewLogPublisher(logger)
	}
	return p
}

// AmqpPublisher publishes JSON events to a durable topic exchange.
type AmqpPublisher struct {
	url      string
	exchange string
	logger   *gecho.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAmqpPublisher(url, exchange string, logger *gecho.Logger) (*AmqpPublisher, error) {
	p := &AmqpPublisher{url: url, exchange: exchange, logger: logger}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect must be called with mu held.
func (p *AmqpPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *AmqpPublisher) Publish(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.Id.String(),
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.RoutingKey, err)
	}
	return nil
}

func (p *AmqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher records events in the log when no broker is configured.
type LogPublisher struct {
	logger *gecho.Logger
}

func NewLogPublisher(logger *gecho.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (lp *LogPublisher) Publish(ctx context.Context, event *Event) error {
	lp.logger.Debug("Domain event",
		gecho.Field("type", event.RoutingKey),
		gecho.Field("id", event.Id),
	)
	return nil
}

func (lp *LogPublisher) Close() error {
	return nil
}
