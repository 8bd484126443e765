package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"rentalhub/internal/common"

	"github.com/streadway/amqp"
)

// Routing keys published on the topic exchange.
const (
	PropertyCreated      = "property.created"
	PropertyUpdated      = "property.updated"
	PropertyDeleted      = "property.deleted"
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	BookingCancelled     = "booking.cancelled"
	BookingCompleted     = "booking.completed"
	ReviewCreated        = "review.created"
	UserDeactivated      = "user.deactivated"
)

// Event is the message body for every domain event.
type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	PropertyID string    `json:"property_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers domain events. Publish failures never fail the
// operation that produced the event; callers log and continue.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event. Used when RABBITMQ_URL is unset.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// RabbitMQPublisher publishes JSON events to a durable topic exchange.
type RabbitMQPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
}

// NewRabbitMQPublisher dials rabbitURL and declares the exchange.
func NewRabbitMQPublisher(rabbitURL, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("RabbitMQ publisher ready on exchange '%s'", exchange)

	return &RabbitMQPublisher{connection: conn, channel: ch, exchange: exchange}, nil
}

// NewMessage encodes event as a persistent JSON publishing.
func NewMessage(event Event) (amqp.Publishing, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := NewMessage(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Publish(p.exchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ publisher: %v", errs)
	}
	return nil
}

// Emit publishes event and logs instead of returning a failure. The
// authenticated user on ctx, if any, is recorded as the actor.
func Emit(ctx context.Context, publisher Publisher, event Event) {
	if publisher == nil {
		return
	}
	if event.ActorID == "" {
		if user, ok := common.GetUserFromContext(ctx); ok {
			event.ActorID = user.ID.String()
		}
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Printf("WARN: %v", err)
	}
}
