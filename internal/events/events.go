// Package events publishes ordering domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// Event types carried in Envelope.Type.
const (
	TypeMenuPublished  = "menu.published"
	TypeOrderCommitted = "order.committed"
	TypeOfferWithdrawn = "offer.withdrawn"
)

// Envelope wraps every event written to the topic.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// MenuPublished is emitted after a cook's menu for a date is replaced.
type MenuPublished struct {
	CookID string      `json:"cookId"`
	Date   string      `json:"date"`
	Dishes []MenuEntry `json:"dishes"`
}

// MenuEntry is one published dish and its quantity.
type MenuEntry struct {
	DishID   int64 `json:"dishId"`
	Quantity int   `json:"quantity"`
}

// OrderCommitted is emitted after an order has been committed.
type OrderCommitted struct {
	OrderID    string          `json:"orderId"`
	CustomerID string          `json:"customerId"`
	Date       string          `json:"date"`
	Total      decimal.Decimal `json:"total"`
	Items      []OrderLine     `json:"items"`
}

// OrderLine is one committed dish of an order.
type OrderLine struct {
	DishID   int64  `json:"dishId"`
	CookID   string `json:"cookId"`
	Quantity int    `json:"quantity"`
}

// OfferWithdrawn is emitted when an administrator removes an offer.
type OfferWithdrawn struct {
	OfferID string `json:"offerId"`
	DishID  int64  `json:"dishId"`
	CookID  string `json:"cookId"`
	Date    string `json:"date"`
}

// Publisher sends domain events. Callers treat failures as non-fatal.
type Publisher interface {
	MenuPublished(ctx context.Context, e MenuPublished) error
	OrderCommitted(ctx context.Context, e OrderCommitted) error
	OfferWithdrawn(ctx context.Context, e OfferWithdrawn) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DefaultWriteTimeout bounds a single publish. Events are sent after the
// database commit, so a slow broker must not hold the request open.
const DefaultWriteTimeout = 3 * time.Second

// KafkaPublisher writes JSON envelopes to a single topic.
type KafkaPublisher struct {
	writer       messageWriter
	now          func() time.Time
	writeTimeout time.Duration
	logger       zerolog.Logger
}

// NewKafkaWriter builds a writer for topic that balances by message key.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

// NewKafkaPublisher creates a publisher on top of writer.
func NewKafkaPublisher(writer *kafka.Writer, logger zerolog.Logger) *KafkaPublisher {
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:       writer,
		now:          time.Now,
		writeTimeout: DefaultWriteTimeout,
		logger:       logger.With().Str("component", "events").Logger(),
	}
}

func (p *KafkaPublisher) MenuPublished(ctx context.Context, e MenuPublished) error {
	return p.publish(ctx, TypeMenuPublished, e.CookID, e)
}

// OrderCommitted is keyed by customer so a customer's orders stay in one partition.
func (p *KafkaPublisher) OrderCommitted(ctx context.Context, e OrderCommitted) error {
	return p.publish(ctx, TypeOrderCommitted, e.CustomerID, e)
}

func (p *KafkaPublisher) OfferWithdrawn(ctx context.Context, e OfferWithdrawn) error {
	return p.publish(ctx, TypeOfferWithdrawn, strconv.FormatInt(e.DishID, 10), e)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) error {
	value, err := json.Marshal(Envelope{Type: eventType, OccurredAt: p.now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		p.logger.Error().Err(err).Str("type", eventType).Str("key", key).Msg("failed to publish event")
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debug().Str("type", eventType).Str("key", key).Msg("event published")
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards events. It is used when Kafka is disabled.
type Nop struct{}

func (Nop) MenuPublished(context.Context, MenuPublished) error   { return nil }
func (Nop) OrderCommitted(context.Context, OrderCommitted) error { return nil }
func (Nop) OfferWithdrawn(context.Context, OfferWithdrawn) error { return nil }
func (Nop) Close() error                                         { return nil }
