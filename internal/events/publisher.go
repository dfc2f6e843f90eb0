package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types
const (
	TypeTicketPurchased     = "ticket.purchased"
	TypeFlightStatusChanged = "flight.status_changed"
)

// Event is the envelope written to the topic
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"-"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// TicketPurchased is published after a sale commits
type TicketPurchased struct {
	TicketID      int     `json:"ticket_id"`
	AirlineName   string  `json:"airline_name"`
	FlightNum     int     `json:"flight_num"`
	SeatClassID   int     `json:"seat_class_id"`
	CustomerEmail string  `json:"customer_email"`
	AgentEmail    *string `json:"booking_agent_email,omitempty"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date"`
}

// FlightStatusChanged is published when an operator updates a flight
type FlightStatusChanged struct {
	AirlineName string `json:"airline_name"`
	FlightNum   int    `json:"flight_num"`
	Status      string `json:"status"`
	ChangedBy   string `json:"changed_by"`
}

// Publisher delivers domain events
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// KafkaPublisher writes events to a single topic, keyed by flight so
// events for one flight stay ordered within a partition
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	})
	return &KafkaPublisher{writer: writer}
}

// Publish writes one event
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := newMessage(evt)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newMessage(evt Event) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode %s: %w", evt.Type, err)
	}
	return kafka.Message{
		Key:   []byte(evt.Key),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	}, nil
}

// FlightKey is the partition key for events about one flight
func FlightKey(airlineName string, flightNum int) string {
	return fmt.Sprintf("%s/%d", airlineName, flightNum)
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error { return nil }
