package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types published on relationship changes
const (
	FollowCreated = "follow.created"
	FollowDeleted = "follow.deleted"
	LikeCreated   = "like.created"
	LikeDeleted   = "like.deleted"
)

// Event describes a change to a follow or like edge.
// Actor is the acting user; Target is the followed user or the liked tuit.
type Event struct {
	Type       string    `json:"type"`
	Actor      string    `json:"actor"`
	Target     string    `json:"target"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent builds an Event stamped with the current time
func NewEvent(eventType, actor, target string) Event {
	return Event{Type: eventType, Actor: actor, Target: target, OccurredAt: time.Now().UTC()}
}

// Publisher sends relationship events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const publishTimeout = 500 * time.Millisecond

// KafkaPublisher publishes events as JSON, keyed by actor so that one
// user's events stay ordered within a partition
type KafkaPublisher struct {
	writer messageWriter
}

// KafkaConfig configures the Kafka writer
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaPublisher creates a KafkaPublisher writing to cfg.Topic
func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic is required")
	}
	return &KafkaPublisher{writer: newKafkaWriter(cfg)}, nil
}

// newKafkaWriter builds an async writer: WriteMessages only enqueues, so a
// slow or unreachable broker never holds up the request that produced the
// event. Delivery failures surface in logDelivery.
func newKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion:   logDelivery,
	}
}

func logDelivery(msgs []kafka.Message, err error) {
	if err != nil {
		log.Printf("kafka: failed to deliver %d event(s): %v", len(msgs), err)
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	msg := kafka.Message{Key: []byte(ev.Actor), Value: b, Time: ev.OccurredAt}

	// The edge is already committed: a cancelled request must not drop its
	// event, and a metadata lookup against a stalled broker is bounded.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NopPublisher drops every event; used when Kafka is not configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
