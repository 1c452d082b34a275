package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher announces sport type changes.
type Publisher interface {
	PublishSportTypeChanged(ctx context.Context, evt SportTypeChanged) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to a single topic, keyed by activity id.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher connects a publisher to topic on brokers. Each write
// flushes within 10ms.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// PublishSportTypeChanged implements Publisher.
func (p *KafkaPublisher) PublishSportTypeChanged(ctx context.Context, evt SportTypeChanged) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", evt.EventType, err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.ActivityID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "event_id", Value: []byte(evt.EventID)},
		},
		Time: evt.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for activity %s: %w", evt.EventType, evt.ActivityID, err)
	}
	return nil
}

// Close flushes pending messages and releases the connection.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events.
type NoopPublisher struct{}

// PublishSportTypeChanged performs no action.
func (NoopPublisher) PublishSportTypeChanged(context.Context, SportTypeChanged) error { return nil }
