package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/YunseobShin/wall-street/internal/models"
)

// Producer handles publishing events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishBriefing publishes a briefing lifecycle event keyed by briefing ID
func (p *Producer) PublishBriefing(ctx context.Context, eventType string, b *models.Briefing) error {
	event := models.BriefingEvent{
		EventType:  eventType,
		Briefing:   b,
		BriefingID: b.ID,
		Timestamp:  time.Now(),
	}
	return p.publish(ctx, b.ID, event)
}

// PublishDispatch publishes a dispatch recorded event keyed by briefing ID
func (p *Producer) PublishDispatch(ctx context.Context, r *models.DispatchResult) error {
	event := models.DispatchEvent{
		EventType: models.EventDispatchRecorded,
		Result:    r,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, r.BriefingID, event)
}

func (p *Producer) publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka topic %s: %w", p.topic, err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
