package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/YunseobShin/wall-street/internal/models"
	"github.com/YunseobShin/wall-street/internal/store"
)

// BriefingRepository defines the store operations the consumer needs
type BriefingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Briefing, error)
	Upsert(ctx context.Context, b models.Briefing) []models.Briefing
}

// Consumer ingests briefings announced as ready by the scheduled
// generation job and writes them into the local store.
type Consumer struct {
	reader *kafka.Reader
	repo   BriefingRepository
}

// NewConsumer creates a new Kafka consumer for briefing events
func NewConsumer(brokers []string, topic, groupID string, repo BriefingRepository) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting Kafka consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading message: %v", err)
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				log.Printf("Error processing message: %v", err)
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	log.Printf("Received message from partition %d offset %d: key=%s",
		msg.Partition, msg.Offset, string(msg.Key))

	var event models.BriefingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal briefing event: %w", err)
	}

	// Only process BRIEFING_READY events
	if event.EventType != models.EventBriefingReady {
		log.Printf("Ignoring event type: %s", event.EventType)
		return nil
	}

	b := event.Briefing
	if b == nil || b.ID == "" {
		return fmt.Errorf("briefing event at offset %d has no briefing", msg.Offset)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("briefing %s has unknown status %q", b.ID, b.Status)
	}

	// Skip redeliveries and versions older than what is stored
	existing, err := c.repo.GetByID(ctx, b.ID)
	switch {
	case err == nil && !b.CreatedAt.After(existing.CreatedAt):
		log.Printf("Briefing %s (created %s) already stored, skipping", b.ID, b.CreatedAt.Format(time.RFC3339))
		return nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("failed to look up briefing %s: %w", b.ID, err)
	}

	c.repo.Upsert(ctx, *b)
	log.Printf("Stored briefing: %s %s (top1 %s)", b.ID, b.Date, b.Top1Symbol)
	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
