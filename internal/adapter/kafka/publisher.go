package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes merged region snapshots to a Kafka topic.
// It implements pipeline.SnapshotPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the snapshot topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes a snapshot and writes it keyed by region, so every
// snapshot for a region lands on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, snapshot domain.Snapshot) error {
	msg, err := serializeToMessage(snapshot)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	p.logger.Debug("snapshot published", "region_id", snapshot.RegionID, "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a snapshot's merged record into a Kafka message.
func serializeToMessage(snapshot domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snapshot.Record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snapshot.RegionID),
		Value: data,
		Time:  snapshot.FetchedAt,
		Headers: []kafkago.Header{
			{Key: "region_id", Value: []byte(snapshot.RegionID)},
			{Key: "fetched_at", Value: []byte(snapshot.FetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
