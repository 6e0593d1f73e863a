package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes every completed cycle as JSON, keyed by location.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

// NewKafkaSink creates a synchronous writer for topic on brokers.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		topic: topic,
	}
}

// Publish writes one cycle result.
func (k *KafkaSink) Publish(ctx context.Context, result weather.CycleResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode cycle %s: %w", result.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(result.Location.Key()),
		Value: body,
		Time:  result.CompletedAt,
		Headers: []kafka.Header{
			{Key: "cycle_id", Value: []byte(result.ID.String())},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish cycle %s to %s: %w", result.ID, k.topic, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
