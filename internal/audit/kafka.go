package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/dverano/villadesk/libs/kafkax"
)

// KafkaRecorder publishes audit events to a Kafka topic.
type KafkaRecorder struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaRecorder(brokers string, topic string, logger *slog.Logger) *KafkaRecorder {
	return &KafkaRecorder{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(kafkax.SplitBrokers(brokers)...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
		logger: logger,
	}
}

func (r *KafkaRecorder) Record(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		r.logger.Error("audit event marshal failed", "type", e.Type, "err", err)
		return
	}

	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(e.ID)},
		{Key: "event_type", Value: []byte(e.Type)},
	}
	headers = kafkax.InjectTraceHeaders(ctx, headers)

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(e.ID),
		Value:   payload,
		Headers: headers,
	}); err != nil {
		r.logger.Error("audit event publish failed", "type", e.Type, "err", err)
	}
}

func (r *KafkaRecorder) Close() error {
	return r.writer.Close()
}
