// Package events emits pipeline run lifecycle events to Kafka. Publishing is
// fail-open: a broker outage degrades observability, never a run.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Run statuses carried on events.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunEvent describes one pipeline run transition.
type RunEvent struct {
	RunID         uuid.UUID      `json:"run_id"`
	Status        string         `json:"status"`
	ReferenceTime time.Time      `json:"reference_time"`
	DurationMS    int64          `json:"duration_ms,omitempty"`
	Rows          map[string]int `json:"rows,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Publisher emits run events.
type Publisher interface {
	Emit(ctx context.Context, event RunEvent)
	Close()
}

// NopPublisher discards events; used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, RunEvent) {}
func (NopPublisher) Close()                         {}

// KafkaPublisher produces run events to a single topic, keyed by run ID so
// one run's transitions land in order on one partition.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewKafka connects a franz-go producer for the given brokers and topic.
func NewKafka(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, logger: logger}, nil
}

// Emit produces the event asynchronously. Failures are logged and dropped.
func (p *KafkaPublisher) Emit(ctx context.Context, event RunEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "encode run event", "run_id", event.RunID, "error", err)
		return
	}
	record := &kgo.Record{
		Key:   []byte(event.RunID.String()),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("publish run event", "run_id", event.RunID, "status", event.Status, "error", err)
		}
	})
}

// Close flushes outstanding produces and releases the client.
func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
