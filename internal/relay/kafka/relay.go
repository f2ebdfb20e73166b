// Package kafka relays domain events to a Kafka topic as CloudEvents v1.0
// envelopes, so downstream services (chat, analytics, moderation) can react
// without a direct dependency on the game core.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/platform/metrics"
)

const (
	cloudEventSpecVersion     = "1.0"
	cloudEventDataContentType = "application/json"
)

// CloudEvent is the CloudEvents v1.0 JSON envelope.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data,omitempty"`
}

// NewSyncProducer builds a sarama sync producer with idempotent, ack-all
// delivery.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return producer, nil
}

// Relay subscribes to the full event stream and forwards each event to one
// Kafka topic. Delivery is best-effort: a produce failure is logged and
// counted, never surfaced to the publishing caller.
type Relay struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	topic    string
	source   string
	subs     []event.Subscription
}

// NewRelay creates a Relay. source identifies this service in the CloudEvent
// envelope, e.g. "/game-server".
func NewRelay(producer sarama.SyncProducer, logger *zap.Logger, topic, source string) *Relay {
	return &Relay{
		producer: producer,
		logger:   logger,
		topic:    topic,
		source:   source,
	}
}

// Start subscribes the relay to every event type on the bus.
func (r *Relay) Start(bus *event.Bus) {
	for _, t := range event.AllTypes {
		r.subs = append(r.subs, bus.Subscribe(t, r.handle))
	}
	r.logger.Info("event relay started",
		zap.String("topic", r.topic),
		zap.Int("event_types", len(event.AllTypes)),
	)
}

// Stop removes the bus subscriptions and closes the producer.
func (r *Relay) Stop(bus *event.Bus) error {
	for _, sub := range r.subs {
		bus.Unsubscribe(sub)
	}
	r.subs = nil
	if err := r.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

func (r *Relay) handle(_ context.Context, e event.Event) error {
	envelope := CloudEvent{
		SpecVersion:     cloudEventSpecVersion,
		Type:            string(e.EventType()),
		Source:          r.source,
		ID:              e.EventID().String(),
		Time:            e.OccurredAt(),
		DataContentType: cloudEventDataContentType,
		Data:            e,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		metrics.RelayPublishTotal.WithLabelValues("marshal_error").Inc()
		r.logger.Error("failed to marshal event envelope",
			zap.String("event_type", string(e.EventType())),
			zap.String("event_id", envelope.ID),
			zap.Error(err),
		)
		return nil
	}

	msg := &sarama.ProducerMessage{
		Topic: r.topic,
		// Keying by event type keeps per-type ordering across partitions.
		Key:   sarama.StringEncoder(e.EventType()),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := r.producer.SendMessage(msg)
	if err != nil {
		metrics.RelayPublishTotal.WithLabelValues("error").Inc()
		r.logger.Error("failed to relay event to Kafka",
			zap.String("topic", r.topic),
			zap.String("event_type", string(e.EventType())),
			zap.String("event_id", envelope.ID),
			zap.Error(err),
		)
		return nil
	}

	metrics.RelayPublishTotal.WithLabelValues("ok").Inc()
	r.logger.Debug("event relayed to Kafka",
		zap.String("event_type", string(e.EventType())),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}
