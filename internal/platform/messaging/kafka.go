package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	contractsv1 "hoa/contracts/events/v1"
)

const (
	minRedeliveryBackoff = 200 * time.Millisecond
	maxRedeliveryBackoff = 10 * time.Second
)

// Kafka is the event bus adapter used by the outbox relay and consumers.
// Records are keyed by the envelope partition key and carry the JSON
// envelope as their value.
type Kafka struct {
	brokers      []string
	clientID     string
	producer     *kgo.Client
	logger       *slog.Logger
	retryBackoff time.Duration

	mu        sync.Mutex
	consumers []*kgo.Client
}

func NewKafka(brokers []string, clientID string, logger *slog.Logger) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	producer, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Kafka{
		brokers:      brokers,
		clientID:     clientID,
		producer:     producer,
		logger:       logger,
		retryBackoff: minRedeliveryBackoff,
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventID, err)
	}
	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(event.PartitionKey),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := k.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		k.logger.Error("event publish failed",
			"event", "kafka_publish_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}

	k.logger.Debug("event published",
		"event", "kafka_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

// EnsureTopics creates any missing topic. Topics that already exist are left
// untouched whatever their partition count.
func (k *Kafka) EnsureTopics(ctx context.Context, partitions int32, replicationFactor int16, topics ...string) error {
	if len(topics) == 0 {
		return nil
	}
	admin := kadm.NewClient(k.producer)
	responses, err := admin.CreateTopics(ctx, partitions, replicationFactor, nil, topics...)
	if err != nil {
		return fmt.Errorf("create kafka topics: %w", err)
	}

	var errs []error
	for _, response := range responses.Sorted() {
		switch {
		case response.Err == nil:
			k.logger.Info("kafka topic created",
				"event", "kafka_topic_created",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", response.Topic,
				"partitions", partitions,
			)
		case errors.Is(response.Err, kerr.TopicAlreadyExists):
		default:
			errs = append(errs, fmt.Errorf("create topic %s: %w", response.Topic, response.Err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe joins consumerGroup on topic and feeds decoded envelopes to
// handler until ctx is done. A record is committed only once handler accepted
// it; a failing record is retried with backoff and holds back the records
// after it. A crash replays everything uncommitted, so handlers must be
// idempotent.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(k.brokers...),
		kgo.ClientID(k.clientID),
		kgo.ConsumerGroup(consumerGroup),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return fmt.Errorf("create kafka consumer for %s: %w", topic, err)
	}

	k.mu.Lock()
	k.consumers = append(k.consumers, client)
	k.mu.Unlock()

	go k.consume(ctx, client, topic, consumerGroup, handler)
	return nil
}

func (k *Kafka) consume(
	ctx context.Context,
	client *kgo.Client,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) {
	for {
		fetches := client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		for _, fetchErr := range fetches.Errors() {
			k.logger.Error("consumer fetch failed",
				"event", "kafka_fetch_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", fetchErr.Topic,
				"partition", fetchErr.Partition,
				"consumer_group", consumerGroup,
				"error", fetchErr.Err.Error(),
			)
		}

		handled := make([]*kgo.Record, 0, fetches.NumRecords())
		stopped := false
		fetches.EachRecord(func(record *kgo.Record) {
			if stopped {
				return
			}
			if !k.handleRecord(ctx, record, consumerGroup, handler) {
				stopped = true
				return
			}
			handled = append(handled, record)
		})
		if len(handled) == 0 {
			continue
		}

		commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := client.CommitRecords(commitCtx, handled...); err != nil {
			k.logger.Warn("consumer commit failed",
				"event", "kafka_commit_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", consumerGroup,
				"error", err.Error(),
			)
		}
		cancel()
	}
}

// handleRecord decodes record and hands it to handler until handler accepts
// it. It reports false only when ctx ended first, leaving the record
// uncommitted. Records that do not decode are logged and reported handled.
func (k *Kafka) handleRecord(
	ctx context.Context,
	record *kgo.Record,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) bool {
	var event contractsv1.Envelope
	if err := json.Unmarshal(record.Value, &event); err != nil {
		k.logger.Error("consumer decode failed",
			"event", "kafka_decode_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", record.Topic,
			"partition", record.Partition,
			"consumer_group", consumerGroup,
			"offset", record.Offset,
			"error", err.Error(),
		)
		return true
	}

	backoff := k.retryBackoff
	if backoff <= 0 {
		backoff = minRedeliveryBackoff
	}
	for attempt := 1; ; attempt++ {
		err := handler(ctx, event)
		if err == nil {
			return true
		}
		k.logger.Error("consumer handler failed; retrying",
			"event", "kafka_consume_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", record.Topic,
			"partition", record.Partition,
			"offset", record.Offset,
			"consumer_group", consumerGroup,
			"event_id", event.EventID,
			"event_type", event.EventType,
			"attempt", attempt,
			"error", err.Error(),
		)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		backoff = min(backoff*2, maxRedeliveryBackoff)
	}
}

// Close flushes pending produces and leaves every consumer group.
func (k *Kafka) Close() {
	k.mu.Lock()
	consumers := k.consumers
	k.consumers = nil
	k.mu.Unlock()

	for _, client := range consumers {
		client.Close()
	}
	if k.producer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = k.producer.Flush(ctx)
		k.producer.Close()
	}
}
