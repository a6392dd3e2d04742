package workers

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	application "hoa/contexts/governance/election-engine/application"
	"hoa/contexts/governance/election-engine/ports"
	contractsv1 "hoa/contracts/events/v1"
)

// ErrUnknownEventType marks an outbox row whose type has no topic.
var ErrUnknownEventType = errors.New("unknown election event type")

// OutboxRelay publishes persisted election events to the event bus. Events
// of one election form a stream keyed by the partition key and are published
// in outbox order. A failure holds back the rest of that election's stream
// until the next cycle; other elections keep flowing.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

type electionStream struct {
	key  string
	rows []ports.OutboxMessage
}

// RunOnce relays one batch of pending rows and returns the joined errors of
// the streams it had to stop.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("election outbox list failed",
			"event", "election_outbox_list_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("election outbox relay found no pending rows",
			"event", "election_outbox_relay_noop",
			"module", application.ModuleName,
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}
	topics := knownTopics()

	var (
		errs      []error
		published int
	)
	for _, stream := range groupByElection(pending) {
		sent, err := r.relayStream(ctx, stream, topics, now)
		published += sent
		if err == nil {
			continue
		}
		errs = append(errs, err)
		logger.Warn("election outbox stream held back",
			"event", "election_outbox_stream_halted",
			"module", application.ModuleName,
			"layer", "worker",
			"partition_key", stream.key,
			"held_count", len(stream.rows)-sent,
			"error", err.Error(),
		)
	}

	logger.Info("election outbox relay cycle completed",
		"event", "election_outbox_relay_completed",
		"module", application.ModuleName,
		"layer", "worker",
		"published_count", published,
		"halted_streams", len(errs),
	)
	return errors.Join(errs...)
}

// relayStream publishes the rows of one election until the first failure and
// reports how many made it out.
func (r OutboxRelay) relayStream(
	ctx context.Context,
	stream electionStream,
	topics map[string]struct{},
	now time.Time,
) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	for i, row := range stream.rows {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("election outbox decode failed",
				"event", "election_outbox_decode_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return i, err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if _, ok := topics[topic]; !ok {
			logger.Error("election outbox row has no topic",
				"event", "election_outbox_unknown_type",
				"module", application.ModuleName,
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", topic,
			)
			return i, fmt.Errorf("%w: %q (outbox id %s)", ErrUnknownEventType, topic, row.OutboxID)
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("election outbox publish failed",
				"event", "election_outbox_publish_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"event_type", topic,
				"error", err.Error(),
			)
			return i, err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("election outbox mark published failed",
				"event", "election_outbox_mark_published_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return i, err
		}
	}
	return len(stream.rows), nil
}

// groupByElection splits rows into per election streams, each in position
// order. Streams come out in the order of their oldest row.
func groupByElection(rows []ports.OutboxMessage) []electionStream {
	ordered := slices.Clone(rows)
	slices.SortStableFunc(ordered, func(a, b ports.OutboxMessage) int {
		return cmp.Compare(a.Position, b.Position)
	})

	index := make(map[string]int)
	var streams []electionStream
	for _, row := range ordered {
		i, ok := index[row.PartitionKey]
		if !ok {
			i = len(streams)
			index[row.PartitionKey] = i
			streams = append(streams, electionStream{key: row.PartitionKey})
		}
		streams[i].rows = append(streams[i].rows, row)
	}
	return streams
}

func knownTopics() map[string]struct{} {
	topics := make(map[string]struct{})
	for _, topic := range contractsv1.Topics() {
		topics[topic] = struct{}{}
	}
	return topics
}
