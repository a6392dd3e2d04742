//go:build integration

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"

	contractsv1 "hoa/contracts/events/v1"
)

func newTestKafka(t *testing.T) *Kafka {
	t.Helper()
	ctx := context.Background()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	kafka, err := NewKafka([]string{broker}, "hoa-test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(kafka.Close)
	return kafka
}

func TestKafkaPublishSubscribeRoundTrip(t *testing.T) {
	kafka := newTestKafka(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	require.NoError(t, kafka.EnsureTopics(ctx, 1, 1, contractsv1.EventMembershipRecorded))
	require.NoError(t, kafka.EnsureTopics(ctx, 1, 1, contractsv1.EventMembershipRecorded), "existing topics are not an error")

	data, err := json.Marshal(contractsv1.MembershipRecorded{MembershipID: "ms-1", MemberID: "bob", AssociationID: 12})
	require.NoError(t, err)
	sent := contractsv1.Envelope{
		EventID:       "evt-1",
		EventType:     contractsv1.EventMembershipRecorded,
		OccurredAt:    time.Now().UTC().Truncate(time.Millisecond),
		SourceService: "membership",
		SchemaVersion: 1,
		PartitionKey:  "bob",
		Data:          data,
	}
	require.NoError(t, kafka.Publish(ctx, contractsv1.EventMembershipRecorded, sent))

	received := make(chan contractsv1.Envelope, 1)
	require.NoError(t, kafka.Subscribe(ctx, contractsv1.EventMembershipRecorded, "hoa-test-group",
		func(_ context.Context, event contractsv1.Envelope) error {
			received <- event
			return nil
		}))

	select {
	case got := <-received:
		assert.Equal(t, sent.EventID, got.EventID)
		assert.Equal(t, sent.PartitionKey, got.PartitionKey)
		assert.JSONEq(t, string(sent.Data), string(got.Data))
	case <-ctx.Done():
		t.Fatal("timed out waiting for the published event")
	}
}

func TestKafkaRedeliversUntilHandlerAccepts(t *testing.T) {
	kafka := newTestKafka(t)
	kafka.retryBackoff = 10 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	require.NoError(t, kafka.EnsureTopics(ctx, 1, 1, contractsv1.EventMembershipRecorded))
	for _, eventID := range []string{"evt-1", "evt-2"} {
		require.NoError(t, kafka.Publish(ctx, contractsv1.EventMembershipRecorded, contractsv1.Envelope{
			EventID:      eventID,
			EventType:    contractsv1.EventMembershipRecorded,
			PartitionKey: "bob",
			Data:         json.RawMessage(`{}`),
		}))
	}

	failures := 1
	received := make(chan string, 4)
	require.NoError(t, kafka.Subscribe(ctx, contractsv1.EventMembershipRecorded, "hoa-retry-group",
		func(_ context.Context, event contractsv1.Envelope) error {
			if event.EventID == "evt-1" && failures > 0 {
				failures--
				return errors.New("db down")
			}
			received <- event.EventID
			return nil
		}))

	var got []string
	for len(got) < 2 {
		select {
		case eventID := <-received:
			got = append(got, eventID)
		case <-ctx.Done():
			t.Fatalf("timed out; received %v", got)
		}
	}
	assert.Equal(t, []string{"evt-1", "evt-2"}, got)
}
