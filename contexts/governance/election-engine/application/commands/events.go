package commands

import (
	"context"
	"encoding/json"
	"time"

	"hoa/contexts/governance/election-engine/domain/entities"
	"hoa/contexts/governance/election-engine/ports"
)

// electionEvent names the event a mutation records. metadata is merged into
// the common election fields of the payload.
type electionEvent struct {
	eventType string
	metadata  map[string]any
}

func recordEvent(eventType string, metadata map[string]any) *electionEvent {
	return &electionEvent{eventType: eventType, metadata: metadata}
}

func newElectionEnvelope(
	eventID string,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Partitioned by election so consumers see one election's events in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "election-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     electionID,
		Data:             payload,
	}, nil
}

// envelopes builds the stored form of event for the election as it is about
// to be saved. A fresh event id is drawn on every attempt.
func (uc ElectionUseCase) envelopes(
	ctx context.Context,
	event *electionEvent,
	election entities.Election,
) ([]ports.EventEnvelope, error) {
	if event == nil || uc.IDGen == nil {
		return nil, nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return nil, err
	}
	details := election.Details()
	occurredAt := uc.now()
	data := map[string]any{
		"election_id":     details.ElectionID,
		"sequence_number": details.SequenceNumber,
		"association_id":  details.AssociationID,
		"kind":            string(election.Kind()),
		"status":          string(details.Status),
		"vote_count":      details.VoteCount,
		"occurred_at":     occurredAt.Format(time.RFC3339),
	}
	for key, value := range event.metadata {
		data[key] = value
	}
	envelope, err := newElectionEnvelope(eventID, event.eventType, details.ElectionID, occurredAt, data)
	if err != nil {
		return nil, err
	}
	return []ports.EventEnvelope{envelope}, nil
}
