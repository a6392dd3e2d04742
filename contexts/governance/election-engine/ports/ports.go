package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"hoa/contexts/governance/election-engine/domain/entities"
	contractsv1 "hoa/contracts/events/v1"
)

// ElectionRegistry is the only write path for election state. Create and Save
// append their events to the outbox atomically with the state change: either
// both are stored or neither is. Save fails with ErrConflict when the stored
// version moved since the election was loaded.
type ElectionRegistry interface {
	Create(ctx context.Context, election entities.Election, events EventsFunc) (string, error)
	FindByID(ctx context.Context, electionID string) (entities.Election, error)
	FindBySequenceNumber(ctx context.Context, sequenceNumber int64) (entities.Election, error)
	Save(ctx context.Context, election entities.Election, events ...EventEnvelope) error
	ListByAssociation(ctx context.Context, associationID int64) ([]entities.Election, error)
	ListDueForOpening(ctx context.Context, now time.Time, limit int) ([]entities.Election, error)
}

// ElectionLocker serializes mutations per election id. The returned unlock
// func must be called exactly once.
type ElectionLocker interface {
	Lock(ctx context.Context, electionID string) (func(), error)
}

type MembershipHistory interface {
	ListMemberships(ctx context.Context, memberID string) ([]entities.MembershipRecord, error)
}

type MembershipProjection interface {
	MembershipHistory
	UpsertMembership(ctx context.Context, record entities.MembershipRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

// EventsFunc builds the events stored with a new election. It runs once the
// registry has assigned the id and sequence number. A nil EventsFunc records
// no events.
type EventsFunc func(election entities.Election) ([]EventEnvelope, error)

// OutboxMessage is a stored event. Position increases with every append and
// orders the events of one election.
type OutboxMessage struct {
	OutboxID     string
	Position     int64
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository lists pending events in the order they were written.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

// EventDedupStore reports whether eventID was already processed with the same
// payload hash, reserving it otherwise. ReleaseEvent drops a reservation whose
// processing failed so a redelivery is handled again.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
	ReleaseEvent(ctx context.Context, eventID string) error
}

// Metrics is implemented by the platform metrics registry.
type Metrics interface {
	ElectionCreated(kind string)
	VoteRecorded(kind string, action string)
	CandidateChanged(action string)
	EligibilityRejected(rule string)
	ElectionConcluded(kind string)
	ElectionOpened()
	SaveConflict(command string)
	ObserveCommand(command string, result string, duration time.Duration)
}
