package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	"hoa/contexts/governance/election-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

type electionLock struct {
	held chan struct{}
	refs int
}

// Store is the in-process election registry. Elections are copied on the way
// in and out so callers never share state with the store.
type Store struct {
	mu sync.RWMutex

	elections      map[string]entities.Election
	bySequence     map[int64]string
	nextSequence   int64
	memberships    map[string]entities.MembershipRecord
	outbox         map[string]outboxRecord
	outboxPosition int64
	eventDedup     map[string]dedupRecord
	clock          ports.Clock

	lockMu sync.Mutex
	locks  map[string]*electionLock
}

type Option func(*Store)

// WithClock makes clock the store's only time source. It drives Now, dedup
// expiry and outbox timestamps.
func WithClock(clock ports.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

func NewStore(seed []entities.Election, opts ...Option) *Store {
	store := &Store{
		elections:   make(map[string]entities.Election, len(seed)),
		bySequence:  make(map[int64]string, len(seed)),
		memberships: make(map[string]entities.MembershipRecord),
		outbox:      make(map[string]outboxRecord),
		eventDedup:  make(map[string]dedupRecord),
		locks:       make(map[string]*electionLock),
	}
	for _, opt := range opts {
		opt(store)
	}
	for _, election := range seed {
		stored := election.Clone()
		details := stored.Details()
		if details.ElectionID == "" {
			details.ElectionID = uuid.NewString()
		}
		if details.SequenceNumber == 0 {
			details.SequenceNumber = store.nextSequence + 1
		}
		if details.SequenceNumber > store.nextSequence {
			store.nextSequence = details.SequenceNumber
		}
		if details.Version == 0 {
			details.Version = 1
		}
		store.elections[details.ElectionID] = stored
		store.bySequence[details.SequenceNumber] = details.ElectionID
	}
	return store
}

// Create assigns the id, sequence number and first version to election and
// stores it together with the events built by events.
func (s *Store) Create(_ context.Context, election entities.Election, events ports.EventsFunc) (string, error) {
	details := election.Details()
	s.mu.Lock()
	s.nextSequence++
	details.ElectionID = uuid.NewString()
	details.SequenceNumber = s.nextSequence
	details.Version = 1
	s.mu.Unlock()

	var envelopes []ports.EventEnvelope
	if events != nil {
		built, err := events(election)
		if err != nil {
			return "", err
		}
		envelopes = built
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.prepareOutbox(envelopes)
	if err != nil {
		return "", err
	}
	s.elections[details.ElectionID] = election.Clone()
	s.bySequence[details.SequenceNumber] = details.ElectionID
	s.commitOutbox(rows)
	return details.ElectionID, nil
}

func (s *Store) FindByID(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return nil, domainerrors.ErrElectionNotFound
	}
	return election.Clone(), nil
}

func (s *Store) FindBySequenceNumber(_ context.Context, sequenceNumber int64) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	electionID, ok := s.bySequence[sequenceNumber]
	if !ok {
		return nil, domainerrors.ErrElectionNotFound
	}
	return s.elections[electionID].Clone(), nil
}

// Save stores election and events if the election's version still matches
// the stored one, and bumps the version on success. Unknown ids are inserted.
// Nothing is written when any check fails.
func (s *Store) Save(_ context.Context, election entities.Election, events ...ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	details := election.Details()
	if strings.TrimSpace(details.ElectionID) == "" {
		return domainerrors.ErrElectionNotFound
	}
	rows, err := s.prepareOutbox(events)
	if err != nil {
		return err
	}

	existing, ok := s.elections[details.ElectionID]
	if !ok {
		sequenceNumber := details.SequenceNumber
		if sequenceNumber == 0 {
			sequenceNumber = s.nextSequence + 1
		}
		if _, taken := s.bySequence[sequenceNumber]; taken {
			return domainerrors.ErrConflict
		}
		if sequenceNumber > s.nextSequence {
			s.nextSequence = sequenceNumber
		}
		details.SequenceNumber = sequenceNumber
		if details.Version == 0 {
			details.Version = 1
		}
		s.elections[details.ElectionID] = election.Clone()
		s.bySequence[details.SequenceNumber] = details.ElectionID
		s.commitOutbox(rows)
		return nil
	}
	if existing.Details().Version != details.Version {
		return domainerrors.ErrConflict
	}
	if existing.Kind() != election.Kind() || existing.Details().SequenceNumber != details.SequenceNumber {
		return domainerrors.ErrConflict
	}
	stored := election.Clone()
	stored.Details().Version++
	s.elections[details.ElectionID] = stored
	s.commitOutbox(rows)
	details.Version++
	return nil
}

func (s *Store) ListByAssociation(_ context.Context, associationID int64) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0)
	for _, election := range s.elections {
		if election.Details().AssociationID == associationID {
			items = append(items, election.Clone())
		}
	}
	sortBySequence(items)
	return items, nil
}

func (s *Store) ListDueForOpening(_ context.Context, now time.Time, limit int) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.Election, 0)
	for _, election := range s.elections {
		details := election.Details()
		if details.Status != entities.ElectionStatusScheduled || details.ScheduledFor.After(now.UTC()) {
			continue
		}
		items = append(items, election.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		left, right := items[i].Details(), items[j].Details()
		if left.ScheduledFor.Equal(right.ScheduledFor) {
			return left.SequenceNumber < right.SequenceNumber
		}
		return left.ScheduledFor.Before(right.ScheduledFor)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Lock blocks until electionID is free or ctx is done.
func (s *Store) Lock(ctx context.Context, electionID string) (func(), error) {
	key := strings.TrimSpace(electionID)

	s.lockMu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &electionLock{held: make(chan struct{}, 1)}
		s.locks[key] = lock
	}
	lock.refs++
	s.lockMu.Unlock()

	select {
	case lock.held <- struct{}{}:
	case <-ctx.Done():
		s.releaseLockRef(key, lock)
		return nil, fmt.Errorf("%w: %w", domainerrors.ErrLockNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.held
			s.releaseLockRef(key, lock)
		})
	}, nil
}

func (s *Store) releaseLockRef(key string, lock *electionLock) {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, key)
	}
}

func (s *Store) UpsertMembership(_ context.Context, record entities.MembershipRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[strings.TrimSpace(record.MembershipID)] = record
	return nil
}

func (s *Store) ListMemberships(_ context.Context, memberID string) ([]entities.MembershipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberID = strings.TrimSpace(memberID)
	items := make([]entities.MembershipRecord, 0)
	for _, record := range s.memberships {
		if record.MemberID == memberID {
			items = append(items, record)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].JoinedAt.Equal(items[j].JoinedAt) {
			return items[i].MembershipID < items[j].MembershipID
		}
		return items[i].JoinedAt.Before(items[j].JoinedAt)
	})
	return items, nil
}

// prepareOutbox encodes envelopes into rows without storing them. Replaying
// an event id with the same payload yields no row; a different payload is a
// conflict. Callers hold s.mu.
func (s *Store) prepareOutbox(envelopes []ports.EventEnvelope) ([]ports.OutboxMessage, error) {
	rows := make([]ports.OutboxMessage, 0, len(envelopes))
	seen := make(map[string]bool, len(envelopes))
	for _, envelope := range envelopes {
		payload, err := json.Marshal(envelope)
		if err != nil {
			return nil, err
		}
		outboxID := strings.TrimSpace(envelope.EventID)
		if outboxID == "" {
			outboxID = uuid.NewString()
		}
		if existing, ok := s.outbox[outboxID]; ok {
			if !bytes.Equal(existing.message.Payload, payload) {
				return nil, domainerrors.ErrConflict
			}
			continue
		}
		if seen[outboxID] {
			return nil, domainerrors.ErrConflict
		}
		seen[outboxID] = true
		createdAt := envelope.OccurredAt.UTC()
		if createdAt.IsZero() {
			createdAt = s.Now()
		}
		rows = append(rows, ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		})
	}
	return rows, nil
}

func (s *Store) commitOutbox(rows []ports.OutboxMessage) {
	for _, row := range rows {
		s.outboxPosition++
		row.Position = s.outboxPosition
		s.outbox[row.OutboxID] = outboxRecord{message: row}
	}
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) ReserveEvent(
	_ context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(eventID)
	existing, ok := s.eventDedup[key]
	if ok {
		if !existing.expiresAt.IsZero() && s.Now().After(existing.expiresAt.UTC()) {
			delete(s.eventDedup, key)
		} else {
			if existing.payloadHash != strings.TrimSpace(payloadHash) {
				return false, domainerrors.ErrConflict
			}
			return true, nil
		}
	}

	s.eventDedup[key] = dedupRecord{
		payloadHash: strings.TrimSpace(payloadHash),
		expiresAt:   expiresAt.UTC(),
	}
	return false, nil
}

func (s *Store) ReleaseEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.eventDedup, strings.TrimSpace(eventID))
	return nil
}

func (s *Store) Now() time.Time {
	if s.clock != nil {
		return s.clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func sortBySequence(items []entities.Election) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Details().SequenceNumber < items[j].Details().SequenceNumber
	})
}

var _ ports.ElectionRegistry = (*Store)(nil)
var _ ports.ElectionLocker = (*Store)(nil)
var _ ports.MembershipProjection = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.EventDedupStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
