package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	"hoa/contexts/governance/election-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the election and the events built for it in one
// transaction. The database assigns the sequence number before events runs.
func (r *Repository) Create(ctx context.Context, election entities.Election, events ports.EventsFunc) (string, error) {
	details := election.Details()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		details.ElectionID = uuid.NewString()
		details.SequenceNumber = 0
		details.Version = 1

		row := electionModelFromEntity(election)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrConflict
			}
			return r.logError("election_repo_create_failed", err,
				"kind", string(election.Kind()),
				"association_id", details.AssociationID,
			)
		}
		details.SequenceNumber = row.SequenceNumber

		if events == nil {
			return nil
		}
		envelopes, err := events(election)
		if err != nil {
			return err
		}
		return r.appendOutbox(tx, envelopes)
	})
	if err != nil {
		return "", err
	}
	return details.ElectionID, nil
}

func (r *Repository) FindByID(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrElectionNotFound
		}
		return nil, r.logError("election_repo_find_by_id_failed", err, "election_id", strings.TrimSpace(electionID))
	}
	return r.toEntity(row)
}

func (r *Repository) FindBySequenceNumber(ctx context.Context, sequenceNumber int64) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("sequence_number = ?", sequenceNumber).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrElectionNotFound
		}
		return nil, r.logError("election_repo_find_by_sequence_failed", err, "sequence_number", sequenceNumber)
	}
	return r.toEntity(row)
}

// Save updates the row only when its version still matches the loaded one.
// Elections that were never stored are inserted. The events are appended to
// the outbox in the same transaction, so either both land or neither does.
func (r *Repository) Save(ctx context.Context, election entities.Election, events ...ports.EventEnvelope) error {
	details := election.Details()
	if strings.TrimSpace(details.ElectionID) == "" {
		return domainerrors.ErrElectionNotFound
	}
	row := electionModelFromEntity(election)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveElection(tx, &row); err != nil {
			return err
		}
		return r.appendOutbox(tx, events)
	})
	if err != nil {
		return err
	}
	details.Version = row.Version
	details.SequenceNumber = row.SequenceNumber
	return nil
}

// saveElection leaves row.Version at the stored version on success.
func (r *Repository) saveElection(tx *gorm.DB, row *electionModel) error {
	result := tx.
		Model(&electionModel{}).
		Where("id = ? AND version = ? AND kind = ?", row.ID, row.Version, row.Kind).
		Updates(map[string]any{
			"name":              row.Name,
			"description":       row.Description,
			"scheduled_for":     row.ScheduledFor,
			"status":            row.Status,
			"vote_count":        row.VoteCount,
			"votes":             row.Votes,
			"amount_of_winners": row.AmountOfWinners,
			"candidates":        row.Candidates,
			"winners":           row.Winners,
			"winning_choice":    row.WinningChoice,
			"version":           row.Version + 1,
			"updated_at":        row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("election_repo_save_failed", result.Error,
			"election_id", row.ID,
			"version", row.Version,
		)
	}
	if result.RowsAffected == 1 {
		row.Version++
		return nil
	}

	var count int64
	if err := tx.Model(&electionModel{}).Where("id = ?", row.ID).Count(&count).Error; err != nil {
		return r.logError("election_repo_save_lookup_failed", err, "election_id", row.ID)
	}
	if count > 0 {
		return domainerrors.ErrConflict
	}

	if row.Version == 0 {
		row.Version = 1
	}
	create := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("election_repo_save_insert_failed", create.Error, "election_id", row.ID)
	}
	if create.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) ListByAssociation(ctx context.Context, associationID int64) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Where("association_id = ?", associationID).
		Order("sequence_number ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_by_association_failed", err, "association_id", associationID)
	}
	return r.toEntities(rows)
}

func (r *Repository) ListDueForOpening(ctx context.Context, now time.Time, limit int) ([]entities.Election, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.ElectionStatusScheduled)).
		Where("scheduled_for <= ?", now.UTC()).
		Order("scheduled_for ASC").
		Order("sequence_number ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_due_failed", err, "limit", limit)
	}
	return r.toEntities(rows)
}

func (r *Repository) UpsertMembership(ctx context.Context, record entities.MembershipRecord) error {
	row := membershipModelFromEntity(record)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "membership_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"member_id":        row.MemberID,
			"association_id":   row.AssociationID,
			"is_board_member":  row.IsBoardMember,
			"joined_at":        row.JoinedAt,
			"duration_seconds": row.DurationSeconds,
			"ended_at":         row.EndedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_upsert_membership_failed", create.Error,
			"membership_id", row.MembershipID,
			"member_id", row.MemberID,
		)
	}
	return nil
}

func (r *Repository) ListMemberships(ctx context.Context, memberID string) ([]entities.MembershipRecord, error) {
	var rows []membershipModel
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Order("joined_at ASC").
		Order("membership_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_memberships_failed", err, "member_id", strings.TrimSpace(memberID))
	}
	items := make([]entities.MembershipRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// appendOutbox stores the envelopes in order. Replaying an event id with the
// same payload is a no-op; a different payload is a conflict.
func (r *Repository) appendOutbox(tx *gorm.DB, envelopes []ports.EventEnvelope) error {
	for _, envelope := range envelopes {
		payload, err := json.Marshal(envelope)
		if err != nil {
			return r.logError("election_repo_append_outbox_marshal_failed", err,
				"event_id", strings.TrimSpace(envelope.EventID),
				"event_type", strings.TrimSpace(envelope.EventType),
			)
		}
		row := outboxModel{
			OutboxID:     strings.TrimSpace(envelope.EventID),
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    envelope.OccurredAt.UTC(),
		}
		if row.OutboxID == "" {
			row.OutboxID = uuid.NewString()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).Create(&row)
		if create.Error != nil {
			return r.logError("election_repo_append_outbox_insert_failed", create.Error,
				"outbox_id", row.OutboxID,
			)
		}
		if create.RowsAffected > 0 {
			continue
		}

		var existing outboxModel
		if err := tx.
			Select("payload").
			Where("outbox_id = ?", row.OutboxID).
			First(&existing).Error; err != nil {
			return r.logError("election_repo_append_outbox_load_existing_failed", err,
				"outbox_id", row.OutboxID,
			)
		}
		if !bytes.Equal(existing.Payload, row.Payload) {
			return domainerrors.ErrConflict
		}
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("position ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			Position:     row.Position,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) ReserveEvent(
	ctx context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	row := eventDedupModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: strings.TrimSpace(payloadHash),
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return false, r.logError("election_repo_reserve_event_failed", create.Error,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	if create.RowsAffected > 0 {
		return false, nil
	}

	var existing eventDedupModel
	if err := r.db.WithContext(ctx).
		Select("payload_hash").
		Where("event_id = ?", row.EventID).
		First(&existing).Error; err != nil {
		return false, r.logError("election_repo_reserve_event_load_existing_failed", err,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	if existing.PayloadHash != row.PayloadHash {
		return false, domainerrors.ErrConflict
	}
	return true, nil
}

func (r *Repository) ReleaseEvent(ctx context.Context, eventID string) error {
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Delete(&eventDedupModel{}).Error; err != nil {
		return r.logError("election_repo_release_event_failed", err, "event_id", strings.TrimSpace(eventID))
	}
	return nil
}

func (r *Repository) toEntity(row electionModel) (entities.Election, error) {
	election, err := row.toEntity()
	if err != nil {
		return nil, r.logError("election_repo_decode_failed", err, "election_id", row.ID)
	}
	return election, nil
}

func (r *Repository) toEntities(rows []electionModel) ([]entities.Election, error) {
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		election, err := r.toEntity(row)
		if err != nil {
			return nil, err
		}
		items = append(items, election)
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

// SystemClock and UUIDGenerator back the Clock and IDGenerator ports in
// database wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(context.Context) (string, error) {
	return uuid.NewString(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ElectionRegistry = (*Repository)(nil)
var _ ports.MembershipProjection = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.EventDedupStore = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
