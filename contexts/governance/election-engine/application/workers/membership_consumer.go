package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "hoa/contexts/governance/election-engine/application"
	"hoa/contexts/governance/election-engine/domain/entities"
	"hoa/contexts/governance/election-engine/ports"
	contractsv1 "hoa/contracts/events/v1"
)

const defaultMembershipCG = "election-engine-membership-cg"

// MembershipConsumer keeps the local membership history projection in sync
// with membership.recorded events. The projection feeds the eligibility chain
// for association scoped candidacy requests.
type MembershipConsumer struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Memberships   ports.MembershipProjection
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Disabled      bool
	Logger        *slog.Logger
}

func (c MembershipConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("membership consumer disabled by feature flag",
			"event", "election_membership_consumer_disabled",
			"module", application.ModuleName,
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultMembershipCG
	}
	if err := c.Subscriber.Subscribe(ctx, contractsv1.EventMembershipRecorded, group, c.handleMembershipRecorded); err != nil {
		logger.Error("membership consumer subscribe failed",
			"event", "election_membership_consumer_subscribe_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"topic", contractsv1.EventMembershipRecorded,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("membership consumer subscription active",
		"event", "election_membership_consumer_started",
		"module", application.ModuleName,
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

// handleMembershipRecorded projects one membership.recorded event. Payloads
// that can never be projected are logged and acknowledged. A failed upsert
// releases the dedup reservation and returns the error, so the redelivery is
// projected again.
func (c MembershipConsumer) handleMembershipRecorded(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	record, ok := c.decodeMembership(event)
	if !ok {
		return nil
	}

	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), c.now().Add(c.dedupTTL()))
	if err != nil {
		logger.Error("membership event dedupe failed",
			"event", "election_membership_dedupe_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	if alreadyProcessed {
		logger.Debug("membership.recorded replay skipped",
			"event", "election_membership_replayed",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	if err := c.Memberships.UpsertMembership(ctx, record); err != nil {
		logger.Error("membership projection upsert failed",
			"event", "election_membership_upsert_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", event.EventID,
			"membership_id", record.MembershipID,
			"error", err.Error(),
		)
		if releaseErr := c.Dedup.ReleaseEvent(ctx, event.EventID); releaseErr != nil {
			logger.Error("membership event release failed",
				"event", "election_membership_release_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"event_id", event.EventID,
				"error", releaseErr.Error(),
			)
			return errors.Join(err, releaseErr)
		}
		return err
	}
	logger.Info("membership.recorded consumed",
		"event", "election_membership_consumed",
		"module", application.ModuleName,
		"layer", "worker",
		"event_id", event.EventID,
		"membership_id", record.MembershipID,
		"association_id", record.AssociationID,
	)
	return nil
}

func (c MembershipConsumer) decodeMembership(event ports.EventEnvelope) (entities.MembershipRecord, bool) {
	logger := application.ResolveLogger(c.Logger)
	var payload contractsv1.MembershipRecorded
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("membership.recorded payload decode failed",
			"event", "election_membership_decode_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return entities.MembershipRecord{}, false
	}

	record := entities.MembershipRecord{
		MembershipID:  strings.TrimSpace(payload.MembershipID),
		MemberID:      strings.TrimSpace(payload.MemberID),
		AssociationID: payload.AssociationID,
		IsBoardMember: payload.IsBoardMember,
		JoinedAt:      payload.JoinedAt.UTC(),
		Duration:      time.Duration(payload.DurationSeconds) * time.Second,
	}
	if payload.EndedAt != nil {
		endedAt := payload.EndedAt.UTC()
		record.EndedAt = &endedAt
	}
	if record.MembershipID == "" || record.MemberID == "" {
		logger.Warn("membership.recorded missing identifiers",
			"event", "election_membership_invalid",
			"module", application.ModuleName,
			"layer", "worker",
			"event_id", event.EventID,
		)
		return entities.MembershipRecord{}, false
	}
	return record, true
}

func (c MembershipConsumer) now() time.Time {
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}
	return now
}

func (c MembershipConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}
