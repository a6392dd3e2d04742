package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	application "hoa/contexts/governance/election-engine/application"
	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	"hoa/contexts/governance/election-engine/domain/services"
	"hoa/contexts/governance/election-engine/ports"
)

const (
	tracerName             = "hoa/election-engine"
	defaultMaxSaveAttempts = 3
)

// ElectionUseCase orchestrates every election write. Mutations on one
// election run under its lock and are retried when the registry reports a
// version conflict. Each write is saved together with its event; without an
// IDGen no events are recorded.
type ElectionUseCase struct {
	Registry        ports.ElectionRegistry
	Locker          ports.ElectionLocker
	Memberships     ports.MembershipHistory
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	Metrics         ports.Metrics
	Eligibility     services.Chain
	MaxSaveAttempts int
	Logger          *slog.Logger
	Tracer          trace.Tracer
}

func (uc ElectionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc ElectionUseCase) eligibility() services.Chain {
	if uc.Eligibility == nil {
		return services.BoardCandidacyChain()
	}
	return uc.Eligibility
}

func (uc ElectionUseCase) maxSaveAttempts() int {
	if uc.MaxSaveAttempts <= 0 {
		return defaultMaxSaveAttempts
	}
	return uc.MaxSaveAttempts
}

// startCommand opens a span for command and returns the func that closes it
// and records the command result.
func (uc ElectionUseCase) startCommand(
	ctx context.Context,
	command string,
	attrs ...attribute.KeyValue,
) (context.Context, func(*error)) {
	tracer := uc.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, span := tracer.Start(ctx, "election."+command, trace.WithAttributes(attrs...))
	started := time.Now()
	metrics := application.ResolveMetrics(uc.Metrics)
	return ctx, func(errp *error) {
		result := "ok"
		if errp != nil && *errp != nil {
			result = resultLabel(*errp)
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		metrics.ObserveCommand(command, result, time.Since(started))
		span.End()
	}
}

// mutate loads the election, applies change and saves it together with the
// event change returns. A nil event means nothing changed and nothing is
// saved. change always receives a fresh copy, so a failed attempt never leaks
// partial state.
func (uc ElectionUseCase) mutate(
	ctx context.Context,
	command string,
	electionID string,
	change func(entities.Election) (*electionEvent, error),
) (entities.Election, bool, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return nil, false, domainerrors.ErrElectionNotFound
	}

	if uc.Locker != nil {
		unlock, err := uc.Locker.Lock(ctx, electionID)
		if err != nil {
			logger.Warn("election lock failed",
				"event", "election_lock_failed",
				"module", application.ModuleName,
				"layer", "application",
				"command", command,
				"election_id", electionID,
				"error", err.Error(),
			)
			return nil, false, err
		}
		defer unlock()
	}

	var lastErr error
	for attempt := 1; attempt <= uc.maxSaveAttempts(); attempt++ {
		election, err := uc.Registry.FindByID(ctx, electionID)
		if err != nil {
			return nil, false, err
		}
		event, err := change(election)
		if err != nil {
			return nil, false, err
		}
		if event == nil {
			return election, false, nil
		}
		election.Details().UpdatedAt = uc.now()
		envelopes, err := uc.envelopes(ctx, event, election)
		if err != nil {
			return nil, false, err
		}
		err = uc.Registry.Save(ctx, election, envelopes...)
		if err == nil {
			return election, true, nil
		}
		if !errors.Is(err, domainerrors.ErrConflict) {
			logger.Error("election save failed",
				"event", "election_save_failed",
				"module", application.ModuleName,
				"layer", "application",
				"command", command,
				"election_id", electionID,
				"error", err.Error(),
			)
			return nil, false, err
		}
		lastErr = err
		application.ResolveMetrics(uc.Metrics).SaveConflict(command)
		logger.Warn("election save conflict; retrying",
			"event", "election_save_conflict",
			"module", application.ModuleName,
			"layer", "application",
			"command", command,
			"election_id", electionID,
			"attempt", attempt,
		)
	}
	return nil, false, lastErr
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrElectionNotFound),
		errors.Is(err, domainerrors.ErrCandidateNotFound),
		errors.Is(err, domainerrors.ErrNoOpenBoardElection):
		return "not_found"
	case errors.Is(err, domainerrors.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domainerrors.ErrNoSuchVote):
		return "no_such_vote"
	case errors.Is(err, domainerrors.ErrInvalidParticipant):
		return "invalid_participant"
	case errors.Is(err, domainerrors.ErrInvalidElectionInput),
		errors.Is(err, domainerrors.ErrInvalidVoteInput),
		errors.Is(err, domainerrors.ErrInvalidCandidateInput):
		return "invalid_input"
	case errors.Is(err, domainerrors.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
