package commands

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	application "hoa/contexts/governance/election-engine/application"
	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	contractsv1 "hoa/contracts/events/v1"
)

// CastVoteCommand carries a member's vote. Choice is a truthy token for
// proposals and a candidate id for board elections.
type CastVoteCommand struct {
	ElectionID string
	MemberID   string
	Choice     string
}

type RetractVoteCommand struct {
	ElectionID string
	MemberID   string
}

// CastVote records the vote and returns the election's updated vote count.
func (uc ElectionUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (_ int, err error) {
	ctx, done := uc.startCommand(ctx, "cast_vote", attribute.String("election.id", cmd.ElectionID))
	defer done(&err)

	logger := application.ResolveLogger(uc.Logger)
	memberID := strings.TrimSpace(cmd.MemberID)
	if memberID == "" || hasVoteDelimiter(memberID) {
		uc.warnValidation("cast_vote", domainerrors.ErrInvalidVoteInput, "election_id", cmd.ElectionID)
		return 0, domainerrors.ErrInvalidVoteInput
	}

	// The choice is kept out of the event so ballots stay secret downstream.
	cast := recordEvent(contractsv1.EventElectionVoteCast, map[string]any{"member_id": memberID})
	election, _, err := uc.mutate(ctx, "cast_vote", cmd.ElectionID, func(election entities.Election) (*electionEvent, error) {
		switch e := election.(type) {
		case *entities.Proposal:
			if err := e.Vote(memberID, entities.ParseChoice(cmd.Choice)); err != nil {
				return nil, err
			}
		case *entities.BoardElection:
			if hasVoteDelimiter(cmd.Choice) {
				return nil, domainerrors.ErrInvalidVoteInput
			}
			if err := e.Vote(memberID, cmd.Choice); err != nil {
				return nil, err
			}
		default:
			return nil, domainerrors.ErrInvalidVoteInput
		}
		return cast, nil
	})
	if err != nil {
		logger.Warn("vote rejected",
			"event", "election_vote_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"election_id", strings.TrimSpace(cmd.ElectionID),
			"member_id", memberID,
			"error", err.Error(),
		)
		return 0, err
	}

	application.ResolveMetrics(uc.Metrics).VoteRecorded(string(election.Kind()), "cast")
	logger.Info("vote cast",
		"event", "election_vote_cast",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", election.Details().ElectionID,
		"member_id", memberID,
		"vote_count", election.Details().VoteCount,
	)
	return election.Details().VoteCount, nil
}

// RetractVote removes the member's vote and returns the updated vote count.
func (uc ElectionUseCase) RetractVote(ctx context.Context, cmd RetractVoteCommand) (_ int, err error) {
	ctx, done := uc.startCommand(ctx, "retract_vote", attribute.String("election.id", cmd.ElectionID))
	defer done(&err)

	logger := application.ResolveLogger(uc.Logger)
	memberID := strings.TrimSpace(cmd.MemberID)
	election, _, err := uc.mutate(ctx, "retract_vote", cmd.ElectionID, func(election entities.Election) (*electionEvent, error) {
		if err := election.RemoveVote(memberID); err != nil {
			return nil, err
		}
		return recordEvent(contractsv1.EventElectionVoteRetracted, map[string]any{"member_id": memberID}), nil
	})
	if err != nil {
		logger.Warn("vote retraction rejected",
			"event", "election_vote_retract_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"election_id", strings.TrimSpace(cmd.ElectionID),
			"member_id", memberID,
			"error", err.Error(),
		)
		return 0, err
	}

	application.ResolveMetrics(uc.Metrics).VoteRecorded(string(election.Kind()), "retract")
	logger.Info("vote retracted",
		"event", "election_vote_retracted",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", election.Details().ElectionID,
		"member_id", memberID,
		"vote_count", election.Details().VoteCount,
	)
	return election.Details().VoteCount, nil
}

// Vote maps are stored as comma separated member=choice pairs without
// escaping, so ids may not contain either delimiter.
func hasVoteDelimiter(id string) bool {
	return strings.ContainsAny(id, ",=")
}
