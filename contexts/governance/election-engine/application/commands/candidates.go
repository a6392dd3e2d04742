package commands

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	application "hoa/contexts/governance/election-engine/application"
	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	contractsv1 "hoa/contracts/events/v1"
)

type JoinCandidateCommand struct {
	ElectionID string
	MemberID   string
	History    []entities.MembershipRecord
}

type LeaveCandidateCommand struct {
	ElectionID string
	MemberID   string
}

// JoinCandidate checks the member against the eligibility chain and adds them
// to the board election roster. It reports whether the roster changed.
func (uc ElectionUseCase) JoinCandidate(ctx context.Context, cmd JoinCandidateCommand) (_ bool, err error) {
	ctx, done := uc.startCommand(ctx, "join_candidate", attribute.String("election.id", cmd.ElectionID))
	defer done(&err)

	logger := application.ResolveLogger(uc.Logger)
	memberID := strings.TrimSpace(cmd.MemberID)
	if memberID == "" || hasVoteDelimiter(memberID) {
		uc.warnValidation("join_candidate", domainerrors.ErrInvalidCandidateInput, "election_id", cmd.ElectionID)
		return false, domainerrors.ErrInvalidCandidateInput
	}

	election, changed, err := uc.mutate(ctx, "join_candidate", cmd.ElectionID, func(election entities.Election) (*electionEvent, error) {
		board, ok := election.(*entities.BoardElection)
		if !ok {
			return nil, domainerrors.ErrInvalidState
		}
		if board.IsFinished() {
			return nil, domainerrors.ErrInvalidState
		}
		if _, err := uc.eligibility().Handle(cmd.History, board.AssociationID); err != nil {
			return nil, err
		}
		joined, err := board.Join(memberID)
		if err != nil || !joined {
			return nil, err
		}
		return recordEvent(contractsv1.EventElectionCandidateJoined, map[string]any{"candidate_id": memberID}), nil
	})
	if err != nil {
		var participantErr *domainerrors.ParticipantError
		if errors.As(err, &participantErr) {
			application.ResolveMetrics(uc.Metrics).EligibilityRejected(participantErr.Rule)
		}
		logger.Warn("candidate join rejected",
			"event", "election_candidate_join_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"election_id", strings.TrimSpace(cmd.ElectionID),
			"member_id", memberID,
			"error", err.Error(),
		)
		return false, err
	}
	if !changed {
		return false, nil
	}

	application.ResolveMetrics(uc.Metrics).CandidateChanged("join")
	logger.Info("candidate joined",
		"event", "election_candidate_joined",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", election.Details().ElectionID,
		"candidate_id", memberID,
	)
	return true, nil
}

// LeaveCandidate removes the member from the roster. It reports whether the
// roster changed.
func (uc ElectionUseCase) LeaveCandidate(ctx context.Context, cmd LeaveCandidateCommand) (_ bool, err error) {
	ctx, done := uc.startCommand(ctx, "leave_candidate", attribute.String("election.id", cmd.ElectionID))
	defer done(&err)

	logger := application.ResolveLogger(uc.Logger)
	memberID := strings.TrimSpace(cmd.MemberID)
	election, changed, err := uc.mutate(ctx, "leave_candidate", cmd.ElectionID, func(election entities.Election) (*electionEvent, error) {
		board, ok := election.(*entities.BoardElection)
		if !ok {
			return nil, domainerrors.ErrInvalidState
		}
		left, err := board.Leave(memberID)
		if err != nil || !left {
			return nil, err
		}
		return recordEvent(contractsv1.EventElectionCandidateLeft, map[string]any{"candidate_id": memberID}), nil
	})
	if err != nil {
		logger.Warn("candidate leave rejected",
			"event", "election_candidate_leave_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"election_id", strings.TrimSpace(cmd.ElectionID),
			"member_id", memberID,
			"error", err.Error(),
		)
		return false, err
	}
	if !changed {
		return false, nil
	}

	application.ResolveMetrics(uc.Metrics).CandidateChanged("leave")
	logger.Info("candidate left",
		"event", "election_candidate_left",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", election.Details().ElectionID,
		"candidate_id", memberID,
	)
	return true, nil
}

// JoinCandidateForAssociation resolves the association's open board election
// and the member's history, then joins as JoinCandidate does.
func (uc ElectionUseCase) JoinCandidateForAssociation(
	ctx context.Context,
	associationID int64,
	memberID string,
) (bool, error) {
	electionID, err := uc.openBoardElectionID(ctx, associationID)
	if err != nil {
		return false, err
	}
	if uc.Memberships == nil {
		return false, domainerrors.ErrInvalidParticipant
	}
	history, err := uc.Memberships.ListMemberships(ctx, strings.TrimSpace(memberID))
	if err != nil {
		return false, err
	}
	return uc.JoinCandidate(ctx, JoinCandidateCommand{
		ElectionID: electionID,
		MemberID:   memberID,
		History:    history,
	})
}

func (uc ElectionUseCase) LeaveCandidateForAssociation(
	ctx context.Context,
	associationID int64,
	memberID string,
) (bool, error) {
	electionID, err := uc.openBoardElectionID(ctx, associationID)
	if err != nil {
		return false, err
	}
	return uc.LeaveCandidate(ctx, LeaveCandidateCommand{
		ElectionID: electionID,
		MemberID:   memberID,
	})
}

// openBoardElectionID picks the most recently created board election of the
// association that has not finished yet.
func (uc ElectionUseCase) openBoardElectionID(ctx context.Context, associationID int64) (string, error) {
	elections, err := uc.Registry.ListByAssociation(ctx, associationID)
	if err != nil {
		return "", err
	}
	open := make([]*entities.BoardElection, 0, len(elections))
	for _, election := range elections {
		board, ok := election.(*entities.BoardElection)
		if !ok || board.IsFinished() {
			continue
		}
		open = append(open, board)
	}
	if len(open) == 0 {
		return "", domainerrors.ErrNoOpenBoardElection
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].SequenceNumber > open[j].SequenceNumber
	})
	return open[0].ElectionID, nil
}
