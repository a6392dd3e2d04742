package commands

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	application "hoa/contexts/governance/election-engine/application"
	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	"hoa/contexts/governance/election-engine/ports"
	contractsv1 "hoa/contracts/events/v1"
)

type CreateProposalCommand struct {
	Name          string
	Description   string
	AssociationID int64
	ScheduledFor  time.Time
}

type CreateBoardElectionCommand struct {
	Name            string
	Description     string
	AssociationID   int64
	ScheduledFor    time.Time
	AmountOfWinners int
	Candidates      []string
}

// CreateProposal registers a scheduled proposal.
func (uc ElectionUseCase) CreateProposal(ctx context.Context, cmd CreateProposalCommand) (_ *entities.Proposal, err error) {
	ctx, done := uc.startCommand(ctx, "create_proposal", attribute.Int64("association.id", cmd.AssociationID))
	defer done(&err)

	details, err := uc.newDetails(cmd.Name, cmd.Description, cmd.AssociationID, cmd.ScheduledFor)
	if err != nil {
		return nil, err
	}
	proposal := entities.NewProposal(details)
	if err := uc.register(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// CreateProposalInDays schedules a proposal the given number of days from now.
func (uc ElectionUseCase) CreateProposalInDays(
	ctx context.Context,
	name string,
	description string,
	associationID int64,
	days int,
) (*entities.Proposal, error) {
	if days < 0 {
		return nil, domainerrors.ErrInvalidElectionInput
	}
	return uc.CreateProposal(ctx, CreateProposalCommand{
		Name:          name,
		Description:   description,
		AssociationID: associationID,
		ScheduledFor:  uc.now().AddDate(0, 0, days),
	})
}

// CreateBoardElection registers a scheduled board election with its initial
// candidate roster.
func (uc ElectionUseCase) CreateBoardElection(
	ctx context.Context,
	cmd CreateBoardElectionCommand,
) (_ *entities.BoardElection, err error) {
	ctx, done := uc.startCommand(ctx, "create_board_election", attribute.Int64("association.id", cmd.AssociationID))
	defer done(&err)

	details, err := uc.newDetails(cmd.Name, cmd.Description, cmd.AssociationID, cmd.ScheduledFor)
	if err != nil {
		return nil, err
	}
	for _, candidate := range cmd.Candidates {
		if hasVoteDelimiter(candidate) {
			uc.warnValidation("create_board_election", domainerrors.ErrInvalidCandidateInput, "association_id", cmd.AssociationID)
			return nil, domainerrors.ErrInvalidCandidateInput
		}
	}
	election, err := entities.NewBoardElection(details, cmd.AmountOfWinners, cmd.Candidates)
	if err != nil {
		uc.warnValidation("create_board_election", err, "association_id", cmd.AssociationID)
		return nil, err
	}
	if err := uc.register(ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

// OpenElection moves a scheduled election to ongoing.
func (uc ElectionUseCase) OpenElection(ctx context.Context, electionID string) (_ entities.Election, err error) {
	ctx, done := uc.startCommand(ctx, "open", attribute.String("election.id", electionID))
	defer done(&err)

	now := uc.now()
	election, changed, err := uc.mutate(ctx, "open", electionID, func(election entities.Election) (*electionEvent, error) {
		if err := election.Open(now); err != nil {
			return nil, err
		}
		return recordEvent(contractsv1.EventElectionOpened, nil), nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		application.ResolveMetrics(uc.Metrics).ElectionOpened()
		application.ResolveLogger(uc.Logger).Info("election opened",
			"event", "election_opened",
			"module", application.ModuleName,
			"layer", "application",
			"election_id", election.Details().ElectionID,
			"kind", string(election.Kind()),
		)
	}
	return election, nil
}

// Conclude finishes the election and returns its outcome. Concluding an
// already finished election recomputes the outcome without saving.
func (uc ElectionUseCase) Conclude(ctx context.Context, electionID string) (_ entities.Outcome, err error) {
	ctx, done := uc.startCommand(ctx, "conclude", attribute.String("election.id", electionID))
	defer done(&err)

	var outcome entities.Outcome
	election, changed, err := uc.mutate(ctx, "conclude", electionID, func(election entities.Election) (*electionEvent, error) {
		wasFinished := election.Details().IsFinished()
		outcome = election.Conclude()
		if wasFinished {
			return nil, nil
		}
		return recordEvent(contractsv1.EventElectionConcluded, map[string]any{
			"passed":  outcome.Passed,
			"winners": outcome.Winners,
		}), nil
	})
	if err != nil {
		return entities.Outcome{}, err
	}
	if !changed {
		return outcome, nil
	}

	application.ResolveMetrics(uc.Metrics).ElectionConcluded(string(election.Kind()))
	application.ResolveLogger(uc.Logger).Info("election concluded",
		"event", "election_concluded",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", outcome.ElectionID,
		"kind", string(outcome.Kind),
		"passed", outcome.Passed,
		"winners", strings.Join(outcome.Winners, ","),
		"vote_count", election.Details().VoteCount,
	)
	return outcome, nil
}

func (uc ElectionUseCase) newDetails(
	name string,
	description string,
	associationID int64,
	scheduledFor time.Time,
) (entities.ElectionDetails, error) {
	details, err := entities.NewElectionDetails(name, description, associationID, scheduledFor, uc.now())
	if err != nil {
		uc.warnValidation("create_election", err, "association_id", associationID)
		return entities.ElectionDetails{}, err
	}
	return details, nil
}

func (uc ElectionUseCase) register(ctx context.Context, election entities.Election) error {
	logger := application.ResolveLogger(uc.Logger)
	electionID, err := uc.Registry.Create(ctx, election, func(created entities.Election) ([]ports.EventEnvelope, error) {
		return uc.envelopes(ctx, recordEvent(contractsv1.EventElectionCreated, map[string]any{
			"name":          created.Details().Name,
			"scheduled_for": created.Details().ScheduledFor.Format(time.RFC3339),
		}), created)
	})
	if err != nil {
		logger.Error("election create failed",
			"event", "election_create_failed",
			"module", application.ModuleName,
			"layer", "application",
			"kind", string(election.Kind()),
			"error", err.Error(),
		)
		return err
	}
	election.Details().ElectionID = electionID
	application.ResolveMetrics(uc.Metrics).ElectionCreated(string(election.Kind()))
	logger.Info("election created",
		"event", "election_created",
		"module", application.ModuleName,
		"layer", "application",
		"election_id", electionID,
		"sequence_number", election.Details().SequenceNumber,
		"association_id", election.Details().AssociationID,
		"kind", string(election.Kind()),
	)
	return nil
}

func (uc ElectionUseCase) warnValidation(command string, err error, attrs ...any) {
	fields := make([]any, 0, len(attrs)+10)
	fields = append(fields,
		"event", "election_validation_failed",
		"module", application.ModuleName,
		"layer", "application",
		"command", command,
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	application.ResolveLogger(uc.Logger).Warn("election validation failed", fields...)
}
