package electionengine_test

import (
	"context"
	"testing"
	"time"

	electionengine "hoa/contexts/governance/election-engine"
	"hoa/contexts/governance/election-engine/application/commands"
	"hoa/contexts/governance/election-engine/domain/entities"
	"hoa/contexts/governance/election-engine/domain/services"
)

func TestInMemoryModuleBoardElectionFlow(t *testing.T) {
	ctx := context.Background()
	scheduled := time.Now().UTC().Add(-time.Hour)
	details, err := entities.NewElectionDetails("Board 2026", "Annual board election", 12, scheduled, scheduled)
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	details.ElectionID = "board-12"
	board, err := entities.NewBoardElection(details, 1, []string{"alice"})
	if err != nil {
		t.Fatalf("new board election failed: %v", err)
	}
	module := electionengine.NewInMemoryModule([]entities.Election{board}, nil)

	if err := module.Opener.RunOnce(ctx); err != nil {
		t.Fatalf("opener failed: %v", err)
	}

	if err := module.Store.UpsertMembership(ctx, entities.MembershipRecord{
		MembershipID:  "ms-bob",
		MemberID:      "bob",
		AssociationID: 12,
		JoinedAt:      time.Now().UTC().AddDate(-4, 0, 0),
		Duration:      4 * services.Year,
	}); err != nil {
		t.Fatalf("upsert membership failed: %v", err)
	}
	joined, err := module.Commands.JoinCandidateForAssociation(ctx, 12, "bob")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if !joined {
		t.Fatalf("expected bob to join the roster")
	}

	for _, member := range []string{"v1", "v2"} {
		if _, err := module.Commands.CastVote(ctx, commands.CastVoteCommand{
			ElectionID: board.ElectionID,
			MemberID:   member,
			Choice:     "bob",
		}); err != nil {
			t.Fatalf("cast vote failed: %v", err)
		}
	}

	standings, err := module.Queries.Standings(ctx, board.ElectionID)
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if standings.Status != entities.ElectionStatusOngoing || standings.Candidates[0].CandidateID != "bob" {
		t.Fatalf("unexpected standings: %+v", standings)
	}

	outcome, err := module.Commands.Conclude(ctx, board.ElectionID)
	if err != nil {
		t.Fatalf("conclude failed: %v", err)
	}
	if len(outcome.Winners) != 1 || outcome.Winners[0] != "bob" {
		t.Fatalf("expected bob to win, got %v", outcome.Winners)
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 100)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 5 {
		t.Fatalf("expected 5 outbox events, got %d", len(pending))
	}
}
