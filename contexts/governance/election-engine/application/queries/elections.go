package queries

import (
	"context"
	"sort"
	"strings"

	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	"hoa/contexts/governance/election-engine/ports"
)

type ElectionQueries struct {
	Registry ports.ElectionRegistry
}

// CandidateStanding is a candidate's live tally. Rank follows the same order
// used to pick winners.
type CandidateStanding struct {
	CandidateID string
	Votes       int
	Rank        int
}

type Standings struct {
	ElectionID string
	Kind       entities.ElectionKind
	Status     entities.ElectionStatus
	VoteCount  int
	Yes        int
	No         int
	Candidates []CandidateStanding
}

// GetElection returns a copy of the election that callers may read freely.
func (q ElectionQueries) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return nil, domainerrors.ErrElectionNotFound
	}
	election, err := q.Registry.FindByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	return election.Clone(), nil
}

func (q ElectionQueries) FindBySequenceNumber(ctx context.Context, sequenceNumber int64) (entities.Election, error) {
	if sequenceNumber <= 0 {
		return nil, domainerrors.ErrElectionNotFound
	}
	election, err := q.Registry.FindBySequenceNumber(ctx, sequenceNumber)
	if err != nil {
		return nil, err
	}
	return election.Clone(), nil
}

func (q ElectionQueries) ListByAssociation(ctx context.Context, associationID int64) ([]entities.Election, error) {
	elections, err := q.Registry.ListByAssociation(ctx, associationID)
	if err != nil {
		return nil, err
	}
	items := make([]entities.Election, 0, len(elections))
	for _, election := range elections {
		items = append(items, election.Clone())
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Details().SequenceNumber < items[j].Details().SequenceNumber
	})
	return items, nil
}

// Standings tallies the votes cast so far without concluding the election.
func (q ElectionQueries) Standings(ctx context.Context, electionID string) (Standings, error) {
	election, err := q.GetElection(ctx, electionID)
	if err != nil {
		return Standings{}, err
	}
	details := election.Details()
	standings := Standings{
		ElectionID: details.ElectionID,
		Kind:       election.Kind(),
		Status:     details.Status,
		VoteCount:  details.VoteCount,
	}
	switch e := election.(type) {
	case *entities.Proposal:
		standings.Yes, standings.No = e.Tally()
	case *entities.BoardElection:
		counts := e.Tally()
		ranked := e.Ranked()
		standings.Candidates = make([]CandidateStanding, 0, len(ranked))
		for index, candidateID := range ranked {
			standings.Candidates = append(standings.Candidates, CandidateStanding{
				CandidateID: candidateID,
				Votes:       counts[candidateID],
				Rank:        index + 1,
			})
		}
	}
	return standings, nil
}
