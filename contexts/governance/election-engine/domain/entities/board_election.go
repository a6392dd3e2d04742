package entities

import (
	"maps"
	"slices"
	"sort"
	"strings"

	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
)

// BoardElection selects AmountOfWinners candidates by vote tally. Candidates
// keeps join order, which breaks ties at the cutoff.
type BoardElection struct {
	ElectionDetails
	AmountOfWinners int
	Candidates      []string
	Votes           map[string]string
	Winners         []string
}

func NewBoardElection(details ElectionDetails, amountOfWinners int, candidates []string) (*BoardElection, error) {
	if amountOfWinners < 1 {
		return nil, domainerrors.ErrInvalidElectionInput
	}
	election := &BoardElection{
		ElectionDetails: details,
		AmountOfWinners: amountOfWinners,
		Votes:           make(map[string]string),
	}
	for _, candidateID := range candidates {
		candidateID = strings.TrimSpace(candidateID)
		if candidateID == "" {
			return nil, domainerrors.ErrInvalidCandidateInput
		}
		if !election.HasCandidate(candidateID) {
			election.Candidates = append(election.Candidates, candidateID)
		}
	}
	return election, nil
}

func (b *BoardElection) Kind() ElectionKind {
	return ElectionKindBoardElection
}

func (b *BoardElection) HasCandidate(candidateID string) bool {
	return slices.Contains(b.Candidates, candidateID)
}

// Join adds candidateID to the roster. It reports whether the roster changed.
func (b *BoardElection) Join(candidateID string) (bool, error) {
	if b.IsFinished() {
		return false, domainerrors.ErrInvalidState
	}
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return false, domainerrors.ErrInvalidCandidateInput
	}
	if b.HasCandidate(candidateID) {
		return false, nil
	}
	b.Candidates = append(b.Candidates, candidateID)
	return true, nil
}

// Leave removes candidateID from the roster. Votes already cast for the
// candidate are kept.
func (b *BoardElection) Leave(candidateID string) (bool, error) {
	if b.IsFinished() {
		return false, domainerrors.ErrInvalidState
	}
	candidateID = strings.TrimSpace(candidateID)
	index := slices.Index(b.Candidates, candidateID)
	if index < 0 {
		return false, nil
	}
	b.Candidates = slices.Delete(b.Candidates, index, index+1)
	return true, nil
}

// Vote records or replaces memberID's choice of candidate.
func (b *BoardElection) Vote(memberID string, candidateID string) error {
	if err := b.requireOngoing(); err != nil {
		return err
	}
	memberID = strings.TrimSpace(memberID)
	candidateID = strings.TrimSpace(candidateID)
	if memberID == "" || candidateID == "" {
		return domainerrors.ErrInvalidVoteInput
	}
	if !b.HasCandidate(candidateID) {
		return domainerrors.ErrCandidateNotFound
	}
	if b.Votes == nil {
		b.Votes = make(map[string]string)
	}
	if _, exists := b.Votes[memberID]; !exists {
		b.VoteCount++
	}
	b.Votes[memberID] = candidateID
	return nil
}

func (b *BoardElection) RemoveVote(memberID string) error {
	if err := b.requireOngoing(); err != nil {
		return err
	}
	memberID = strings.TrimSpace(memberID)
	if _, exists := b.Votes[memberID]; !exists {
		return domainerrors.ErrNoSuchVote
	}
	delete(b.Votes, memberID)
	b.decrementVoteCount()
	return nil
}

// Tally counts votes per candidate id, including departed candidates.
func (b *BoardElection) Tally() map[string]int {
	counts := make(map[string]int, len(b.Candidates))
	for _, candidateID := range b.Votes {
		counts[candidateID]++
	}
	return counts
}

// Ranked orders the current candidates by tally, highest first. Equal
// tallies keep join order, so the earlier candidate wins the tie.
func (b *BoardElection) Ranked() []string {
	counts := b.Tally()
	ranked := slices.Clone(b.Candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	return ranked
}

// FindOutcome returns the top AmountOfWinners candidates of Ranked.
func (b *BoardElection) FindOutcome() []string {
	ranked := b.Ranked()
	if len(ranked) > b.AmountOfWinners {
		ranked = ranked[:b.AmountOfWinners]
	}
	return ranked
}

func (b *BoardElection) Conclude() Outcome {
	winners := b.FindOutcome()
	if !b.IsFinished() {
		b.Winners = slices.Clone(winners)
		b.finish()
	}
	return Outcome{
		ElectionID: b.ElectionID,
		Kind:       ElectionKindBoardElection,
		Winners:    winners,
	}
}

func (b *BoardElection) Clone() Election {
	cloned := *b
	cloned.Candidates = slices.Clone(b.Candidates)
	cloned.Winners = slices.Clone(b.Winners)
	cloned.Votes = maps.Clone(b.Votes)
	if cloned.Votes == nil {
		cloned.Votes = make(map[string]string)
	}
	return &cloned
}

func (b *BoardElection) sealed() {}
