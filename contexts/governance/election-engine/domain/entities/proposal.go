package entities

import (
	"maps"
	"strings"

	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
)

// Proposal is a yes/no election. Ties keep the status quo.
type Proposal struct {
	ElectionDetails
	Votes         map[string]bool
	WinningChoice bool
}

func NewProposal(details ElectionDetails) *Proposal {
	return &Proposal{
		ElectionDetails: details,
		Votes:           make(map[string]bool),
	}
}

func (p *Proposal) Kind() ElectionKind {
	return ElectionKindProposal
}

// Vote records or replaces memberID's choice. Only new voters increase the
// vote count.
func (p *Proposal) Vote(memberID string, choice bool) error {
	if err := p.requireOngoing(); err != nil {
		return err
	}
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return domainerrors.ErrInvalidVoteInput
	}
	if p.Votes == nil {
		p.Votes = make(map[string]bool)
	}
	if _, exists := p.Votes[memberID]; !exists {
		p.VoteCount++
	}
	p.Votes[memberID] = choice
	return nil
}

func (p *Proposal) RemoveVote(memberID string) error {
	if err := p.requireOngoing(); err != nil {
		return err
	}
	memberID = strings.TrimSpace(memberID)
	if _, exists := p.Votes[memberID]; !exists {
		return domainerrors.ErrNoSuchVote
	}
	delete(p.Votes, memberID)
	p.decrementVoteCount()
	return nil
}

// Tally returns the number of true and false votes.
func (p *Proposal) Tally() (yes int, no int) {
	for _, choice := range p.Votes {
		if choice {
			yes++
		} else {
			no++
		}
	}
	return yes, no
}

// FindOutcome passes the proposal only on a strict majority of true votes.
func (p *Proposal) FindOutcome() bool {
	yes, no := p.Tally()
	return yes > no
}

// Conclude finishes the proposal. On an already finished proposal it only
// recomputes the outcome from the frozen votes.
func (p *Proposal) Conclude() Outcome {
	passed := p.FindOutcome()
	if !p.IsFinished() {
		p.WinningChoice = passed
		p.finish()
	}
	return Outcome{
		ElectionID: p.ElectionID,
		Kind:       ElectionKindProposal,
		Passed:     passed,
	}
}

func (p *Proposal) Clone() Election {
	cloned := *p
	cloned.Votes = maps.Clone(p.Votes)
	if cloned.Votes == nil {
		cloned.Votes = make(map[string]bool)
	}
	return &cloned
}

func (p *Proposal) sealed() {}
