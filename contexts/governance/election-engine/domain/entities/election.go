package entities

import (
	"strings"
	"time"

	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
)

type ElectionStatus string

const (
	ElectionStatusScheduled ElectionStatus = "scheduled"
	ElectionStatusOngoing   ElectionStatus = "ongoing"
	ElectionStatusFinished  ElectionStatus = "finished"
)

type ElectionKind string

const (
	ElectionKindProposal      ElectionKind = "proposal"
	ElectionKindBoardElection ElectionKind = "board_election"
)

// ElectionDetails holds the state shared by every election kind.
// ElectionID, SequenceNumber and Version are owned by the registry.
type ElectionDetails struct {
	ElectionID     string
	SequenceNumber int64
	AssociationID  int64
	Name           string
	Description    string
	ScheduledFor   time.Time
	Status         ElectionStatus
	VoteCount      int
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Election is implemented only by *Proposal and *BoardElection. Callers that
// need kind specific behavior switch on the concrete type.
type Election interface {
	Details() *ElectionDetails
	Kind() ElectionKind
	Open(now time.Time) error
	RemoveVote(memberID string) error
	Conclude() Outcome
	Clone() Election
	sealed()
}

// Outcome is the result of concluding an election. Passed is meaningful for
// proposals, Winners for board elections.
type Outcome struct {
	ElectionID string
	Kind       ElectionKind
	Passed     bool
	Winners    []string
}

// NewElectionDetails validates creation input and returns scheduled details.
func NewElectionDetails(
	name string,
	description string,
	associationID int64,
	scheduledFor time.Time,
	now time.Time,
) (ElectionDetails, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" || associationID < 0 || scheduledFor.IsZero() {
		return ElectionDetails{}, domainerrors.ErrInvalidElectionInput
	}
	if scheduledFor.UTC().Before(now.UTC()) {
		return ElectionDetails{}, domainerrors.ErrInvalidElectionInput
	}
	return ElectionDetails{
		AssociationID: associationID,
		Name:          name,
		Description:   description,
		ScheduledFor:  scheduledFor.UTC(),
		Status:        ElectionStatusScheduled,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}, nil
}

func (d *ElectionDetails) Details() *ElectionDetails {
	return d
}

func (d *ElectionDetails) IsFinished() bool {
	return d.Status == ElectionStatusFinished
}

// Open moves a scheduled election to ongoing once its scheduled instant has
// been reached.
func (d *ElectionDetails) Open(now time.Time) error {
	if d.Status != ElectionStatusScheduled {
		return domainerrors.ErrInvalidState
	}
	if now.UTC().Before(d.ScheduledFor.UTC()) {
		return domainerrors.ErrInvalidState
	}
	d.Status = ElectionStatusOngoing
	return nil
}

func (d *ElectionDetails) requireOngoing() error {
	if d.Status != ElectionStatusOngoing {
		return domainerrors.ErrInvalidState
	}
	return nil
}

func (d *ElectionDetails) finish() {
	d.Status = ElectionStatusFinished
}

func (d *ElectionDetails) decrementVoteCount() {
	if d.VoteCount > 0 {
		d.VoteCount--
	}
}
