package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidElectionInput  = errors.New("invalid election input")
	ErrInvalidVoteInput      = errors.New("invalid vote input")
	ErrInvalidCandidateInput = errors.New("invalid candidate input")
	ErrElectionNotFound      = errors.New("election not found")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrNoOpenBoardElection   = errors.New("association has no open board election")
	ErrInvalidState          = errors.New("election is not in a valid state for this operation")
	ErrNoSuchVote            = errors.New("no such vote")
	ErrInvalidParticipant    = errors.New("invalid participant")
	ErrConflict              = errors.New("election conflict")
	ErrLockNotAcquired       = errors.New("election lock not acquired")
)

// ParticipantError reports which eligibility rule rejected a candidate.
type ParticipantError struct {
	Rule   string
	Reason string
}

func (e *ParticipantError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrInvalidParticipant.Error(), e.Reason, e.Rule)
}

func (e *ParticipantError) Unwrap() error {
	return ErrInvalidParticipant
}

func NewParticipantError(rule string, reason string) error {
	return &ParticipantError{Rule: rule, Reason: reason}
}
