package services

import (
	"fmt"
	"time"

	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
)

const (
	Year = 365 * 24 * time.Hour

	MinimumAssociationTenure = Year
	MaximumBoardTenure       = 10 * Year
)

// Rule checks one eligibility condition against a member's history for the
// target association. Rules are pure and return a *ParticipantError on
// failure.
type Rule func(history []entities.MembershipRecord, associationID int64) error

// Chain runs rules in order and stops at the first failure.
type Chain []Rule

func (c Chain) Handle(history []entities.MembershipRecord, associationID int64) (bool, error) {
	for _, rule := range c {
		if rule == nil {
			continue
		}
		if err := rule(history, associationID); err != nil {
			return false, err
		}
	}
	return true, nil
}

// BoardCandidacyChain is the rule order applied when a member asks to stand
// for a board election.
func BoardCandidacyChain() Chain {
	return Chain{
		TimeInCurrentAssociation,
		NotInAnyOtherBoard,
		NotBoardForTooLong,
	}
}

// TimeInCurrentAssociation requires at least a year of cumulative membership
// in the target association.
func TimeInCurrentAssociation(history []entities.MembershipRecord, associationID int64) error {
	var tenure time.Duration
	found := false
	for _, record := range history {
		if record.AssociationID != associationID {
			continue
		}
		found = true
		tenure += record.Duration
	}
	if !found {
		return domainerrors.NewParticipantError("time_in_current_association",
			fmt.Sprintf("member has no membership in association %d", associationID))
	}
	if tenure < MinimumAssociationTenure {
		return domainerrors.NewParticipantError("time_in_current_association",
			fmt.Sprintf("member has %d days in association %d, at least %d required",
				days(tenure), associationID, days(MinimumAssociationTenure)))
	}
	return nil
}

// NotInAnyOtherBoard rejects members currently serving on the board of a
// different association. Serving on the target board is allowed.
func NotInAnyOtherBoard(history []entities.MembershipRecord, associationID int64) error {
	for _, record := range history {
		if !record.IsBoardMember || !record.IsCurrent() || record.AssociationID == associationID {
			continue
		}
		return domainerrors.NewParticipantError("not_in_any_other_board",
			fmt.Sprintf("member is on the board of association %d", record.AssociationID))
	}
	return nil
}

// NotBoardForTooLong rejects members whose board service across all
// associations exceeds ten years.
func NotBoardForTooLong(history []entities.MembershipRecord, _ int64) error {
	var tenure time.Duration
	for _, record := range history {
		if record.IsBoardMember {
			tenure += record.Duration
		}
	}
	if tenure > MaximumBoardTenure {
		return domainerrors.NewParticipantError("not_board_for_too_long",
			fmt.Sprintf("member has %d days of board service, at most %d allowed",
				days(tenure), days(MaximumBoardTenure)))
	}
	return nil
}

func days(d time.Duration) int64 {
	return int64(d / (24 * time.Hour))
}
