package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
)

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

func record(associationID int64, board bool, years int) entities.MembershipRecord {
	return entities.MembershipRecord{
		MemberID:      "member-1",
		AssociationID: associationID,
		IsBoardMember: board,
		JoinedAt:      epoch,
		Duration:      time.Duration(years) * Year,
	}
}

func requireParticipantError(t *testing.T, err error, rule string) {
	t.Helper()
	require.ErrorIs(t, err, domainerrors.ErrInvalidParticipant)
	var participantErr *domainerrors.ParticipantError
	require.True(t, errors.As(err, &participantErr))
	assert.Equal(t, rule, participantErr.Rule)
	assert.NotEmpty(t, participantErr.Reason)
}

func TestTimeInCurrentAssociation(t *testing.T) {
	t.Run("no history for target fails", func(t *testing.T) {
		history := []entities.MembershipRecord{record(1, false, 9)}
		requireParticipantError(t, TimeInCurrentAssociation(history, 0), "time_in_current_association")
	})

	t.Run("under a year fails", func(t *testing.T) {
		short := record(0, false, 0)
		short.Duration = 364 * 24 * time.Hour
		requireParticipantError(t, TimeInCurrentAssociation([]entities.MembershipRecord{short}, 0), "time_in_current_association")
	})

	t.Run("cumulative records reach a year", func(t *testing.T) {
		half := record(0, false, 0)
		half.Duration = Year / 2
		history := []entities.MembershipRecord{half, record(1, false, 5), half}
		require.NoError(t, TimeInCurrentAssociation(history, 0))
	})

	t.Run("exactly one year passes", func(t *testing.T) {
		require.NoError(t, TimeInCurrentAssociation([]entities.MembershipRecord{record(0, false, 1)}, 0))
	})
}

func TestNotInAnyOtherBoard(t *testing.T) {
	history := []entities.MembershipRecord{record(1, false, 9)}
	require.NoError(t, NotInAnyOtherBoard(history, 0))

	history = append(history, record(0, true, 1))
	require.NoError(t, NotInAnyOtherBoard(history, 0), "serving on the target board is allowed")

	ended := record(2, true, 3)
	endedAt := epoch.Add(3 * Year)
	ended.EndedAt = &endedAt
	history = append(history, ended)
	require.NoError(t, NotInAnyOtherBoard(history, 0), "past board service elsewhere is allowed")

	history = append(history, record(1, true, 1))
	requireParticipantError(t, NotInAnyOtherBoard(history, 0), "not_in_any_other_board")
}

func TestNotBoardForTooLong(t *testing.T) {
	history := []entities.MembershipRecord{record(1, false, 9), record(0, true, 9)}
	require.NoError(t, NotBoardForTooLong(history, 0))

	history = append(history, record(0, true, 1))
	require.NoError(t, NotBoardForTooLong(history, 0), "exactly ten years passes")

	history = append(history, record(0, true, 1))
	requireParticipantError(t, NotBoardForTooLong(history, 0), "not_board_for_too_long")
}

func TestNotBoardForTooLongIgnoresOrdinaryMembership(t *testing.T) {
	history := []entities.MembershipRecord{record(0, false, 11)}
	require.NoError(t, NotBoardForTooLong(history, 0))
}

func TestBoardCandidacyChain(t *testing.T) {
	chain := BoardCandidacyChain()

	t.Run("eligible member passes every rule", func(t *testing.T) {
		ok, err := chain.Handle([]entities.MembershipRecord{record(0, false, 2)}, 0)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("other board fails even with enough tenure", func(t *testing.T) {
		ok, err := chain.Handle([]entities.MembershipRecord{record(0, false, 2), record(1, true, 1)}, 0)
		assert.False(t, ok)
		requireParticipantError(t, err, "not_in_any_other_board")
	})

	t.Run("stops at first failing rule", func(t *testing.T) {
		history := []entities.MembershipRecord{record(1, true, 11)}
		ok, err := chain.Handle(history, 0)
		assert.False(t, ok)
		requireParticipantError(t, err, "time_in_current_association")
	})
}

func TestChainRunsRulesInOrder(t *testing.T) {
	var calls []string
	trace := func(name string, fail bool) Rule {
		return func([]entities.MembershipRecord, int64) error {
			calls = append(calls, name)
			if fail {
				return domainerrors.NewParticipantError(name, "rejected")
			}
			return nil
		}
	}

	ok, err := Chain{trace("first", false), nil, trace("second", true), trace("third", false)}.Handle(nil, 7)
	assert.False(t, ok)
	requireParticipantError(t, err, "second")
	assert.Equal(t, []string{"first", "second"}, calls)

	ok, err = Chain{}.Handle(nil, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}
