package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hoa/contexts/governance/election-engine/adapters/memory"
	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	"hoa/contexts/governance/election-engine/domain/services"
	"hoa/contexts/governance/election-engine/ports"
	"hoa/contexts/governance/election-engine/ports/mocks"
	contractsv1 "hoa/contracts/events/v1"
)

var start = time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newUseCase(store *memory.Store) ElectionUseCase {
	return ElectionUseCase{
		Registry:    store,
		Locker:      store,
		Memberships: store,
		Clock:       fixedClock{now: start},
		IDGen:       store,
	}
}

func outboxTypes(t *testing.T, store *memory.Store) map[string]int {
	t.Helper()
	pending, err := store.ListPendingOutbox(context.Background(), 1000)
	require.NoError(t, err)
	counts := make(map[string]int)
	for _, row := range pending {
		counts[row.EventType]++
	}
	return counts
}

func createOpenBoard(t *testing.T, uc ElectionUseCase, associationID int64, winners int, candidates ...string) *entities.BoardElection {
	t.Helper()
	board, err := uc.CreateBoardElection(context.Background(), CreateBoardElectionCommand{
		Name:            "Board 2026",
		Description:     "Annual board election",
		AssociationID:   associationID,
		ScheduledFor:    start,
		AmountOfWinners: winners,
		Candidates:      candidates,
	})
	require.NoError(t, err)
	_, err = uc.OpenElection(context.Background(), board.ElectionID)
	require.NoError(t, err)
	return board
}

func eligibleHistory(memberID string, associationID int64) []entities.MembershipRecord {
	return []entities.MembershipRecord{{
		MembershipID:  "membership-" + memberID,
		MemberID:      memberID,
		AssociationID: associationID,
		JoinedAt:      start.AddDate(-3, 0, 0),
		Duration:      3 * services.Year,
	}}
}

func TestCreateProposalRegistersAndEmitsEvent(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)

	proposal, err := uc.CreateProposal(context.Background(), CreateProposalCommand{
		Name:          "Pool hours",
		Description:   "Extend the pool hours",
		AssociationID: 4,
		ScheduledFor:  start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, proposal.ElectionID)
	assert.Equal(t, int64(1), proposal.SequenceNumber)
	assert.Equal(t, entities.ElectionStatusScheduled, proposal.Status)
	assert.Equal(t, 1, outboxTypes(t, store)[contractsv1.EventElectionCreated])

	_, err = uc.CreateProposal(context.Background(), CreateProposalCommand{
		Name:          "Past",
		Description:   "Scheduled in the past",
		AssociationID: 4,
		ScheduledFor:  start.Add(-time.Hour),
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidElectionInput)
}

func TestCreateProposalInDays(t *testing.T) {
	uc := newUseCase(memory.NewStore(nil))

	proposal, err := uc.CreateProposalInDays(context.Background(), "Parking", "New parking rules", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 3), proposal.ScheduledFor)

	_, err = uc.CreateProposalInDays(context.Background(), "Parking", "New parking rules", 2, -1)
	require.ErrorIs(t, err, domainerrors.ErrInvalidElectionInput)
}

func TestProposalLifecycle(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)
	ctx := context.Background()

	proposal, err := uc.CreateProposal(ctx, CreateProposalCommand{
		Name:          "Solar panels",
		Description:   "Install solar panels on the clubhouse",
		AssociationID: 1,
		ScheduledFor:  start,
	})
	require.NoError(t, err)

	_, err = uc.CastVote(ctx, CastVoteCommand{ElectionID: proposal.ElectionID, MemberID: "m1", Choice: "t"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)

	_, err = uc.OpenElection(ctx, proposal.ElectionID)
	require.NoError(t, err)

	for member, choice := range map[string]string{"m1": "t", "m2": "no", "m3": "TRUE"} {
		_, err := uc.CastVote(ctx, CastVoteCommand{ElectionID: proposal.ElectionID, MemberID: member, Choice: choice})
		require.NoError(t, err)
	}
	count, err := uc.CastVote(ctx, CastVoteCommand{ElectionID: proposal.ElectionID, MemberID: "m2", Choice: "yes"})
	require.NoError(t, err)
	assert.Equal(t, 3, count, "changing a vote must not add to the count")

	count, err = uc.RetractVote(ctx, RetractVoteCommand{ElectionID: proposal.ElectionID, MemberID: "m3"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = uc.RetractVote(ctx, RetractVoteCommand{ElectionID: proposal.ElectionID, MemberID: "m3"})
	require.ErrorIs(t, err, domainerrors.ErrNoSuchVote)

	outcome, err := uc.Conclude(ctx, proposal.ElectionID)
	require.NoError(t, err)
	assert.False(t, outcome.Passed, "one yes against one no is a tie")
	assert.Equal(t, entities.ElectionKindProposal, outcome.Kind)

	again, err := uc.Conclude(ctx, proposal.ElectionID)
	require.NoError(t, err)
	assert.Equal(t, outcome, again)

	_, err = uc.CastVote(ctx, CastVoteCommand{ElectionID: proposal.ElectionID, MemberID: "m4", Choice: "t"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)

	events := outboxTypes(t, store)
	assert.Equal(t, 1, events[contractsv1.EventElectionOpened])
	assert.Equal(t, 4, events[contractsv1.EventElectionVoteCast])
	assert.Equal(t, 1, events[contractsv1.EventElectionVoteRetracted])
	assert.Equal(t, 1, events[contractsv1.EventElectionConcluded])
}

func TestOpenElectionTwiceIsInvalidState(t *testing.T) {
	uc := newUseCase(memory.NewStore(nil))
	board := createOpenBoard(t, uc, 1, 1, "alice")

	_, err := uc.OpenElection(context.Background(), board.ElectionID)
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)

	_, err = uc.OpenElection(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrElectionNotFound)
}

func TestBoardElectionLifecycle(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)
	ctx := context.Background()
	board := createOpenBoard(t, uc, 5, 2, "alice", "bob")

	joined, err := uc.JoinCandidate(ctx, JoinCandidateCommand{
		ElectionID: board.ElectionID,
		MemberID:   "carol",
		History:    eligibleHistory("carol", 5),
	})
	require.NoError(t, err)
	assert.True(t, joined)

	joined, err = uc.JoinCandidate(ctx, JoinCandidateCommand{
		ElectionID: board.ElectionID,
		MemberID:   "carol",
		History:    eligibleHistory("carol", 5),
	})
	require.NoError(t, err)
	assert.False(t, joined, "joining twice leaves the roster unchanged")

	ballots := map[string]string{"v1": "carol", "v2": "carol", "v3": "bob", "v4": "alice", "v5": "bob"}
	for member, candidate := range ballots {
		_, err := uc.CastVote(ctx, CastVoteCommand{ElectionID: board.ElectionID, MemberID: member, Choice: candidate})
		require.NoError(t, err)
	}
	_, err = uc.CastVote(ctx, CastVoteCommand{ElectionID: board.ElectionID, MemberID: "v6", Choice: "dave"})
	require.ErrorIs(t, err, domainerrors.ErrCandidateNotFound)

	outcome, err := uc.Conclude(ctx, board.ElectionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, outcome.Winners)

	_, err = uc.JoinCandidate(ctx, JoinCandidateCommand{
		ElectionID: board.ElectionID,
		MemberID:   "erin",
		History:    eligibleHistory("erin", 5),
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)

	events := outboxTypes(t, store)
	assert.Equal(t, 1, events[contractsv1.EventElectionCandidateJoined])
	assert.Equal(t, 5, events[contractsv1.EventElectionVoteCast])
}

func TestLeaveCandidateKeepsVotesButCannotWin(t *testing.T) {
	uc := newUseCase(memory.NewStore(nil))
	ctx := context.Background()
	board := createOpenBoard(t, uc, 5, 1, "alice", "bob")

	for member, candidate := range map[string]string{"v1": "alice", "v2": "alice", "v3": "bob"} {
		_, err := uc.CastVote(ctx, CastVoteCommand{ElectionID: board.ElectionID, MemberID: member, Choice: candidate})
		require.NoError(t, err)
	}
	left, err := uc.LeaveCandidate(ctx, LeaveCandidateCommand{ElectionID: board.ElectionID, MemberID: "alice"})
	require.NoError(t, err)
	assert.True(t, left)

	left, err = uc.LeaveCandidate(ctx, LeaveCandidateCommand{ElectionID: board.ElectionID, MemberID: "alice"})
	require.NoError(t, err)
	assert.False(t, left)

	outcome, err := uc.Conclude(ctx, board.ElectionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, outcome.Winners)
}

func TestJoinCandidateRejectsIneligibleMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveCommand(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().ElectionCreated(gomock.Any()).AnyTimes()
	metrics.EXPECT().ElectionOpened().AnyTimes()
	metrics.EXPECT().EligibilityRejected("time_in_current_association").Times(1)
	metrics.EXPECT().EligibilityRejected("not_in_any_other_board").Times(1)

	uc := newUseCase(memory.NewStore(nil))
	uc.Metrics = metrics
	board := createOpenBoard(t, uc, 5, 1, "alice")

	_, err := uc.JoinCandidate(context.Background(), JoinCandidateCommand{
		ElectionID: board.ElectionID,
		MemberID:   "newcomer",
		History: []entities.MembershipRecord{{
			MembershipID:  "m-1",
			MemberID:      "newcomer",
			AssociationID: 5,
			Duration:      100 * 24 * time.Hour,
		}},
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidParticipant)

	history := append(eligibleHistory("chair", 5), entities.MembershipRecord{
		MembershipID:  "m-2",
		MemberID:      "chair",
		AssociationID: 9,
		IsBoardMember: true,
		Duration:      2 * services.Year,
	})
	_, err = uc.JoinCandidate(context.Background(), JoinCandidateCommand{
		ElectionID: board.ElectionID,
		MemberID:   "chair",
		History:    history,
	})
	var participantErr *domainerrors.ParticipantError
	require.ErrorAs(t, err, &participantErr)
	assert.Equal(t, "not_in_any_other_board", participantErr.Rule)
}

func TestJoinCandidateRejectsProposal(t *testing.T) {
	uc := newUseCase(memory.NewStore(nil))
	proposal, err := uc.CreateProposal(context.Background(), CreateProposalCommand{
		Name:          "Budget",
		Description:   "Approve the budget",
		AssociationID: 1,
		ScheduledFor:  start,
	})
	require.NoError(t, err)

	_, err = uc.JoinCandidate(context.Background(), JoinCandidateCommand{
		ElectionID: proposal.ElectionID,
		MemberID:   "alice",
		History:    eligibleHistory("alice", 1),
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)
}

func TestJoinCandidateForAssociationUsesProjection(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.JoinCandidateForAssociation(ctx, 8, "dana")
	require.ErrorIs(t, err, domainerrors.ErrNoOpenBoardElection)

	older := createOpenBoard(t, uc, 8, 1, "alice")
	newer := createOpenBoard(t, uc, 8, 1, "bob")
	for _, record := range eligibleHistory("dana", 8) {
		require.NoError(t, store.UpsertMembership(ctx, record))
	}

	joined, err := uc.JoinCandidateForAssociation(ctx, 8, "dana")
	require.NoError(t, err)
	assert.True(t, joined)

	latest, err := store.FindByID(ctx, newer.ElectionID)
	require.NoError(t, err)
	assert.True(t, latest.(*entities.BoardElection).HasCandidate("dana"))
	untouched, err := store.FindByID(ctx, older.ElectionID)
	require.NoError(t, err)
	assert.False(t, untouched.(*entities.BoardElection).HasCandidate("dana"))

	left, err := uc.LeaveCandidateForAssociation(ctx, 8, "dana")
	require.NoError(t, err)
	assert.True(t, left)

	_, err = uc.JoinCandidateForAssociation(ctx, 8, "nobody")
	require.ErrorIs(t, err, domainerrors.ErrInvalidParticipant)
}

func TestConcurrentVotesAreAllCounted(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)
	board := createOpenBoard(t, uc, 3, 1, "alice", "bob")

	const voters = 40
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidate := "alice"
			if i%2 == 0 {
				candidate = "bob"
			}
			_, err := uc.CastVote(context.Background(), CastVoteCommand{
				ElectionID: board.ElectionID,
				MemberID:   fmt.Sprintf("voter-%d", i),
				Choice:     candidate,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := store.FindByID(context.Background(), board.ElectionID)
	require.NoError(t, err)
	assert.Equal(t, voters, stored.Details().VoteCount)
	assert.Len(t, stored.(*entities.BoardElection).Votes, voters)
}

func TestMutateRetriesOnConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockElectionRegistry(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)

	load := func(context.Context, string) (entities.Election, error) {
		details, err := entities.NewElectionDetails("Gate", "Replace the gate", 1, start, start)
		if err != nil {
			return nil, err
		}
		details.ElectionID = "election-1"
		details.Status = entities.ElectionStatusOngoing
		return entities.NewProposal(details), nil
	}
	ids := mocks.NewMockIDGenerator(ctrl)
	var saved []string
	recordSave := func(result error) func(context.Context, entities.Election, ...ports.EventEnvelope) error {
		return func(_ context.Context, _ entities.Election, events ...ports.EventEnvelope) error {
			for _, event := range events {
				assert.Equal(t, contractsv1.EventElectionVoteCast, event.EventType)
				saved = append(saved, event.EventID)
			}
			return result
		}
	}
	gomock.InOrder(
		registry.EXPECT().FindByID(gomock.Any(), "election-1").DoAndReturn(load),
		ids.EXPECT().NewID(gomock.Any()).Return("evt-1", nil),
		registry.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(recordSave(domainerrors.ErrConflict)),
		registry.EXPECT().FindByID(gomock.Any(), "election-1").DoAndReturn(load),
		ids.EXPECT().NewID(gomock.Any()).Return("evt-2", nil),
		registry.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(recordSave(nil)),
	)
	metrics.EXPECT().SaveConflict("cast_vote").Times(1)
	metrics.EXPECT().VoteRecorded("proposal", "cast").Times(1)
	metrics.EXPECT().ObserveCommand("cast_vote", "ok", gomock.Any()).Times(1)

	uc := ElectionUseCase{Registry: registry, IDGen: ids, Metrics: metrics, Clock: fixedClock{now: start}}
	count, err := uc.CastVote(context.Background(), CastVoteCommand{ElectionID: "election-1", MemberID: "m1", Choice: "t"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"evt-1", "evt-2"}, saved, "every attempt carries its own event")
}

func TestMutateGivesUpAfterMaxAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockElectionRegistry(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)

	registry.EXPECT().FindByID(gomock.Any(), "election-1").DoAndReturn(
		func(context.Context, string) (entities.Election, error) {
			details, _ := entities.NewElectionDetails("Gate", "Replace the gate", 1, start, start)
			details.ElectionID = "election-1"
			return entities.NewProposal(details), nil
		},
	).Times(3)
	registry.EXPECT().Save(gomock.Any(), gomock.Any()).Return(domainerrors.ErrConflict).Times(3)
	metrics.EXPECT().SaveConflict("open").Times(3)
	metrics.EXPECT().ObserveCommand("open", "conflict", gomock.Any()).Times(1)

	uc := ElectionUseCase{Registry: registry, Metrics: metrics, Clock: fixedClock{now: start}}
	_, err := uc.OpenElection(context.Background(), "election-1")
	require.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestMutatePropagatesLockFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockElectionRegistry(ctrl)
	locker := mocks.NewMockElectionLocker(ctrl)
	lockErr := errors.New("redis unavailable")
	locker.EXPECT().Lock(gomock.Any(), "election-1").Return(nil, lockErr)

	uc := ElectionUseCase{Registry: registry, Locker: locker}
	_, err := uc.Conclude(context.Background(), "election-1")
	require.ErrorIs(t, err, lockErr)
}

// failingRegistry rejects the first failures saves that carry an event of
// type failOn, as a registry whose outbox write fails would.
type failingRegistry struct {
	*memory.Store
	failOn   string
	failures int
}

func (r *failingRegistry) Save(ctx context.Context, election entities.Election, events ...ports.EventEnvelope) error {
	for _, event := range events {
		if event.EventType == r.failOn && r.failures > 0 {
			r.failures--
			return errors.New("outbox down")
		}
	}
	return r.Store.Save(ctx, election, events...)
}

func TestFailedConcludeLeavesStateAndRetryEmitsEvent(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)
	ctx := context.Background()
	board := createOpenBoard(t, uc, 2, 1, "alice")

	uc.Registry = &failingRegistry{Store: store, failOn: contractsv1.EventElectionConcluded, failures: 1}
	_, err := uc.Conclude(ctx, board.ElectionID)
	require.EqualError(t, err, "outbox down")

	stored, err := store.FindByID(ctx, board.ElectionID)
	require.NoError(t, err)
	assert.Equal(t, entities.ElectionStatusOngoing, stored.Details().Status)
	assert.Zero(t, outboxTypes(t, store)[contractsv1.EventElectionConcluded])

	outcome, err := uc.Conclude(ctx, board.ElectionID)
	require.NoError(t, err)
	assert.Equal(t, board.ElectionID, outcome.ElectionID)
	assert.Equal(t, 1, outboxTypes(t, store)[contractsv1.EventElectionConcluded])
}

func TestFailedLeaveKeepsCandidateAndRetryEmitsEvent(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)
	ctx := context.Background()
	board := createOpenBoard(t, uc, 2, 1, "alice", "bob")

	uc.Registry = &failingRegistry{Store: store, failOn: contractsv1.EventElectionCandidateLeft, failures: 1}
	_, err := uc.LeaveCandidate(ctx, LeaveCandidateCommand{ElectionID: board.ElectionID, MemberID: "bob"})
	require.Error(t, err)

	stored, err := store.FindByID(ctx, board.ElectionID)
	require.NoError(t, err)
	assert.True(t, stored.(*entities.BoardElection).HasCandidate("bob"))

	left, err := uc.LeaveCandidate(ctx, LeaveCandidateCommand{ElectionID: board.ElectionID, MemberID: "bob"})
	require.NoError(t, err)
	assert.True(t, left)
	assert.Equal(t, 1, outboxTypes(t, store)[contractsv1.EventElectionCandidateLeft])
}

func TestCreateEventFailureStoresNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	ids := mocks.NewMockIDGenerator(ctrl)
	ids.EXPECT().NewID(gomock.Any()).Return("", errors.New("id source down"))

	store := memory.NewStore(nil)
	uc := ElectionUseCase{Registry: store, IDGen: ids, Clock: fixedClock{now: start}}
	_, err := uc.CreateProposal(context.Background(), CreateProposalCommand{
		Name:          "Trees",
		Description:   "Plant new trees",
		AssociationID: 1,
		ScheduledFor:  start,
	})
	require.EqualError(t, err, "id source down")

	listed, err := store.ListByAssociation(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Empty(t, outboxTypes(t, store))
}

func TestIDsWithVoteDelimitersAreRejected(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newUseCase(store)
	ctx := context.Background()
	board := createOpenBoard(t, uc, 6, 1, "alice")

	for _, memberID := range []string{"a,b", "a=b"} {
		_, err := uc.CastVote(ctx, CastVoteCommand{ElectionID: board.ElectionID, MemberID: memberID, Choice: "alice"})
		require.ErrorIs(t, err, domainerrors.ErrInvalidVoteInput, memberID)

		_, err = uc.JoinCandidate(ctx, JoinCandidateCommand{
			ElectionID: board.ElectionID,
			MemberID:   memberID,
			History:    eligibleHistory(memberID, 6),
		})
		require.ErrorIs(t, err, domainerrors.ErrInvalidCandidateInput, memberID)
	}
	_, err := uc.CastVote(ctx, CastVoteCommand{ElectionID: board.ElectionID, MemberID: "v1", Choice: "alice,bob"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidVoteInput)

	_, err = uc.CreateBoardElection(ctx, CreateBoardElectionCommand{
		Name:            "Board",
		Description:     "Board election",
		AssociationID:   6,
		ScheduledFor:    start,
		AmountOfWinners: 1,
		Candidates:      []string{"alice", "x=y"},
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCandidateInput)

	// The election stays loadable after the rejected writes.
	stored, err := store.FindByID(ctx, board.ElectionID)
	require.NoError(t, err)
	assert.Zero(t, stored.Details().VoteCount)
	assert.Equal(t, []string{"alice"}, stored.(*entities.BoardElection).Candidates)
}
