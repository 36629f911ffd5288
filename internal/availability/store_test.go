package availability_test

import (
	"testing"

	"github.com/courtmate/courtmate/internal/availability"
	"github.com/courtmate/courtmate/internal/database"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (availability.Service, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	return availability.New(db), dbTeardown
}

func createPoll(t *testing.T, svc availability.Service, days ...string) *availability.Poll {
	t.Helper()
	poll, err := svc.CreatePoll("creator", "Carla Creator", "Padel this week?", days)
	require.NoError(t, err)
	return poll
}

func optionFor(t *testing.T, poll *availability.Poll, day string) string {
	t.Helper()
	for _, opt := range poll.Options {
		if opt.Day == day {
			return opt.ID
		}
	}
	t.Fatalf("no option for day %s", day)
	return ""
}

func TestCreatePoll(t *testing.T) {
	svc, teardown := setupTestDB(t)
	defer teardown()

	_, err := svc.CreatePoll("", "Carla", "", []string{"2026-09-05"})
	assert.ErrorIs(t, err, padel.ErrValidation)

	_, err = svc.CreatePoll("creator", "Carla", "", nil)
	assert.ErrorIs(t, err, padel.ErrValidation)

	poll := createPoll(t, svc, "2026-09-05", "2026-09-06", "2026-09-05")
	assert.Equal(t, availability.StatusCollecting, poll.Status)
	assert.Len(t, poll.Options, 2, "duplicate days collapse")

	active, err := svc.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestVoteAndTally(t *testing.T) {
	svc, teardown := setupTestDB(t)
	defer teardown()

	poll := createPoll(t, svc, "2026-09-05", "2026-09-06")
	sat := optionFor(t, poll, "2026-09-05")
	sun := optionFor(t, poll, "2026-09-06")

	require.NoError(t, svc.Vote(poll.ID, sat, "p1", "Paula"))
	require.NoError(t, svc.Vote(poll.ID, sat, "p1", "Paula"), "revoting is a no-op")
	require.NoError(t, svc.Vote(poll.ID, sat, "p2", "Pedro"))
	require.NoError(t, svc.Vote(poll.ID, sun, "p3", "Pia"))

	err := svc.Vote(poll.ID, "missing-option", "p1", "Paula")
	assert.ErrorIs(t, err, padel.ErrNotFound)

	tallies, err := svc.Tally(poll.ID)
	require.NoError(t, err)
	require.Len(t, tallies, 2)
	assert.Equal(t, "2026-09-05", tallies[0].Day)
	assert.Equal(t, 2, tallies[0].Count)

	require.NoError(t, svc.Unvote(poll.ID, sat, "p2"))
	tallies, err = svc.Tally(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tallies[0].Count)
}

func TestProposeNeedsFullCourt(t *testing.T) {
	svc, teardown := setupTestDB(t)
	defer teardown()

	poll := createPoll(t, svc, "2026-09-05")
	sat := optionFor(t, poll, "2026-09-05")
	require.NoError(t, svc.Vote(poll.ID, sat, "p1", "Paula"))
	require.NoError(t, svc.Vote(poll.ID, sat, "p2", "Pedro"))
	require.NoError(t, svc.Vote(poll.ID, sat, "p3", "Pia"))

	_, err := svc.Propose(poll.ID)
	assert.ErrorIs(t, err, padel.ErrStateConflict, "three players cannot fill a court")
}

func TestProposeSplitsTeams(t *testing.T) {
	svc, teardown := setupTestDB(t)
	defer teardown()

	poll := createPoll(t, svc, "2026-09-05", "2026-09-06")
	sat := optionFor(t, poll, "2026-09-05")
	sun := optionFor(t, poll, "2026-09-06")

	for i, voter := range []availability.Player{
		{ID: "p1", Name: "Paula"},
		{ID: "p2", Name: "Pedro"},
		{ID: "p3", Name: "Pia"},
		{ID: "p4", Name: "Pat"},
		{ID: "p5", Name: "Paco"},
	} {
		require.NoError(t, svc.Vote(poll.ID, sat, voter.ID, voter.Name))
		if i < 2 {
			require.NoError(t, svc.Vote(poll.ID, sun, voter.ID, voter.Name))
		}
	}

	proposal, err := svc.Propose(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-05", proposal.Day)
	assert.Len(t, proposal.Players, 4, "only four play, latecomers sit out")
	assert.Len(t, proposal.TeamA, 2)
	assert.Len(t, proposal.TeamB, 2)
	assert.Equal(t, proposal.Players[0], proposal.BookingResponsible)

	poll, err = svc.GetPoll(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, availability.StatusProposed, poll.Status)
	assert.Equal(t, "2026-09-05", poll.ProposedDay)

	_, err = svc.Propose(poll.ID)
	assert.ErrorIs(t, err, padel.ErrStateConflict, "a poll proposes once")

	err = svc.Vote(poll.ID, sat, "p6", "Petra")
	assert.ErrorIs(t, err, padel.ErrStateConflict, "voting closes on proposal")
}

func TestConfirmAndCancel(t *testing.T) {
	svc, teardown := setupTestDB(t)
	defer teardown()

	poll := createPoll(t, svc, "2026-09-05")
	err := svc.Confirm(poll.ID)
	assert.ErrorIs(t, err, padel.ErrStateConflict, "nothing proposed yet")

	require.NoError(t, svc.Cancel(poll.ID))
	poll2, err := svc.GetPoll(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, availability.StatusCancelled, poll2.Status)

	err = svc.Cancel(poll.ID)
	assert.ErrorIs(t, err, padel.ErrStateConflict)

	err = svc.Confirm("missing")
	assert.ErrorIs(t, err, padel.ErrNotFound)
}
