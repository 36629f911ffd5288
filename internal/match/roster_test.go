package match_test

import (
	"testing"
	"time"

	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinAndAccept(t *testing.T, svc match.Service, matchID, userID string) string {
	t.Helper()
	ps, err := svc.Join(matchID, userID, "")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	require.NoError(t, svc.Accept(matchID, "org", ps[0].ID))
	return ps[0].ID
}

func reliability(t *testing.T, profiles club.ProfileStore, userID string) int {
	t.Helper()
	p, err := profiles.GetProfile(userID)
	require.NoError(t, err)
	return p.ReliabilityScore
}

func TestJoinValidation(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())

	_, err := svc.Join(m.ID, "", "")
	assert.ErrorIs(t, err, padel.ErrValidation, "user is required")

	_, err = svc.Join(m.ID, "p1", "p1")
	assert.ErrorIs(t, err, padel.ErrValidation, "duo partner must differ")

	_, err = svc.Join(m.ID, "org", "")
	assert.ErrorIs(t, err, padel.ErrValidation, "the organizer already holds a seat")

	_, err = svc.Join(m.ID, "p1", "")
	require.NoError(t, err)
	_, err = svc.Join(m.ID, "p1", "")
	assert.ErrorIs(t, err, padel.ErrStateConflict, "one active request per player")
}

func TestAcceptSolo(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	joinAndAccept(t, svc, m.ID, "p1")

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, padel.StatusOpen, detail.Match.Status)
	assert.Equal(t, 2, detail.Match.SpotsAvailable)
	require.Len(t, detail.Participants, 1)
	assert.Equal(t, padel.ParticipantConfirmed, detail.Participants[0].Status)
}

func TestAcceptDuoBothOrNeither(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())

	ps, err := svc.Join(m.ID, "p1", "p2")
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, ps[1].ID, ps[0].DuoWith)
	assert.Equal(t, ps[0].ID, ps[1].DuoWith)

	// Accepting either half confirms both and claims two seats.
	require.NoError(t, svc.Accept(m.ID, "org", ps[1].ID))

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Match.SpotsAvailable)
	for _, p := range detail.Participants {
		assert.Equal(t, padel.ParticipantConfirmed, p.Status)
	}

	err = svc.Accept(m.ID, "org", ps[0].ID)
	assert.ErrorIs(t, err, padel.ErrStateConflict, "already confirmed")
}

func TestAcceptDuoOverCapacity(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	joinAndAccept(t, svc, m.ID, "p1")
	joinAndAccept(t, svc, m.ID, "p2")
	// One seat left; a duo request needs two.
	ps, err := svc.Join(m.ID, "p3", "p4")
	require.NoError(t, err)

	err = svc.Accept(m.ID, "org", ps[0].ID)
	assert.ErrorIs(t, err, padel.ErrCapacity)

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Match.SpotsAvailable, "failed accept must not leak seats")
	assert.Equal(t, padel.StatusOpen, detail.Match.Status)
}

func TestAcceptFillsMatch(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	joinAndAccept(t, svc, m.ID, "p1")
	joinAndAccept(t, svc, m.ID, "p2")
	joinAndAccept(t, svc, m.ID, "p3")

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, padel.StatusFull, detail.Match.Status)
	assert.Equal(t, 0, detail.Match.SpotsAvailable)

	_, err = svc.Join(m.ID, "p1", "")
	assert.ErrorIs(t, err, padel.ErrStateConflict, "full matches take no new requests")
}

func TestStatusFollowsDerivation(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	assert.Equal(t, padel.DeriveStatus(m.SpotsAvailable, false, false), m.Status)

	joinAndAccept(t, svc, m.ID, "p1")
	joinAndAccept(t, svc, m.ID, "p2")
	joinAndAccept(t, svc, m.ID, "p3")

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, padel.DeriveStatus(detail.Match.SpotsAvailable, false, false), detail.Match.Status)
	assert.Equal(t, padel.StatusFull, detail.Match.Status)

	_, err = svc.Leave(m.ID, "p3")
	require.NoError(t, err)
	detail, err = svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, padel.DeriveStatus(detail.Match.SpotsAvailable, false, false), detail.Match.Status)
	assert.Equal(t, padel.StatusOpen, detail.Match.Status)

	require.NoError(t, svc.CancelMatch(m.ID, "org", "court flooded"))
	detail, err = svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, padel.DeriveStatus(detail.Match.SpotsAvailable, false, true), detail.Match.Status)
}

func TestRefuse(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	ps, err := svc.Join(m.ID, "p1", "")
	require.NoError(t, err)

	err = svc.Refuse(m.ID, "p2", ps[0].ID)
	assert.ErrorIs(t, err, padel.ErrValidation, "only the organizer may refuse")

	require.NoError(t, svc.Refuse(m.ID, "org", ps[0].ID))

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Match.SpotsAvailable, "pending requests never held a seat")
	assert.Equal(t, padel.ParticipantRefused, detail.Participants[0].Status)

	err = svc.Refuse(m.ID, "org", ps[0].ID)
	assert.ErrorIs(t, err, padel.ErrStateConflict)
}

func TestLeaveEarlyCancel(t *testing.T) {
	svc, profiles, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(72*time.Hour).Unix())
	joinAndAccept(t, svc, m.ID, "p1")

	action, err := svc.Leave(m.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, padel.ActionEarlyCancel, action)
	assert.Equal(t, 97, reliability(t, profiles, "p1"))

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Match.SpotsAvailable)
	assert.Equal(t, padel.ParticipantCancelled, detail.Participants[0].Status)
	assert.Equal(t, padel.ActionEarlyCancel, detail.Participants[0].CancelAction)
	assert.NotZero(t, detail.Participants[0].CancelledAt)
}

func TestLeaveLateCancelReopensFullMatch(t *testing.T) {
	svc, profiles, _, teardown := setupTestDB(t)
	defer teardown()

	// Two hours before start: inside the late-cancel window.
	m := createOpenMatch(t, svc, time.Now().Add(2*time.Hour).Unix())
	joinAndAccept(t, svc, m.ID, "p1")
	joinAndAccept(t, svc, m.ID, "p2")
	joinAndAccept(t, svc, m.ID, "p3")

	action, err := svc.Leave(m.ID, "p2")
	require.NoError(t, err)
	assert.Equal(t, padel.ActionLateCancel, action)
	assert.Equal(t, 90, reliability(t, profiles, "p2"))

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, padel.StatusOpen, detail.Match.Status, "a freed seat reopens the match")
	assert.Equal(t, 1, detail.Match.SpotsAvailable)
}

func TestLeaveFlexibleMatchIsEarly(t *testing.T) {
	svc, profiles, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := svc.CreateMatch(match.CreateMatchInput{OrganizerID: "org", FlexibleDay: "sunday"})
	require.NoError(t, err)
	joinAndAccept(t, svc, m.ID, "p1")

	action, err := svc.Leave(m.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, padel.ActionEarlyCancel, action)
	assert.Equal(t, 97, reliability(t, profiles, "p1"))
}

func TestLeaveRequiresConfirmation(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	_, err := svc.Join(m.ID, "p1", "")
	require.NoError(t, err)

	_, err = svc.Leave(m.ID, "p1")
	assert.ErrorIs(t, err, padel.ErrNotFound, "pending requests are refused, not left")

	_, err = svc.Leave(m.ID, "p2")
	assert.ErrorIs(t, err, padel.ErrNotFound)
}

func TestAssignAndSwapTeam(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	pid := joinAndAccept(t, svc, m.ID, "p1")

	err := svc.AssignTeam(m.ID, "org", pid, "X")
	assert.ErrorIs(t, err, padel.ErrValidation)

	err = svc.AssignTeam(m.ID, "p1", pid, padel.TeamB)
	assert.ErrorIs(t, err, padel.ErrValidation, "only the organizer assigns teams")

	require.NoError(t, svc.AssignTeam(m.ID, "org", pid, padel.TeamB))
	require.NoError(t, svc.SwapTeam(m.ID, "org", pid))

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, padel.TeamA, detail.Participants[0].Team)

	ps, err := svc.Join(m.ID, "p2", "")
	require.NoError(t, err)
	err = svc.AssignTeam(m.ID, "org", ps[0].ID, padel.TeamA)
	assert.ErrorIs(t, err, padel.ErrStateConflict, "pending participants have no team")

	err = svc.SwapTeam(m.ID, "org", ps[0].ID)
	assert.ErrorIs(t, err, padel.ErrValidation, "no team to swap from")
}

func TestPaymentFlow(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	pid := joinAndAccept(t, svc, m.ID, "p1")

	err := svc.ConfirmPayment(m.ID, "org", pid)
	assert.ErrorIs(t, err, padel.ErrStateConflict, "nothing to confirm yet")

	err = svc.MarkPaid(m.ID, "p2")
	assert.ErrorIs(t, err, padel.ErrNotFound)

	require.NoError(t, svc.MarkPaid(m.ID, "p1"))
	require.NoError(t, svc.ConfirmPayment(m.ID, "org", pid))

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.True(t, detail.Participants[0].HasPaid)
	assert.Equal(t, "org", detail.Participants[0].PaidConfirmedBy)
}

func TestMarkShowedUp(t *testing.T) {
	svc, profiles, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(-time.Hour).Unix())
	pid1 := joinAndAccept(t, svc, m.ID, "p1")
	pid2 := joinAndAccept(t, svc, m.ID, "p2")

	require.NoError(t, svc.MarkShowedUp(m.ID, "org", pid1, true))
	require.NoError(t, svc.MarkShowedUp(m.ID, "org", pid2, false))

	assert.Equal(t, 100, reliability(t, profiles, "p1"))
	assert.Equal(t, 85, reliability(t, profiles, "p2"), "a no-show costs the full penalty")

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	for _, p := range detail.Participants {
		require.NotNil(t, p.ShowedUp)
		assert.Equal(t, p.ID == pid1, *p.ShowedUp)
	}
}

func TestComputeSlots(t *testing.T) {
	m := &padel.Match{
		ID:             "m1",
		OrganizerID:    "org",
		OrganizerName:  "Olivia",
		OrganizerTeam:  padel.TeamA,
		SpotsAvailable: 1,
	}
	participants := []padel.Participant{
		{ID: "a", UserID: "p1", Status: padel.ParticipantConfirmed, Team: padel.TeamA},
		{ID: "b", UserID: "p2", Status: padel.ParticipantConfirmed, Team: padel.TeamB},
		{ID: "c", UserID: "p3", Status: padel.ParticipantConfirmed},
		{ID: "d", UserID: "p4", Status: padel.ParticipantPending, Team: padel.TeamB},
	}
	names := map[string]string{"p1": "Paula", "p2": "Pedro", "p3": "Pia"}

	slots := match.ComputeSlots(m, participants, names)
	require.Len(t, slots.TeamA, 2)
	assert.True(t, slots.TeamA[0].IsOrganizer)
	assert.Equal(t, "Paula", slots.TeamA[1].Name)
	require.Len(t, slots.TeamB, 1)
	require.Len(t, slots.Unassigned, 1)
	assert.Equal(t, "Pia", slots.Unassigned[0].Name)
	assert.Equal(t, 1, slots.OpenSpots)
}
