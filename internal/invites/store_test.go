package invites_test

import (
	"testing"
	"time"

	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/database"
	"github.com/courtmate/courtmate/internal/invites"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (invites.Store, match.Service, string, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	profiles := club.New(db)
	require.NoError(t, profiles.UpsertProfile(&padel.Profile{ID: "org", Name: "Olivia Organizer"}))
	require.NoError(t, profiles.UpsertProfile(&padel.Profile{ID: "newbie", Name: "Nina New"}))

	matches := match.New(db)
	m, err := matches.CreateMatch(match.CreateMatchInput{
		OrganizerID: "org",
		ScheduledAt: time.Now().Add(48 * time.Hour).Unix(),
	})
	require.NoError(t, err)

	return invites.New(db), matches, m.ID, dbTeardown
}

func TestCreateAndGetInvite(t *testing.T) {
	store, _, matchID, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Create(matchID, "", "guest@example.com", "")
	assert.ErrorIs(t, err, padel.ErrValidation)

	_, err = store.Create(matchID, "Guest", "guest@example.com", "Z")
	assert.ErrorIs(t, err, padel.ErrValidation)

	inv, err := store.Create(matchID, "Guest", "guest@example.com", padel.TeamB)
	require.NoError(t, err)
	assert.NotEmpty(t, inv.Token)
	assert.Equal(t, padel.InviteOpen, inv.Status)

	got, err := store.Get(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, "Guest", got.InviteeName)
	assert.Equal(t, padel.TeamB, got.Team)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, padel.ErrNotFound)

	list, err := store.ListByMatch(matchID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConvertInvite(t *testing.T) {
	store, matches, matchID, teardown := setupTestDB(t)
	defer teardown()

	inv, err := store.Create(matchID, "Nina New", "nina@example.com", padel.TeamA)
	require.NoError(t, err)

	p, err := store.Convert(inv.Token, "newbie")
	require.NoError(t, err)
	assert.Equal(t, "newbie", p.UserID)
	assert.Equal(t, padel.ParticipantPending, p.Status)
	assert.Equal(t, padel.TeamA, p.Team)

	detail, err := matches.GetMatch(matchID)
	require.NoError(t, err)
	require.Len(t, detail.Participants, 1)
	assert.Equal(t, 3, detail.Match.SpotsAvailable, "conversion claims no seat")

	got, err := store.Get(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, padel.InviteConverted, got.Status)

	_, err = store.Convert(inv.Token, "newbie")
	assert.ErrorIs(t, err, padel.ErrStateConflict, "an invite converts once")
}

func TestConvertedParticipantJoinsAcceptFlow(t *testing.T) {
	store, matches, matchID, teardown := setupTestDB(t)
	defer teardown()

	inv, err := store.Create(matchID, "Nina New", "nina@example.com", "")
	require.NoError(t, err)
	p, err := store.Convert(inv.Token, "newbie")
	require.NoError(t, err)

	require.NoError(t, matches.Accept(matchID, "org", p.ID))

	detail, err := matches.GetMatch(matchID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Match.SpotsAvailable)
	assert.Equal(t, padel.ParticipantConfirmed, detail.Participants[0].Status)
}

func TestExpireInvites(t *testing.T) {
	store, _, matchID, teardown := setupTestDB(t)
	defer teardown()

	fresh, err := store.Create(matchID, "Fresh Guest", "fresh@example.com", "")
	require.NoError(t, err)

	n, err := store.Expire(30)
	require.NoError(t, err)
	assert.Zero(t, n, "fresh invites stay open")

	// A cutoff in the future sweeps everything still open.
	n, err = store.Expire(-1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.Get(fresh.Token)
	require.NoError(t, err)
	assert.Equal(t, padel.InviteExpired, got.Status)

	_, err = store.Convert(fresh.Token, "newbie")
	assert.ErrorIs(t, err, padel.ErrStateConflict)
}
