package match_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/database"
	"github.com/courtmate/courtmate/internal/match"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database with a few
// seeded player profiles.
func setupTestDB(t *testing.T) (match.Service, club.ProfileStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	profiles := club.New(db)
	for _, p := range []padel.Profile{
		{ID: "org", Name: "Olivia Organizer", Level: 5.0},
		{ID: "p1", Name: "Paula One", Level: 4.5},
		{ID: "p2", Name: "Pedro Two", Level: 5.5},
		{ID: "p3", Name: "Pia Three", Level: 6.0},
		{ID: "p4", Name: "Pat Four", Level: 5.0},
	} {
		require.NoError(t, profiles.UpsertProfile(&p))
	}

	return match.New(db), profiles, db, dbTeardown
}

func createOpenMatch(t *testing.T, svc match.Service, scheduledAt int64) *padel.Match {
	t.Helper()
	m, err := svc.CreateMatch(match.CreateMatchInput{
		OrganizerID: "org",
		ClubName:    "Padel Central",
		City:        "Lisbon",
		ScheduledAt: scheduledAt,
		LevelMin:    4,
		LevelMax:    7,
	})
	require.NoError(t, err)
	return m
}

func TestCreateMatchDefaults(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())

	assert.Equal(t, padel.StatusOpen, m.Status)
	assert.Equal(t, padel.SpotsTotal, m.SpotsTotal)
	assert.Equal(t, padel.SpotsTotal-1, m.SpotsAvailable)
	assert.Equal(t, padel.TeamA, m.OrganizerTeam)
	assert.Equal(t, padel.AmbianceMix, m.Ambiance)

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, detail.Match.ID)
	assert.Equal(t, "Olivia Organizer", detail.Match.OrganizerName)
	assert.Empty(t, detail.Participants)
}

func TestCreateMatchValidation(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := svc.CreateMatch(match.CreateMatchInput{ScheduledAt: time.Now().Unix()})
	assert.ErrorIs(t, err, padel.ErrValidation)

	_, err = svc.CreateMatch(match.CreateMatchInput{OrganizerID: "org"})
	assert.ErrorIs(t, err, padel.ErrValidation, "needs a time or a flexible day")

	_, err = svc.CreateMatch(match.CreateMatchInput{
		OrganizerID: "org", ScheduledAt: time.Now().Unix(), LevelMin: 7, LevelMax: 4,
	})
	assert.ErrorIs(t, err, padel.ErrValidation, "inverted level range")

	_, err = svc.CreateMatch(match.CreateMatchInput{
		OrganizerID: "org", ScheduledAt: time.Now().Unix(), OrganizerTeam: "C",
	})
	assert.ErrorIs(t, err, padel.ErrValidation, "invalid organizer team")
}

func TestCreateFlexibleMatch(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := svc.CreateMatch(match.CreateMatchInput{
		OrganizerID:    "org",
		FlexibleDay:    "saturday",
		FlexiblePeriod: "morning",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), m.ScheduledAt)
	assert.Equal(t, "saturday", m.FlexibleDay)
}

func TestGetMatchNotFound(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := svc.GetMatch("missing")
	assert.ErrorIs(t, err, padel.ErrNotFound)
}

func TestListMatchesByStatus(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m1 := createOpenMatch(t, svc, time.Now().Add(24*time.Hour).Unix())
	m2 := createOpenMatch(t, svc, time.Now().Add(48*time.Hour).Unix())
	require.NoError(t, svc.CancelMatch(m2.ID, "org", "court flooded"))

	open, err := svc.ListMatches(padel.StatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, m1.ID, open[0].ID)

	all, err := svc.ListMatches("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListUpcomingWindow(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	soon := createOpenMatch(t, svc, time.Now().Add(2*time.Hour).Unix())
	createOpenMatch(t, svc, time.Now().Add(72*time.Hour).Unix())

	upcoming, err := svc.ListUpcoming(24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ID, upcoming[0].Match.ID)
}

func TestCancelMatch(t *testing.T) {
	svc, _, _, teardown := setupTestDB(t)
	defer teardown()

	m := createOpenMatch(t, svc, time.Now().Add(24*time.Hour).Unix())

	err := svc.CancelMatch(m.ID, "org", "")
	assert.ErrorIs(t, err, padel.ErrValidation, "reason is required")

	err = svc.CancelMatch(m.ID, "p1", "rain")
	assert.ErrorIs(t, err, padel.ErrValidation, "only the organizer may cancel")

	require.NoError(t, svc.CancelMatch(m.ID, "org", "rain"))

	detail, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, padel.StatusCancelled, detail.Match.Status)
	assert.Equal(t, "rain", detail.Match.CancelReason)

	err = svc.CancelMatch(m.ID, "org", "rain again")
	assert.ErrorIs(t, err, padel.ErrStateConflict, "cancel is not repeatable")
}
