package club_test

import (
	"database/sql"
	"testing"

	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/database"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.ProfileStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := club.New(db)
	return store, db, dbTeardown
}

func TestUpsertAndGetProfiles(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfile(&padel.Profile{ID: "p1", Name: "Player One", Level: 4.5}))
	require.NoError(t, store.UpsertProfile(&padel.Profile{ID: "p2", Name: "Player Two", Level: 6.0}))

	assert.True(t, store.IsKnownPlayer("p1"))
	assert.False(t, store.IsKnownPlayer("p3"))

	all, err := store.GetAllProfiles()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	p, err := store.GetProfile("p1")
	require.NoError(t, err)
	assert.Equal(t, "Player One", p.Name)
	assert.Equal(t, padel.ReliabilityStart, p.ReliabilityScore)

	t.Run("upsert updates preference fields only", func(t *testing.T) {
		require.NoError(t, store.UpsertProfile(&padel.Profile{ID: "p1", Name: "Player 1", Level: 5.0, Position: "left"}))

		p, err := store.GetProfile("p1")
		require.NoError(t, err)
		assert.Equal(t, "Player 1", p.Name)
		assert.Equal(t, "left", p.Position)
		assert.Equal(t, padel.ReliabilityStart, p.ReliabilityScore, "upsert must not reset the score of an existing profile")
	})

	t.Run("unknown profile yields ErrNotFound", func(t *testing.T) {
		_, err := store.GetProfile("nope")
		assert.ErrorIs(t, err, padel.ErrNotFound)
	})
}

func TestGetProfiles(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfiles([]padel.Profile{
		{ID: "p1", Name: "Player One"},
		{ID: "p2", Name: "Player Two"},
		{ID: "p3", Name: "Player Three"},
	}))

	t.Run("gets multiple profiles", func(t *testing.T) {
		profiles, err := store.GetProfiles([]string{"p1", "p3"})
		require.NoError(t, err)
		require.Len(t, profiles, 2)

		byID := make(map[string]padel.Profile)
		for _, p := range profiles {
			byID[p.ID] = p
		}
		assert.Contains(t, byID, "p1")
		assert.Contains(t, byID, "p3")
	})

	t.Run("returns empty slice for empty id slice", func(t *testing.T) {
		profiles, err := store.GetProfiles([]string{})
		require.NoError(t, err)
		assert.Len(t, profiles, 0)
	})
}

func TestApplyReliability(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfile(&padel.Profile{ID: "p1", Name: "Player One"}))

	score := func() int {
		var v int
		require.NoError(t, db.QueryRow("SELECT reliability_score FROM profiles WHERE id = 'p1'").Scan(&v))
		return v
	}

	t.Run("late cancel applies its delta", func(t *testing.T) {
		require.NoError(t, store.ApplyReliability("p1", padel.ActionLateCancel))
		assert.Equal(t, 90, score())
	})

	t.Run("score is clamped at the ceiling", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			require.NoError(t, store.ApplyReliability("p1", padel.ActionCompleted))
		}
		assert.Equal(t, 100, score())
	})

	t.Run("score is clamped at the floor", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			require.NoError(t, store.ApplyReliability("p1", padel.ActionNoShow))
		}
		assert.Equal(t, 0, score())
	})

	t.Run("unknown player yields ErrNotFound", func(t *testing.T) {
		err := store.ApplyReliability("ghost", padel.ActionCompleted)
		assert.ErrorIs(t, err, padel.ErrNotFound)
	})
}

func TestGetPlayerStatsByName(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	t.Run("finds player with fuzzy match", func(t *testing.T) {
		require.NoError(t, store.UpsertProfile(&padel.Profile{ID: "p1", Name: "Morten Voss"}))
		_, err := db.Exec("UPDATE profiles SET matches_played = 10, matches_won = 8 WHERE id = 'p1'")
		require.NoError(t, err)

		stats, err := store.GetPlayerStatsByName("morten")
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, "Morten Voss", stats.PlayerName)
		assert.Equal(t, 10, stats.MatchesPlayed)
		assert.Equal(t, 8, stats.MatchesWon)
		assert.InDelta(t, 80.0, stats.WinPercentage, 0.01)
	})

	t.Run("returns ErrNotFound when no player matches", func(t *testing.T) {
		stats, err := store.GetPlayerStatsByName("nonexistent")
		assert.ErrorIs(t, err, padel.ErrNotFound)
		assert.Nil(t, stats)
	})
}

func TestLeaderboard(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfiles([]padel.Profile{
		{ID: "p1", Name: "Alpha"},
		{ID: "p2", Name: "Beta"},
		{ID: "p3", Name: "Gamma"},
	}))
	_, err := db.Exec("UPDATE profiles SET matches_played = 5, matches_won = 4 WHERE id = 'p2'")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE profiles SET matches_played = 5, matches_won = 2 WHERE id = 'p1'")
	require.NoError(t, err)

	stats, err := store.GetLeaderboard()
	require.NoError(t, err)
	require.Len(t, stats, 2, "players without matches are excluded")
	assert.Equal(t, "Beta", stats[0].PlayerName)
	assert.Equal(t, "Alpha", stats[1].PlayerName)
}

func TestFavorites(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertProfiles([]padel.Profile{
		{ID: "p1", Name: "Alpha"},
		{ID: "p2", Name: "Beta"},
	}))

	require.NoError(t, store.AddFavorite("p1", "p2"))
	// Adding the same favorite twice is a no-op.
	require.NoError(t, store.AddFavorite("p1", "p2"))

	favs, err := store.ListFavorites("p1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Beta", favs[0].Name)

	t.Run("cannot favorite yourself", func(t *testing.T) {
		err := store.AddFavorite("p1", "p1")
		assert.ErrorIs(t, err, padel.ErrValidation)
	})

	require.NoError(t, store.RemoveFavorite("p1", "p2"))
	favs, err = store.ListFavorites("p1")
	require.NoError(t, err)
	assert.Len(t, favs, 0)
}
