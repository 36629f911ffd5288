package metrics

import (
	"testing"

	"github.com/courtmate/courtmate/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (MetricsStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return New(db), dbTeardown
}

func TestIncrementAndGetAll(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	// Initially, there should be no metrics.
	metrics, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, metrics)

	store.Increment("matches_created")
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"matches_created": 1}, metrics)

	store.Increment("matches_created")
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"matches_created": 2}, metrics)

	store.Increment("emails_sent")
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"matches_created": 2,
		"emails_sent":     1,
	}, metrics)
}
