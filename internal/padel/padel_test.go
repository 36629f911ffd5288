package padel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	t.Run("cancelled wins over everything", func(t *testing.T) {
		assert.Equal(t, StatusCancelled, DeriveStatus(0, true, true))
		assert.Equal(t, StatusCancelled, DeriveStatus(3, false, true))
	})

	t.Run("completed wins over full", func(t *testing.T) {
		assert.Equal(t, StatusCompleted, DeriveStatus(0, true, false))
	})

	t.Run("no spots means full", func(t *testing.T) {
		assert.Equal(t, StatusFull, DeriveStatus(0, false, false))
		assert.Equal(t, StatusFull, DeriveStatus(-1, false, false))
	})

	t.Run("spots left means open", func(t *testing.T) {
		assert.Equal(t, StatusOpen, DeriveStatus(1, false, false))
		assert.Equal(t, StatusOpen, DeriveStatus(3, false, false))
	})
}

func TestClassifyCancellation(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	t.Run("less than 24h before start is a late cancel", func(t *testing.T) {
		start := now.Add(2 * time.Hour).Unix()
		assert.Equal(t, ActionLateCancel, ClassifyCancellation(now, start))
	})

	t.Run("24h or more before start is an early cancel", func(t *testing.T) {
		start := now.Add(25 * time.Hour).Unix()
		assert.Equal(t, ActionEarlyCancel, ClassifyCancellation(now, start))

		exactly := now.Add(24 * time.Hour).Unix()
		assert.Equal(t, ActionEarlyCancel, ClassifyCancellation(now, exactly))
	})

	t.Run("flexible match without a start time is always early", func(t *testing.T) {
		assert.Equal(t, ActionEarlyCancel, ClassifyCancellation(now, 0))
	})
}

func TestReliabilityDelta(t *testing.T) {
	assert.Equal(t, 1, ReliabilityDelta(ActionCompleted))
	assert.Equal(t, -3, ReliabilityDelta(ActionEarlyCancel))
	assert.Equal(t, -10, ReliabilityDelta(ActionLateCancel))
	assert.Equal(t, -15, ReliabilityDelta(ActionNoShow))
	assert.Equal(t, 0, ReliabilityDelta(PlayerAction("unknown")))
}

func TestTeamSide(t *testing.T) {
	assert.True(t, TeamA.Valid())
	assert.True(t, TeamB.Valid())
	assert.False(t, TeamSide("").Valid())
	assert.Equal(t, TeamB, TeamA.Other())
	assert.Equal(t, TeamA, TeamB.Other())
}
