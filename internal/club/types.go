package club

import (
	"database/sql"
	"sync"
)

// store handles all database operations for player profiles.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerStats is the aggregate view of a player used for leaderboards
// and the public stats endpoint.
type PlayerStats struct {
	PlayerID         string  `json:"player_id"`
	PlayerName       string  `json:"player_name"`
	Level            float64 `json:"level"`
	ReliabilityScore int     `json:"reliability_score"`
	MatchesPlayed    int     `json:"matches_played"`
	MatchesWon       int     `json:"matches_won"`
	MatchesLost      int     `json:"matches_lost"`
	CurrentStreak    int     `json:"current_streak"`
	BestStreak       int     `json:"best_streak"`
	WinPercentage    float64 `json:"win_percentage"`
}

// HistoryEntry is one row of a player's match history feed.
type HistoryEntry struct {
	MatchID     string `json:"match_id"`
	Team        string `json:"team"`
	Won         bool   `json:"won"`
	ClubName    string `json:"club_name"`
	ScheduledAt int64  `json:"scheduled_at"`
	RecordedAt  int64  `json:"recorded_at"`
}
