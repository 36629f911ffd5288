package club

import "github.com/courtmate/courtmate/internal/padel"

// ProfileStore defines the interface for interacting with player
// profiles and their derived statistics.
type ProfileStore interface {
	UpsertProfile(p *padel.Profile) error
	UpsertProfiles(profiles []padel.Profile) error
	GetProfile(userID string) (*padel.Profile, error)
	GetProfiles(userIDs []string) ([]padel.Profile, error)
	GetAllProfiles() ([]padel.Profile, error)
	IsKnownPlayer(userID string) bool

	// ApplyReliability applies the reliability delta for a player action
	// as a single atomic update, clamped to the valid range.
	ApplyReliability(userID string, action padel.PlayerAction) error

	GetLeaderboard() ([]PlayerStats, error)
	GetPlayerStats(userID string) (*PlayerStats, error)
	GetPlayerStatsByName(playerName string) (*PlayerStats, error)
	GetRecentMatches(userID string, limit int) ([]HistoryEntry, error)

	AddFavorite(userID, favoriteID string) error
	RemoveFavorite(userID, favoriteID string) error
	ListFavorites(userID string) ([]padel.Profile, error)
}
