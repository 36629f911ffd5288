package club

import (
	"sync"

	"github.com/courtmate/courtmate/internal/padel"
)

// MockStore is a mock implementation of the ProfileStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertProfileFunc        func(p *padel.Profile) error
	UpsertProfilesFunc       func(profiles []padel.Profile) error
	GetProfileFunc           func(userID string) (*padel.Profile, error)
	GetProfilesFunc          func(userIDs []string) ([]padel.Profile, error)
	GetAllProfilesFunc       func() ([]padel.Profile, error)
	IsKnownPlayerFunc        func(userID string) bool
	ApplyReliabilityFunc     func(userID string, action padel.PlayerAction) error
	GetLeaderboardFunc       func() ([]PlayerStats, error)
	GetPlayerStatsFunc       func(userID string) (*PlayerStats, error)
	GetPlayerStatsByNameFunc func(playerName string) (*PlayerStats, error)
	GetRecentMatchesFunc     func(userID string, limit int) ([]HistoryEntry, error)
	AddFavoriteFunc          func(userID, favoriteID string) error
	RemoveFavoriteFunc       func(userID, favoriteID string) error
	ListFavoritesFunc        func(userID string) ([]padel.Profile, error)

	// Call records
	UpsertProfileCalls    []*padel.Profile
	UpsertProfilesCalls   [][]padel.Profile
	ApplyReliabilityCalls []struct {
		UserID string
		Action padel.PlayerAction
	}
	AddFavoriteCalls []struct {
		UserID     string
		FavoriteID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertProfile(p *padel.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertProfileCalls = append(m.UpsertProfileCalls, p)
	if m.UpsertProfileFunc != nil {
		return m.UpsertProfileFunc(p)
	}
	return nil
}

func (m *MockStore) UpsertProfiles(profiles []padel.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertProfilesCalls = append(m.UpsertProfilesCalls, profiles)
	if m.UpsertProfilesFunc != nil {
		return m.UpsertProfilesFunc(profiles)
	}
	return nil
}

func (m *MockStore) GetProfile(userID string) (*padel.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(userID)
	}
	return nil, padel.ErrNotFound
}

func (m *MockStore) GetProfiles(userIDs []string) ([]padel.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetProfilesFunc != nil {
		return m.GetProfilesFunc(userIDs)
	}
	return nil, nil
}

func (m *MockStore) GetAllProfiles() ([]padel.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllProfilesFunc != nil {
		return m.GetAllProfilesFunc()
	}
	return nil, nil
}

func (m *MockStore) IsKnownPlayer(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(userID)
	}
	return false
}

func (m *MockStore) ApplyReliability(userID string, action padel.PlayerAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyReliabilityCalls = append(m.ApplyReliabilityCalls, struct {
		UserID string
		Action padel.PlayerAction
	}{userID, action})
	if m.ApplyReliabilityFunc != nil {
		return m.ApplyReliabilityFunc(userID, action)
	}
	return nil
}

func (m *MockStore) GetLeaderboard() ([]PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc()
	}
	return nil, nil
}

func (m *MockStore) GetPlayerStats(userID string) (*PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerStatsFunc != nil {
		return m.GetPlayerStatsFunc(userID)
	}
	return nil, padel.ErrNotFound
}

func (m *MockStore) GetPlayerStatsByName(playerName string) (*PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerStatsByNameFunc != nil {
		return m.GetPlayerStatsByNameFunc(playerName)
	}
	return nil, padel.ErrNotFound
}

func (m *MockStore) GetRecentMatches(userID string, limit int) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRecentMatchesFunc != nil {
		return m.GetRecentMatchesFunc(userID, limit)
	}
	return nil, nil
}

func (m *MockStore) AddFavorite(userID, favoriteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddFavoriteCalls = append(m.AddFavoriteCalls, struct {
		UserID     string
		FavoriteID string
	}{userID, favoriteID})
	if m.AddFavoriteFunc != nil {
		return m.AddFavoriteFunc(userID, favoriteID)
	}
	return nil
}

func (m *MockStore) RemoveFavorite(userID, favoriteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveFavoriteFunc != nil {
		return m.RemoveFavoriteFunc(userID, favoriteID)
	}
	return nil
}

func (m *MockStore) ListFavorites(userID string) ([]padel.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFavoritesFunc != nil {
		return m.ListFavoritesFunc(userID)
	}
	return nil, nil
}
