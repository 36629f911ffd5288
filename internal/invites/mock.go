package invites

import (
	"sync"

	"github.com/courtmate/courtmate/internal/padel"
)

// MockStore is a mock implementation of the Store interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	CreateFunc      func(matchID, inviteeName, inviteeEmail string, team padel.TeamSide) (*padel.PendingInvite, error)
	GetFunc         func(token string) (*padel.PendingInvite, error)
	ListByMatchFunc func(matchID string) ([]padel.PendingInvite, error)
	ConvertFunc     func(token, userID string) (*padel.Participant, error)
	ExpireFunc      func(olderThanDays int) (int64, error)

	CreateCalls []struct {
		MatchID      string
		InviteeName  string
		InviteeEmail string
		Team         padel.TeamSide
	}
	ConvertCalls []struct {
		Token  string
		UserID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(matchID, inviteeName, inviteeEmail string, team padel.TeamSide) (*padel.PendingInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, struct {
		MatchID      string
		InviteeName  string
		InviteeEmail string
		Team         padel.TeamSide
	}{matchID, inviteeName, inviteeEmail, team})
	if m.CreateFunc != nil {
		return m.CreateFunc(matchID, inviteeName, inviteeEmail, team)
	}
	return &padel.PendingInvite{Token: "mock-token", MatchID: matchID}, nil
}

func (m *MockStore) Get(token string) (*padel.PendingInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(token)
	}
	return &padel.PendingInvite{Token: token, Status: padel.InviteOpen}, nil
}

func (m *MockStore) ListByMatch(matchID string) ([]padel.PendingInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListByMatchFunc != nil {
		return m.ListByMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) Convert(token, userID string) (*padel.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConvertCalls = append(m.ConvertCalls, struct {
		Token  string
		UserID string
	}{token, userID})
	if m.ConvertFunc != nil {
		return m.ConvertFunc(token, userID)
	}
	return &padel.Participant{ID: "mock-participant", UserID: userID}, nil
}

func (m *MockStore) Expire(olderThanDays int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExpireFunc != nil {
		return m.ExpireFunc(olderThanDays)
	}
	return 0, nil
}
