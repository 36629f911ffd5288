package match

import (
	"sync"
	"time"

	"github.com/courtmate/courtmate/internal/padel"
)

// MockService is a mock implementation of the Service interface for
// testing. It is safe for concurrent use.
type MockService struct {
	mu sync.Mutex

	// Spies for method calls
	CreateMatchFunc    func(in CreateMatchInput) (*padel.Match, error)
	GetMatchFunc       func(matchID string) (*Detail, error)
	ListMatchesFunc    func(status padel.MatchStatus) ([]padel.Match, error)
	ListUpcomingFunc   func(within time.Duration) ([]Detail, error)
	JoinFunc           func(matchID, userID, duoPartnerID string) ([]padel.Participant, error)
	AcceptFunc         func(matchID, actorID, participantID string) error
	RefuseFunc         func(matchID, actorID, participantID string) error
	LeaveFunc          func(matchID, userID string) (padel.PlayerAction, error)
	AssignTeamFunc     func(matchID, actorID, participantID string, team padel.TeamSide) error
	SwapTeamFunc       func(matchID, actorID, participantID string) error
	MarkPaidFunc       func(matchID, userID string) error
	ConfirmPaymentFunc func(matchID, actorID, participantID string) error
	MarkShowedUpFunc   func(matchID, actorID, participantID string, showedUp bool) error
	CancelMatchFunc    func(matchID, actorID, reason string) error
	RecordResultFunc   func(matchID, actorID string, winner padel.TeamSide, sets []padel.SetScore) error

	// Call records
	CreateMatchCalls []CreateMatchInput
	JoinCalls        []struct {
		MatchID      string
		UserID       string
		DuoPartnerID string
	}
	AcceptCalls []struct {
		MatchID       string
		ActorID       string
		ParticipantID string
	}
	LeaveCalls []struct {
		MatchID string
		UserID  string
	}
	CancelMatchCalls []struct {
		MatchID string
		ActorID string
		Reason  string
	}
	RecordResultCalls []struct {
		MatchID string
		ActorID string
		Winner  padel.TeamSide
		Sets    []padel.SetScore
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockService {
	return &MockService{}
}

func (m *MockService) CreateMatch(in CreateMatchInput) (*padel.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, in)
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(in)
	}
	return &padel.Match{ID: "mock-match", OrganizerID: in.OrganizerID}, nil
}

func (m *MockService) GetMatch(matchID string) (*Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return &Detail{Match: padel.Match{ID: matchID}}, nil
}

func (m *MockService) ListMatches(status padel.MatchStatus) ([]padel.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(status)
	}
	return nil, nil
}

func (m *MockService) ListUpcoming(within time.Duration) ([]Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListUpcomingFunc != nil {
		return m.ListUpcomingFunc(within)
	}
	return nil, nil
}

func (m *MockService) Join(matchID, userID, duoPartnerID string) ([]padel.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JoinCalls = append(m.JoinCalls, struct {
		MatchID      string
		UserID       string
		DuoPartnerID string
	}{matchID, userID, duoPartnerID})
	if m.JoinFunc != nil {
		return m.JoinFunc(matchID, userID, duoPartnerID)
	}
	return nil, nil
}

func (m *MockService) Accept(matchID, actorID, participantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AcceptCalls = append(m.AcceptCalls, struct {
		MatchID       string
		ActorID       string
		ParticipantID string
	}{matchID, actorID, participantID})
	if m.AcceptFunc != nil {
		return m.AcceptFunc(matchID, actorID, participantID)
	}
	return nil
}

func (m *MockService) Refuse(matchID, actorID, participantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RefuseFunc != nil {
		return m.RefuseFunc(matchID, actorID, participantID)
	}
	return nil
}

func (m *MockService) Leave(matchID, userID string) (padel.PlayerAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaveCalls = append(m.LeaveCalls, struct {
		MatchID string
		UserID  string
	}{matchID, userID})
	if m.LeaveFunc != nil {
		return m.LeaveFunc(matchID, userID)
	}
	return padel.ActionEarlyCancel, nil
}

func (m *MockService) AssignTeam(matchID, actorID, participantID string, team padel.TeamSide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AssignTeamFunc != nil {
		return m.AssignTeamFunc(matchID, actorID, participantID, team)
	}
	return nil
}

func (m *MockService) SwapTeam(matchID, actorID, participantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SwapTeamFunc != nil {
		return m.SwapTeamFunc(matchID, actorID, participantID)
	}
	return nil
}

func (m *MockService) MarkPaid(matchID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(matchID, userID)
	}
	return nil
}

func (m *MockService) ConfirmPayment(matchID, actorID, participantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConfirmPaymentFunc != nil {
		return m.ConfirmPaymentFunc(matchID, actorID, participantID)
	}
	return nil
}

func (m *MockService) MarkShowedUp(matchID, actorID, participantID string, showedUp bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkShowedUpFunc != nil {
		return m.MarkShowedUpFunc(matchID, actorID, participantID, showedUp)
	}
	return nil
}

func (m *MockService) CancelMatch(matchID, actorID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelMatchCalls = append(m.CancelMatchCalls, struct {
		MatchID string
		ActorID string
		Reason  string
	}{matchID, actorID, reason})
	if m.CancelMatchFunc != nil {
		return m.CancelMatchFunc(matchID, actorID, reason)
	}
	return nil
}

func (m *MockService) RecordResult(matchID, actorID string, winner padel.TeamSide, sets []padel.SetScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordResultCalls = append(m.RecordResultCalls, struct {
		MatchID string
		ActorID string
		Winner  padel.TeamSide
		Sets    []padel.SetScore
	}{matchID, actorID, winner, sets})
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(matchID, actorID, winner, sets)
	}
	return nil
}
