package notifier

import (
	"sync"

	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/padel"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Optional error injected into every send
	SendErr error

	// Call records
	JoinRequestCalls   []JoinRequestData
	JoinAcceptedCalls  []DecisionData
	JoinRejectedCalls  []DecisionData
	MatchCompleteCalls []MatchCompleteData
	MatchReminderCalls []ReminderData
	DuoInviteCalls     []DuoInviteData
	GenericInviteCalls []GenericInviteData
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) send() (*Delivery, error) {
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	return &Delivery{Success: true}, nil
}

func (m *Mock) SendJoinRequest(data JoinRequestData) (*Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JoinRequestCalls = append(m.JoinRequestCalls, data)
	return m.send()
}

func (m *Mock) SendJoinAccepted(data DecisionData) (*Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JoinAcceptedCalls = append(m.JoinAcceptedCalls, data)
	return m.send()
}

func (m *Mock) SendJoinRejected(data DecisionData) (*Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JoinRejectedCalls = append(m.JoinRejectedCalls, data)
	return m.send()
}

func (m *Mock) SendMatchComplete(data MatchCompleteData) (*Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchCompleteCalls = append(m.MatchCompleteCalls, data)
	return m.send()
}

func (m *Mock) SendMatchReminder(data ReminderData) (*Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchReminderCalls = append(m.MatchReminderCalls, data)
	return m.send()
}

func (m *Mock) SendDuoInvite(data DuoInviteData) (*Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuoInviteCalls = append(m.DuoInviteCalls, data)
	return m.send()
}

func (m *Mock) SendGenericInvite(data GenericInviteData) (*Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenericInviteCalls = append(m.GenericInviteCalls, data)
	return m.send()
}

// MockAnnouncer is a mock implementation of the Announcer interface for
// testing. It is safe for concurrent use.
type MockAnnouncer struct {
	mu sync.Mutex

	// Call records
	BookingAnnouncementCalls []struct{ Match *padel.Match }
	ResultAnnouncementCalls  []struct{ Match *padel.Match }
	SendLeaderboardCalls     [][]club.PlayerStats
	SendPlayerStatsCalls     []struct {
		Stats *club.PlayerStats
		Query string
	}
	SendPlayerNotFoundCalls []string

	// Spies for format functions
	FormatLeaderboardResponseFunc    func(stats []club.PlayerStats) (any, error)
	FormatPlayerStatsResponseFunc    func(stats *club.PlayerStats, query string) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)
}

// NewMockAnnouncer creates a new mock instance.
func NewMockAnnouncer() *MockAnnouncer {
	return &MockAnnouncer{}
}

func (m *MockAnnouncer) SendBookingAnnouncement(match *padel.Match, participants []padel.Participant, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BookingAnnouncementCalls = append(m.BookingAnnouncementCalls, struct{ Match *padel.Match }{match})
	return nil
}

func (m *MockAnnouncer) SendResultAnnouncement(match *padel.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultAnnouncementCalls = append(m.ResultAnnouncementCalls, struct{ Match *padel.Match }{match})
	return nil
}

func (m *MockAnnouncer) SendLeaderboard(stats []club.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, stats)
	return nil
}

func (m *MockAnnouncer) SendPlayerStats(stats *club.PlayerStats, query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerStatsCalls = append(m.SendPlayerStatsCalls, struct {
		Stats *club.PlayerStats
		Query string
	}{stats, query})
	return nil
}

func (m *MockAnnouncer) SendPlayerNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerNotFoundCalls = append(m.SendPlayerNotFoundCalls, query)
	return nil
}

func (m *MockAnnouncer) FormatLeaderboardResponse(stats []club.PlayerStats) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(stats)
	}
	return map[string]any{"text": "leaderboard"}, nil
}

func (m *MockAnnouncer) FormatPlayerStatsResponse(stats *club.PlayerStats, query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(stats, query)
	}
	return map[string]any{"text": "stats"}, nil
}

func (m *MockAnnouncer) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return map[string]any{"text": "not found"}, nil
}
