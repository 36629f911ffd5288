package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesCreated      int
	joinsAccepted       int
	resultsRecorded     int
	emailsSent          int
	emailsFailed        int
	emailsSimulated     int
	slackNotifSent      int
	slackNotifFailed    int
	processingDurations []float64
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCreated++
}

func (m *Mock) IncJoinsAccepted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joinsAccepted++
}

func (m *Mock) IncResultsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsRecorded++
}

func (m *Mock) IncEmailsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailsSent++
}

func (m *Mock) IncEmailsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailsFailed++
}

func (m *Mock) IncEmailsSimulated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailsSimulated++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesCreated returns the number of times IncMatchesCreated was called.
func (m *Mock) MatchesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCreated
}

// JoinsAccepted returns the number of times IncJoinsAccepted was called.
func (m *Mock) JoinsAccepted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joinsAccepted
}

// ResultsRecorded returns the number of times IncResultsRecorded was called.
func (m *Mock) ResultsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsRecorded
}

// EmailsSent returns the number of times IncEmailsSent was called.
func (m *Mock) EmailsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emailsSent
}

// EmailsFailed returns the number of times IncEmailsFailed was called.
func (m *Mock) EmailsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emailsFailed
}

// EmailsSimulated returns the number of times IncEmailsSimulated was called.
func (m *Mock) EmailsSimulated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emailsSimulated
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
