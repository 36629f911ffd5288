package pubsub

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MockPubSubClient records publishes instead of talking to GCP. Safe for
// concurrent use.
type MockPubSubClient struct {
	mu sync.Mutex

	SendMessageFunc    func(topic EventType, data any) error
	ProcessMessageFunc func(data []byte, returnValue any) error

	SendMessageCalls    []SendMessageCall
	ProcessMessageCalls []ProcessMessageCall
}

// SendMessageCall is one recorded publish.
type SendMessageCall struct {
	Topic string
	Data  any
}

// ProcessMessageCall is one recorded decode.
type ProcessMessageCall struct {
	Data        []byte
	ReturnValue any
}

// NewMock returns an empty recording client. The projectID is accepted
// so call sites mirror New, but nothing is dialed.
func NewMock(projectID string) *MockPubSubClient {
	return &MockPubSubClient{}
}

// Reset drops every recorded call, for reuse across test phases.
func (m *MockPubSubClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = nil
	m.ProcessMessageCalls = nil
}

// SentTo returns the recorded publishes for one topic, in order.
func (m *MockPubSubClient) SentTo(topic EventType) []SendMessageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SendMessageCall
	for _, c := range m.SendMessageCalls {
		if c.Topic == string(topic) {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockPubSubClient) SendMessage(topic EventType, data any) error {
	m.mu.Lock()
	m.SendMessageCalls = append(m.SendMessageCalls, SendMessageCall{Topic: string(topic), Data: data})
	fn := m.SendMessageFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(topic, data)
	}
	return nil
}

// ProcessMessage decodes the payload like the real client unless a stub
// is installed, so push-endpoint tests exercise real msgpack framing.
func (m *MockPubSubClient) ProcessMessage(data []byte, returnValue any) error {
	m.mu.Lock()
	m.ProcessMessageCalls = append(m.ProcessMessageCalls, ProcessMessageCall{Data: data, ReturnValue: returnValue})
	fn := m.ProcessMessageFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(data, returnValue)
	}
	return msgpack.Unmarshal(data, returnValue)
}
