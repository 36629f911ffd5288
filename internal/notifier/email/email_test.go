package email

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtmate/courtmate/internal/metrics"
	"github.com/courtmate/courtmate/internal/notifier"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWithoutAPIKeySimulates(t *testing.T) {
	m := metrics.NewMock()
	client := NewClient("http://unused.invalid", "", "no-reply@courtmate.app", m)

	delivery, err := client.SendJoinRequest(notifier.JoinRequestData{
		To:            "organizer@example.com",
		OrganizerName: "Olivia",
		RequesterName: "Paula",
	})
	require.NoError(t, err)
	assert.True(t, delivery.Success)
	assert.True(t, delivery.Simulated)
	assert.Equal(t, 1, m.EmailsSimulated())
	assert.Zero(t, m.EmailsSent())
}

func TestSendPostsTypedEnvelope(t *testing.T) {
	var got envelope
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"id":"email-123"}`))
	}))
	defer server.Close()

	m := metrics.NewMock()
	client := NewClient(server.URL, "test-key", "no-reply@courtmate.app", m)

	delivery, err := client.SendJoinAccepted(notifier.DecisionData{
		To:         "paula@example.com",
		PlayerName: "Paula",
		MatchLabel: "Saturday at Padel Central",
	})
	require.NoError(t, err)
	assert.True(t, delivery.Success)
	assert.False(t, delivery.Simulated)
	assert.Equal(t, "email-123", delivery.ID)

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, notifier.TypeJoinAccepted, got.Type)
	assert.Equal(t, "no-reply@courtmate.app", got.From)

	data, ok := got.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "paula@example.com", data["to"])
	assert.Equal(t, true, data["accepted"])

	assert.Equal(t, 1, m.EmailsSent())
}

func TestSendEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	m := metrics.NewMock()
	client := NewClient(server.URL, "test-key", "no-reply@courtmate.app", m)

	_, err := client.SendMatchReminder(notifier.ReminderData{To: "paula@example.com"})
	assert.ErrorIs(t, err, padel.ErrDownstream)
	assert.Equal(t, 1, m.EmailsFailed())
}
