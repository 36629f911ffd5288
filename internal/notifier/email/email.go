package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/metrics"
	"github.com/courtmate/courtmate/internal/notifier"
	"github.com/courtmate/courtmate/internal/padel"
)

// Client sends transactional emails by posting typed events to a
// delivery endpoint. Without an API key it simulates every send and
// reports success, so development environments work without
// credentials.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	from       string
	metrics    metrics.Metrics
}

var _ notifier.Notifier = (*Client)(nil)

// NewClient creates a new email Client.
func NewClient(endpoint, apiKey, from string, metrics metrics.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   endpoint,
		apiKey:     apiKey,
		from:       from,
		metrics:    metrics,
	}
}

// envelope is the wire format the delivery endpoint expects.
type envelope struct {
	Type string `json:"type"`
	From string `json:"from"`
	Data any    `json:"data"`
}

func (c *Client) send(emailType string, data any) (*notifier.Delivery, error) {
	if c.apiKey == "" {
		log.Info("No email API key configured, simulating send", "type", emailType)
		c.metrics.IncEmailsSimulated()
		return &notifier.Delivery{Success: true, Simulated: true}, nil
	}

	body, err := json.Marshal(envelope{Type: emailType, From: c.from, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s email: %w", emailType, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IncEmailsFailed()
		return nil, fmt.Errorf("failed to send %s email: %w", emailType, padel.ErrDownstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncEmailsFailed()
		raw, _ := io.ReadAll(resp.Body)
		log.Error("Email delivery endpoint rejected send", "type", emailType, "status", resp.StatusCode, "body", string(raw))
		return nil, fmt.Errorf("delivery endpoint returned %d for %s email: %w", resp.StatusCode, emailType, padel.ErrDownstream)
	}

	delivery := &notifier.Delivery{Success: true}
	if err := json.NewDecoder(resp.Body).Decode(delivery); err != nil {
		// Delivery happened; an unreadable receipt is not a failure.
		log.Warn("Failed to decode delivery receipt", "type", emailType, "error", err)
	}
	delivery.Success = true

	c.metrics.IncEmailsSent()
	log.Info("Sent email", "type", emailType, "id", delivery.ID)
	return delivery, nil
}

func (c *Client) SendJoinRequest(data notifier.JoinRequestData) (*notifier.Delivery, error) {
	return c.send(notifier.TypeJoinRequest, data)
}

func (c *Client) SendJoinAccepted(data notifier.DecisionData) (*notifier.Delivery, error) {
	data.Accepted = true
	return c.send(notifier.TypeJoinAccepted, data)
}

func (c *Client) SendJoinRejected(data notifier.DecisionData) (*notifier.Delivery, error) {
	data.Accepted = false
	return c.send(notifier.TypeJoinRejected, data)
}

func (c *Client) SendMatchComplete(data notifier.MatchCompleteData) (*notifier.Delivery, error) {
	return c.send(notifier.TypeMatchComplete, data)
}

func (c *Client) SendMatchReminder(data notifier.ReminderData) (*notifier.Delivery, error) {
	return c.send(notifier.TypeMatchReminder, data)
}

func (c *Client) SendDuoInvite(data notifier.DuoInviteData) (*notifier.Delivery, error) {
	return c.send(notifier.TypeDuoInvite, data)
}

func (c *Client) SendGenericInvite(data notifier.GenericInviteData) (*notifier.Delivery, error) {
	return c.send(notifier.TypeGenericInvite, data)
}
