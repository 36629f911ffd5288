package pubsub

import (
	"sync"

	"cloud.google.com/go/pubsub"
)

type client struct {
	gcp *pubsub.Client

	mu     sync.Mutex
	topics map[EventType]*pubsub.Topic
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventNotifyJoinRequest EventType = "notify-join-request"
	EventNotifyDecision    EventType = "notify-decision"
	EventNotifyResult      EventType = "notify-result"
	EventMatchReminder     EventType = "match-reminder"
)

// JoinRequestEvent is published when a player files a join request.
type JoinRequestEvent struct {
	MatchID      string `msgpack:"match_id"`
	RequesterID  string `msgpack:"requester_id"`
	DuoPartnerID string `msgpack:"duo_partner_id,omitempty"`
}

// DecisionEvent is published when the organizer accepts or refuses a
// request.
type DecisionEvent struct {
	MatchID       string `msgpack:"match_id"`
	ParticipantID string `msgpack:"participant_id"`
	Accepted      bool   `msgpack:"accepted"`
}

// ResultEvent is published after a result commits.
type ResultEvent struct {
	MatchID string `msgpack:"match_id"`
	Winner  string `msgpack:"winner"`
}

// ReminderEvent is published for each match starting within the
// reminder window.
type ReminderEvent struct {
	MatchID  string `msgpack:"match_id"`
	StartsAt int64  `msgpack:"starts_at"`
}
