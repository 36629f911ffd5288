package notifier

import (
	"github.com/courtmate/courtmate/internal/club"
	"github.com/courtmate/courtmate/internal/padel"
)

// Email event types understood by the delivery endpoint.
const (
	TypeJoinRequest   = "join_request"
	TypeJoinAccepted  = "join_accepted"
	TypeJoinRejected  = "join_rejected"
	TypeMatchComplete = "match_complete"
	TypeMatchReminder = "match_reminder"
	TypeDuoInvite     = "duo_invite"
	TypeGenericInvite = "generic_invite"
)

// Delivery reports the outcome of one email send. Simulated is set when
// no API key is configured and the send was logged instead of sent.
type Delivery struct {
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated,omitempty"`
	ID        string `json:"id,omitempty"`
}

// JoinRequestData feeds the email sent to an organizer when a player
// asks to join their match.
type JoinRequestData struct {
	To             string  `json:"to"`
	OrganizerName  string  `json:"organizer_name"`
	RequesterName  string  `json:"requester_name"`
	RequesterLevel float64 `json:"requester_level"`
	MatchLabel     string  `json:"match_label"`
	Duo            bool    `json:"duo"`
}

// DecisionData feeds the accepted/rejected email sent back to the
// requesting player.
type DecisionData struct {
	To         string `json:"to"`
	PlayerName string `json:"player_name"`
	MatchLabel string `json:"match_label"`
	Accepted   bool   `json:"accepted"`
}

// MatchCompleteData feeds the result email sent to every roster member.
type MatchCompleteData struct {
	To         string         `json:"to"`
	PlayerName string         `json:"player_name"`
	MatchLabel string         `json:"match_label"`
	Winner     padel.TeamSide `json:"winner"`
	ScoreLine  string         `json:"score_line"`
	Won        bool           `json:"won"`
}

// ReminderData feeds the reminder email for a match starting soon.
type ReminderData struct {
	To         string `json:"to"`
	PlayerName string `json:"player_name"`
	MatchLabel string `json:"match_label"`
	ClubName   string `json:"club_name"`
	StartsAt   int64  `json:"starts_at"`
}

// DuoInviteData feeds the invite email a player sends their duo
// partner.
type DuoInviteData struct {
	To          string `json:"to"`
	InviterName string `json:"inviter_name"`
	InviteeName string `json:"invitee_name"`
	MatchLabel  string `json:"match_label"`
	InviteURL   string `json:"invite_url"`
}

// GenericInviteData feeds the app-invite email for an unregistered
// player.
type GenericInviteData struct {
	To          string `json:"to"`
	InviteeName string `json:"invitee_name"`
	InviteURL   string `json:"invite_url"`
}

// Notifier defines a high-level interface for sending transactional
// emails about roster events. Failures here never fail the operation
// that triggered them.
type Notifier interface {
	SendJoinRequest(data JoinRequestData) (*Delivery, error)
	SendJoinAccepted(data DecisionData) (*Delivery, error)
	SendJoinRejected(data DecisionData) (*Delivery, error)
	SendMatchComplete(data MatchCompleteData) (*Delivery, error)
	SendMatchReminder(data ReminderData) (*Delivery, error)
	SendDuoInvite(data DuoInviteData) (*Delivery, error)
	SendGenericInvite(data GenericInviteData) (*Delivery, error)
}

// Announcer posts club-wide announcements and formats slash-command
// responses. This decouples the rest of the application from the
// specific provider (e.g., Slack).
type Announcer interface {
	// For newly booked (full) matches
	SendBookingAnnouncement(m *padel.Match, participants []padel.Participant, dryRun bool) error
	// For completed matches
	SendResultAnnouncement(m *padel.Match, dryRun bool) error

	// For slash commands
	SendLeaderboard(stats []club.PlayerStats, dryRun bool) error
	SendPlayerStats(stats *club.PlayerStats, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(stats []club.PlayerStats) (any, error)
	FormatPlayerStatsResponse(stats *club.PlayerStats, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
