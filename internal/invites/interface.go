package invites

import "github.com/courtmate/courtmate/internal/padel"

// Store manages tokenized invitations for players who are not
// registered yet. An invite converts into a pending roster entry once
// the invitee signs up; it still goes through the organizer's normal
// accept flow to claim a seat.
type Store interface {
	Create(matchID, inviteeName, inviteeEmail string, team padel.TeamSide) (*padel.PendingInvite, error)
	Get(token string) (*padel.PendingInvite, error)
	ListByMatch(matchID string) ([]padel.PendingInvite, error)
	Convert(token, userID string) (*padel.Participant, error)
	Expire(olderThanDays int) (int64, error)
}
