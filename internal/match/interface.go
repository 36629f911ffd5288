package match

import (
	"time"

	"github.com/courtmate/courtmate/internal/padel"
)

// Service defines the match lifecycle operations. The organizer
// exclusively owns accept/refuse, team assignment, cancellation and
// result recording; a participant owns only their own join, leave and
// payment flag.
type Service interface {
	CreateMatch(in CreateMatchInput) (*padel.Match, error)
	GetMatch(matchID string) (*Detail, error)
	ListMatches(status padel.MatchStatus) ([]padel.Match, error)
	ListUpcoming(within time.Duration) ([]Detail, error)

	// Join files a pending request for userID; when duoPartnerID is set,
	// two paired pending rows are created that transition together.
	Join(matchID, userID, duoPartnerID string) ([]padel.Participant, error)
	Accept(matchID, actorID, participantID string) error
	Refuse(matchID, actorID, participantID string) error
	Leave(matchID, userID string) (padel.PlayerAction, error)

	AssignTeam(matchID, actorID, participantID string, team padel.TeamSide) error
	SwapTeam(matchID, actorID, participantID string) error

	MarkPaid(matchID, userID string) error
	ConfirmPayment(matchID, actorID, participantID string) error
	MarkShowedUp(matchID, actorID, participantID string, showedUp bool) error

	CancelMatch(matchID, actorID, reason string) error
	RecordResult(matchID, actorID string, winner padel.TeamSide, sets []padel.SetScore) error
}
