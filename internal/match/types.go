package match

import (
	"database/sql"

	"github.com/courtmate/courtmate/internal/padel"
)

// store handles all database operations for matches and their rosters.
// Mutations on a single match are serialized through a per-match lock on
// top of the transactional conditional updates.
type store struct {
	db    *sql.DB
	locks *matchLocks
}

// CreateMatchInput carries the organizer-supplied fields for a new match.
type CreateMatchInput struct {
	OrganizerID    string         `json:"organizer_id"`
	ClubName       string         `json:"club_name"`
	City           string         `json:"city"`
	ScheduledAt    int64          `json:"scheduled_at"`
	FlexibleDay    string         `json:"flexible_day"`
	FlexiblePeriod string         `json:"flexible_period"`
	LevelMin       float64        `json:"level_min"`
	LevelMax       float64        `json:"level_max"`
	Ambiance       padel.Ambiance `json:"ambiance"`
	PriceTotal     int64          `json:"price_total"`
	PaymentMethod  string         `json:"payment_method"`
	OrganizerTeam  padel.TeamSide `json:"organizer_team"`
}

// Detail is a match together with its full participant list.
type Detail struct {
	Match        padel.Match         `json:"match"`
	Participants []padel.Participant `json:"participants"`
}

// SlotEntry is one of the four display slots of a match.
type SlotEntry struct {
	ParticipantID string `json:"participant_id,omitempty"` // empty for the organizer
	UserID        string `json:"user_id,omitempty"`
	Name          string `json:"name"`
	IsOrganizer   bool   `json:"is_organizer"`
}

// Slots is the court view: two teams of up to two players each, plus
// confirmed participants the organizer has not yet assigned to a side.
type Slots struct {
	TeamA      []SlotEntry `json:"team_a"`
	TeamB      []SlotEntry `json:"team_b"`
	Unassigned []SlotEntry `json:"unassigned"`
	OpenSpots  int         `json:"open_spots"`
}
