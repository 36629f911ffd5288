package padel

// MatchStatus defines the lifecycle state of a match.
type MatchStatus string

const (
	StatusOpen      MatchStatus = "open"
	StatusFull      MatchStatus = "full"
	StatusCancelled MatchStatus = "cancelled"
	StatusCompleted MatchStatus = "completed"
)

// Terminal reports whether no further lifecycle transitions are allowed.
func (s MatchStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ParticipantStatus defines the state of a single roster entry.
type ParticipantStatus string

const (
	ParticipantPending   ParticipantStatus = "pending"
	ParticipantConfirmed ParticipantStatus = "confirmed"
	ParticipantRefused   ParticipantStatus = "refused"
	ParticipantCancelled ParticipantStatus = "cancelled"
)

// TeamSide identifies one of the two sides of the court.
type TeamSide string

const (
	TeamA TeamSide = "A"
	TeamB TeamSide = "B"
)

// Valid reports whether the side is one of the two playable teams.
func (t TeamSide) Valid() bool {
	return t == TeamA || t == TeamB
}

// Other returns the opposing side.
func (t TeamSide) Other() TeamSide {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Ambiance is a match's social-intensity tag.
type Ambiance string

const (
	AmbianceLoisir Ambiance = "loisir"
	AmbianceMix    Ambiance = "mix"
	AmbianceCompet Ambiance = "compet"
)

// PlayerAction is an attendance/cancellation behaviour that affects a
// player's reliability score.
type PlayerAction string

const (
	ActionCompleted   PlayerAction = "completed"
	ActionNoShow      PlayerAction = "no_show"
	ActionEarlyCancel PlayerAction = "early_cancel"
	ActionLateCancel  PlayerAction = "late_cancel"
)

// SpotsTotal is the fixed roster size of a padel match, organizer included.
const SpotsTotal = 4

// MaxSets is the maximum number of recorded sets per match.
const MaxSets = 3

// SetScore holds the games won by each side in a single set.
type SetScore struct {
	ScoreA int `json:"score_a"`
	ScoreB int `json:"score_b"`
}

// Match is a scheduled or flexible padel session with up to four roster
// slots. spots_available counts seats left for participants, the
// organizer's own seat excluded.
type Match struct {
	ID             string      `json:"id"`
	OrganizerID    string      `json:"organizer_id"`
	OrganizerName  string      `json:"organizer_name"`
	ClubName       string      `json:"club_name"`
	City           string      `json:"city"`
	ScheduledAt    int64       `json:"scheduled_at"` // unix seconds; 0 when flexible
	FlexibleDay    string      `json:"flexible_day,omitempty"`
	FlexiblePeriod string      `json:"flexible_period,omitempty"`
	LevelMin       float64     `json:"level_min"`
	LevelMax       float64     `json:"level_max"`
	Ambiance       Ambiance    `json:"ambiance"`
	PriceTotal     int64       `json:"price_total,omitempty"` // minor currency units
	PaymentMethod  string      `json:"payment_method,omitempty"`
	SpotsTotal     int         `json:"spots_total"`
	SpotsAvailable int         `json:"spots_available"`
	Status         MatchStatus `json:"status"`
	OrganizerTeam  TeamSide    `json:"organizer_team"`
	Winner         TeamSide    `json:"winner,omitempty"`
	Sets           []SetScore  `json:"sets,omitempty"`
	CancelReason   string      `json:"cancel_reason,omitempty"`
	CreatedAt      int64       `json:"created_at"`
}

// HasResult reports whether a winner has been recorded.
func (m *Match) HasResult() bool {
	return m.Winner.Valid()
}

// Participant is a roster entry for a match. UserID is empty for a
// manually invited, unregistered player, in which case InviteeName and
// InviteeEmail identify them.
type Participant struct {
	ID              string            `json:"id"`
	MatchID         string            `json:"match_id"`
	UserID          string            `json:"user_id,omitempty"`
	InviteeName     string            `json:"invitee_name,omitempty"`
	InviteeEmail    string            `json:"invitee_email,omitempty"`
	Team            TeamSide          `json:"team,omitempty"` // empty = unassigned
	Status          ParticipantStatus `json:"status"`
	DuoWith         string            `json:"duo_with,omitempty"` // paired participant ID
	ShowedUp        *bool             `json:"showed_up,omitempty"`
	HasPaid         bool              `json:"has_paid"`
	PaidConfirmedBy string            `json:"paid_confirmed_by,omitempty"`
	CancelledAt     int64             `json:"cancelled_at,omitempty"`
	CancelAction    PlayerAction      `json:"cancel_action,omitempty"`
	CreatedAt       int64             `json:"created_at"`
}

// Profile is a registered player. Stat counters and the reliability
// score are mutated only by result recording and the reliability
// scorer, never directly by the user.
type Profile struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email,omitempty"`
	Level            float64  `json:"level"`
	Position         string   `json:"position,omitempty"`
	AmbiancePref     Ambiance `json:"ambiance_pref,omitempty"`
	ReliabilityScore int      `json:"reliability_score"`
	MatchesPlayed    int      `json:"matches_played"`
	MatchesWon       int      `json:"matches_won"`
	MatchesLost      int      `json:"matches_lost"`
	CurrentStreak    int      `json:"current_streak"`
	BestStreak       int      `json:"best_streak"`
}

// PendingInvite is a tokenized invitation for a player who has not
// registered yet. It converts into a Participant once the invitee signs
// up.
type PendingInvite struct {
	Token        string   `json:"token"`
	MatchID      string   `json:"match_id"`
	InviteeName  string   `json:"invitee_name"`
	InviteeEmail string   `json:"invitee_email"`
	Team         TeamSide `json:"team,omitempty"`
	Status       string   `json:"status"`
	CreatedAt    int64    `json:"created_at"`
}

const (
	InviteOpen      = "open"
	InviteConverted = "converted"
	InviteExpired   = "expired"
)
