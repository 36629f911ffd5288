package availability

// PollStatus represents the lifecycle state of an availability poll.
type PollStatus string

const (
	StatusCollecting PollStatus = "collecting"
	StatusProposed   PollStatus = "proposed"
	StatusConfirmed  PollStatus = "confirmed"
	StatusCancelled  PollStatus = "cancelled"
)

// Poll is a day-finding poll: the creator offers candidate days and
// players vote on the ones they can make.
type Poll struct {
	ID          string     `json:"id"`
	CreatorID   string     `json:"creator_id"`
	CreatorName string     `json:"creator_name"`
	Question    string     `json:"question,omitempty"`
	Status      PollStatus `json:"status"`
	ProposedDay string     `json:"proposed_day,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	CreatedAt   int64      `json:"created_at"`
	UpdatedAt   int64      `json:"updated_at"`
}

// Option is one candidate day in a poll.
type Option struct {
	ID  string `json:"id"`
	Day string `json:"day"` // YYYY-MM-DD
}

// Vote is one player's yes for one candidate day.
type Vote struct {
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	VotedAt  int64  `json:"voted_at"`
}

// DayTally is the vote count for one candidate day.
type DayTally struct {
	OptionID string   `json:"option_id"`
	Day      string   `json:"day"`
	Voters   []Player `json:"voters"`
	Count    int      `json:"count"`
}

// Player identifies a voter in tallies and proposals.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Proposal is a match suggestion built from the winning day: the first
// four voters split into two sides, the earliest voter books the court.
type Proposal struct {
	PollID             string   `json:"poll_id"`
	Day                string   `json:"day"`
	Players            []Player `json:"players"`
	TeamA              []Player `json:"team_a"`
	TeamB              []Player `json:"team_b"`
	BookingResponsible Player   `json:"booking_responsible"`
}
