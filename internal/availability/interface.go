package availability

// Service handles availability polls and turns the winning day into a
// match proposal.
type Service interface {
	// CreatePoll creates a poll with one option per candidate day.
	CreatePoll(creatorID, creatorName, question string, days []string) (*Poll, error)

	// GetPoll retrieves a poll with its options.
	GetPoll(pollID string) (*Poll, error)

	// ListActive returns polls still collecting votes or awaiting
	// confirmation.
	ListActive() ([]Poll, error)

	// Vote records a player's yes for one candidate day. Voting twice
	// for the same day is a no-op.
	Vote(pollID, optionID, userID, userName string) error

	// Unvote withdraws a player's yes for one candidate day.
	Unvote(pollID, optionID, userID string) error

	// Tally counts votes per day, most popular first.
	Tally(pollID string) ([]DayTally, error)

	// Propose picks the winning day and splits its first four voters
	// into two sides. The poll must still be collecting and the winning
	// day needs at least four voters.
	Propose(pollID string) (*Proposal, error)

	// Confirm marks a proposed poll as confirmed.
	Confirm(pollID string) error

	// Cancel closes a poll without a match.
	Cancel(pollID string) error
}
