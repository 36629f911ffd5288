package availability

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/google/uuid"
)

type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new availability Service backed by the given database.
func New(db *sql.DB) Service {
	return &store{db: db}
}

func (s *store) CreatePoll(creatorID, creatorName, question string, days []string) (*Poll, error) {
	if creatorID == "" || creatorName == "" {
		return nil, fmt.Errorf("creator is required: %w", padel.ErrValidation)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("at least one candidate day is required: %w", padel.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	poll := &Poll{
		ID:          uuid.New().String(),
		CreatorID:   creatorID,
		CreatorName: creatorName,
		Question:    question,
		Status:      StatusCollecting,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO availability_polls (id, creator_id, creator_name, question, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, poll.ID, poll.CreatorID, poll.CreatorName, poll.Question, poll.Status, poll.CreatedAt, poll.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	seen := map[string]bool{}
	for _, day := range days {
		if day == "" || seen[day] {
			continue
		}
		seen[day] = true
		opt := Option{ID: uuid.New().String(), Day: day}
		if _, err := tx.Exec("INSERT INTO poll_options (id, poll_id, day) VALUES (?, ?, ?)", opt.ID, poll.ID, opt.Day); err != nil {
			return nil, fmt.Errorf("failed to create poll option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit poll: %w", err)
	}

	log.Info("Created availability poll", "pollID", poll.ID, "creator", creatorName, "days", len(poll.Options))
	return poll, nil
}

func (s *store) GetPoll(pollID string) (*Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPoll(pollID)
}

func (s *store) ListActive() ([]Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, creator_id, creator_name, COALESCE(question, ''), status, COALESCE(proposed_day, ''), created_at, updated_at
		FROM availability_polls WHERE status IN (?, ?) ORDER BY created_at DESC
	`, StatusCollecting, StatusProposed)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	var polls []Poll
	for rows.Next() {
		var p Poll
		if err := rows.Scan(&p.ID, &p.CreatorID, &p.CreatorName, &p.Question, &p.Status, &p.ProposedDay, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll row: %w", err)
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

func (s *store) Vote(pollID, optionID, userID, userName string) error {
	if userID == "" || userName == "" {
		return fmt.Errorf("voter is required: %w", padel.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	poll, err := s.getPoll(pollID)
	if err != nil {
		return err
	}
	if poll.Status != StatusCollecting {
		return fmt.Errorf("poll %s is %s, not collecting: %w", pollID, poll.Status, padel.ErrStateConflict)
	}
	if !poll.hasOption(optionID) {
		return fmt.Errorf("option %s in poll %s: %w", optionID, pollID, padel.ErrNotFound)
	}

	_, err = s.db.Exec(`
		INSERT INTO poll_votes (poll_id, option_id, user_id, user_name, voted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(poll_id, option_id, user_id) DO NOTHING
	`, pollID, optionID, userID, userName, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}
	return nil
}

func (s *store) Unvote(pollID, optionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, err := s.getPoll(pollID)
	if err != nil {
		return err
	}
	if poll.Status != StatusCollecting {
		return fmt.Errorf("poll %s is %s, not collecting: %w", pollID, poll.Status, padel.ErrStateConflict)
	}

	_, err = s.db.Exec(`
		DELETE FROM poll_votes WHERE poll_id = ? AND option_id = ? AND user_id = ?
	`, pollID, optionID, userID)
	if err != nil {
		return fmt.Errorf("failed to withdraw vote: %w", err)
	}
	return nil
}

func (s *store) Tally(pollID string) ([]DayTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	poll, err := s.getPoll(pollID)
	if err != nil {
		return nil, err
	}
	return s.tally(poll)
}

// Propose picks the most popular day and builds a match suggestion
// from its voters. Ties break on the earlier day. The first four
// voters play, split alternately into the two sides, and the earliest
// voter is on the hook for booking the court.
func (s *store) Propose(pollID string) (*Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, err := s.getPoll(pollID)
	if err != nil {
		return nil, err
	}
	if poll.Status != StatusCollecting {
		return nil, fmt.Errorf("poll %s is %s, not collecting: %w", pollID, poll.Status, padel.ErrStateConflict)
	}

	tallies, err := s.tally(poll)
	if err != nil {
		return nil, err
	}
	if len(tallies) == 0 || tallies[0].Count < padel.SpotsTotal {
		return nil, fmt.Errorf("no day in poll %s has %d available players: %w", pollID, padel.SpotsTotal, padel.ErrStateConflict)
	}

	winner := tallies[0]
	players := winner.Voters[:padel.SpotsTotal]
	proposal := &Proposal{
		PollID:             pollID,
		Day:                winner.Day,
		Players:            players,
		BookingResponsible: players[0],
	}
	for i, p := range players {
		if i%2 == 0 {
			proposal.TeamA = append(proposal.TeamA, p)
		} else {
			proposal.TeamB = append(proposal.TeamB, p)
		}
	}

	res, err := s.db.Exec(`
		UPDATE availability_polls SET status = ?, proposed_day = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, StatusProposed, winner.Day, time.Now().Unix(), pollID, StatusCollecting)
	if err != nil {
		return nil, fmt.Errorf("failed to store proposal: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	} else if affected == 0 {
		return nil, fmt.Errorf("poll %s changed concurrently: %w", pollID, padel.ErrStateConflict)
	}

	log.Info("Proposed match from poll", "pollID", pollID, "day", winner.Day, "players", len(players))
	return proposal, nil
}

func (s *store) Confirm(pollID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transition(pollID, StatusProposed, StatusConfirmed)
}

func (s *store) Cancel(pollID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transition(pollID, StatusCollecting, StatusCancelled); err == nil {
		return nil
	}
	return s.transition(pollID, StatusProposed, StatusCancelled)
}

func (s *store) transition(pollID string, from, to PollStatus) error {
	res, err := s.db.Exec(`
		UPDATE availability_polls SET status = ?, updated_at = ? WHERE id = ? AND status = ?
	`, to, time.Now().Unix(), pollID, from)
	if err != nil {
		return fmt.Errorf("failed to update poll status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := s.getPoll(pollID); err != nil {
			return err
		}
		return fmt.Errorf("poll %s is not %s: %w", pollID, from, padel.ErrStateConflict)
	}
	return nil
}

func (s *store) getPoll(pollID string) (*Poll, error) {
	var p Poll
	err := s.db.QueryRow(`
		SELECT id, creator_id, creator_name, COALESCE(question, ''), status, COALESCE(proposed_day, ''), created_at, updated_at
		FROM availability_polls WHERE id = ?
	`, pollID).Scan(&p.ID, &p.CreatorID, &p.CreatorName, &p.Question, &p.Status, &p.ProposedDay, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("poll %s: %w", pollID, padel.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query poll %s: %w", pollID, err)
	}

	rows, err := s.db.Query("SELECT id, day FROM poll_options WHERE poll_id = ? ORDER BY day ASC", pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt Option
		if err := rows.Scan(&opt.ID, &opt.Day); err != nil {
			return nil, fmt.Errorf("failed to scan option row: %w", err)
		}
		p.Options = append(p.Options, opt)
	}
	return &p, rows.Err()
}

func (s *store) tally(poll *Poll) ([]DayTally, error) {
	rows, err := s.db.Query(`
		SELECT option_id, user_id, user_name FROM poll_votes
		WHERE poll_id = ? ORDER BY voted_at ASC, user_id ASC
	`, poll.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votersByOption := map[string][]Player{}
	for rows.Next() {
		var optionID string
		var voter Player
		if err := rows.Scan(&optionID, &voter.ID, &voter.Name); err != nil {
			return nil, fmt.Errorf("failed to scan vote row: %w", err)
		}
		votersByOption[optionID] = append(votersByOption[optionID], voter)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tallies := make([]DayTally, 0, len(poll.Options))
	for _, opt := range poll.Options {
		voters := votersByOption[opt.ID]
		tallies = append(tallies, DayTally{
			OptionID: opt.ID,
			Day:      opt.Day,
			Voters:   voters,
			Count:    len(voters),
		})
	}
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Count != tallies[j].Count {
			return tallies[i].Count > tallies[j].Count
		}
		return tallies[i].Day < tallies[j].Day
	})
	return tallies, nil
}

func (p *Poll) hasOption(optionID string) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
