package match

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/google/uuid"
)

// New creates a new match Service backed by the given database.
func New(db *sql.DB) Service {
	return &store{
		db:    db,
		locks: newMatchLocks(),
	}
}

const matchColumns = `
	m.id, m.organizer_id, COALESCE(p.name, ''), COALESCE(m.club_name, ''), COALESCE(m.city, ''),
	m.scheduled_at, COALESCE(m.flexible_day, ''), COALESCE(m.flexible_period, ''),
	m.level_min, m.level_max, m.ambiance, COALESCE(m.price_total, 0), COALESCE(m.payment_method, ''),
	m.spots_total, m.spots_available, m.status, m.organizer_team,
	COALESCE(m.winner, ''), m.set1_a, m.set1_b, m.set2_a, m.set2_b, m.set3_a, m.set3_b,
	COALESCE(m.cancel_reason, ''), m.created_at`

func (s *store) CreateMatch(in CreateMatchInput) (*padel.Match, error) {
	if in.OrganizerID == "" {
		return nil, fmt.Errorf("organizer is required: %w", padel.ErrValidation)
	}
	if in.ScheduledAt == 0 && in.FlexibleDay == "" {
		return nil, fmt.Errorf("either a scheduled time or a flexible day is required: %w", padel.ErrValidation)
	}
	if in.LevelMin > in.LevelMax {
		return nil, fmt.Errorf("level range is inverted: %w", padel.ErrValidation)
	}
	team := in.OrganizerTeam
	if team == "" {
		team = padel.TeamA
	}
	if !team.Valid() {
		return nil, fmt.Errorf("organizer team %q: %w", in.OrganizerTeam, padel.ErrValidation)
	}
	ambiance := in.Ambiance
	if ambiance == "" {
		ambiance = padel.AmbianceMix
	}

	m := &padel.Match{
		ID:             uuid.New().String(),
		OrganizerID:    in.OrganizerID,
		ClubName:       in.ClubName,
		City:           in.City,
		ScheduledAt:    in.ScheduledAt,
		FlexibleDay:    in.FlexibleDay,
		FlexiblePeriod: in.FlexiblePeriod,
		LevelMin:       in.LevelMin,
		LevelMax:       in.LevelMax,
		Ambiance:       ambiance,
		PriceTotal:     in.PriceTotal,
		PaymentMethod:  in.PaymentMethod,
		SpotsTotal:     padel.SpotsTotal,
		SpotsAvailable: padel.SpotsTotal - 1, // the organizer takes a seat
		Status:         padel.DeriveStatus(padel.SpotsTotal-1, false, false),
		OrganizerTeam:  team,
		CreatedAt:      time.Now().Unix(),
	}

	_, err := s.db.Exec(`
		INSERT INTO matches (id, organizer_id, club_name, city, scheduled_at, flexible_day, flexible_period,
			level_min, level_max, ambiance, price_total, payment_method,
			spots_total, spots_available, status, organizer_team, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.OrganizerID, m.ClubName, m.City, m.ScheduledAt, m.FlexibleDay, m.FlexiblePeriod,
		m.LevelMin, m.LevelMax, m.Ambiance, m.PriceTotal, m.PaymentMethod,
		m.SpotsTotal, m.SpotsAvailable, m.Status, m.OrganizerTeam, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Info("Created match", "matchID", m.ID, "organizer", m.OrganizerID)
	return m, nil
}

func (s *store) GetMatch(matchID string) (*Detail, error) {
	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return nil, err
	}
	participants, err := s.getParticipants(s.db, matchID)
	if err != nil {
		return nil, err
	}
	return &Detail{Match: *m, Participants: participants}, nil
}

func (s *store) ListMatches(status padel.MatchStatus) ([]padel.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m LEFT JOIN profiles p ON p.id = m.organizer_id`
	args := []any{}
	if status != "" {
		query += " WHERE m.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY m.scheduled_at DESC, m.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []padel.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// ListUpcoming returns open or full matches starting within the window,
// participants included, for reminder fan-out.
func (s *store) ListUpcoming(within time.Duration) ([]Detail, error) {
	now := time.Now()
	rows, err := s.db.Query(`
		SELECT `+matchColumns+`
		FROM matches m LEFT JOIN profiles p ON p.id = m.organizer_id
		WHERE m.status IN (?, ?) AND m.scheduled_at > ? AND m.scheduled_at <= ?
		ORDER BY m.scheduled_at ASC
	`, padel.StatusOpen, padel.StatusFull, now.Unix(), now.Add(within).Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming matches: %w", err)
	}
	defer rows.Close()

	var details []Detail
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		details = append(details, Detail{Match: *m})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range details {
		participants, err := s.getParticipants(s.db, details[i].Match.ID)
		if err != nil {
			return nil, err
		}
		details[i].Participants = participants
	}
	return details, nil
}

func (s *store) CancelMatch(matchID, actorID, reason string) error {
	if reason == "" {
		return fmt.Errorf("a cancellation reason is required: %w", padel.ErrValidation)
	}

	unlock := s.locks.acquire(matchID)
	defer unlock()

	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return err
	}
	if m.OrganizerID != actorID {
		return fmt.Errorf("only the organizer may cancel a match: %w", padel.ErrValidation)
	}

	status := padel.DeriveStatus(m.SpotsAvailable, false, true)
	res, err := s.db.Exec(`
		UPDATE matches SET status = ?, cancel_reason = ?
		WHERE id = ? AND status IN (?, ?)
	`, status, reason, matchID, padel.StatusOpen, padel.StatusFull)
	if err != nil {
		return fmt.Errorf("failed to cancel match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("match %s is already %s: %w", matchID, m.Status, padel.ErrStateConflict)
	}

	log.Info("Cancelled match", "matchID", matchID, "reason", reason)
	return nil
}

// querier lets the scan helpers run against either the pool or a tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *store) getMatch(q querier, matchID string) (*padel.Match, error) {
	row := q.QueryRow(`
		SELECT `+matchColumns+`
		FROM matches m LEFT JOIN profiles p ON p.id = m.organizer_id
		WHERE m.id = ?
	`, matchID)

	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match %s: %w", matchID, padel.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query match %s: %w", matchID, err)
	}
	return m, nil
}

const participantColumns = `
	id, match_id, COALESCE(user_id, ''), COALESCE(invitee_name, ''), COALESCE(invitee_email, ''),
	COALESCE(team, ''), status, COALESCE(duo_with, ''), showed_up, has_paid,
	COALESCE(paid_confirmed_by, ''), COALESCE(cancelled_at, 0), COALESCE(cancel_action, ''), created_at`

func (s *store) getParticipants(q querier, matchID string) ([]padel.Participant, error) {
	rows, err := q.Query(`
		SELECT `+participantColumns+`
		FROM match_participants WHERE match_id = ? ORDER BY created_at ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []padel.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

func (s *store) getParticipant(q querier, matchID, participantID string) (*padel.Participant, error) {
	row := q.QueryRow(`
		SELECT `+participantColumns+`
		FROM match_participants WHERE id = ? AND match_id = ?
	`, participantID, matchID)

	p, err := scanParticipant(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("participant %s in match %s: %w", participantID, matchID, padel.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query participant %s: %w", participantID, err)
	}
	return p, nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (*padel.Match, error) {
	var m padel.Match
	var winner string
	var set1a, set1b, set2a, set2b, set3a, set3b sql.NullInt64

	err := scanner.Scan(
		&m.ID, &m.OrganizerID, &m.OrganizerName, &m.ClubName, &m.City,
		&m.ScheduledAt, &m.FlexibleDay, &m.FlexiblePeriod,
		&m.LevelMin, &m.LevelMax, &m.Ambiance, &m.PriceTotal, &m.PaymentMethod,
		&m.SpotsTotal, &m.SpotsAvailable, &m.Status, &m.OrganizerTeam,
		&winner, &set1a, &set1b, &set2a, &set2b, &set3a, &set3b,
		&m.CancelReason, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Winner = padel.TeamSide(winner)
	for _, set := range [][2]sql.NullInt64{{set1a, set1b}, {set2a, set2b}, {set3a, set3b}} {
		if set[0].Valid && set[1].Valid {
			m.Sets = append(m.Sets, padel.SetScore{ScoreA: int(set[0].Int64), ScoreB: int(set[1].Int64)})
		}
	}
	return &m, nil
}

func scanParticipant(scanner interface{ Scan(...any) error }) (*padel.Participant, error) {
	var p padel.Participant
	var team, cancelAction string
	var showedUp sql.NullBool
	var hasPaid int

	err := scanner.Scan(
		&p.ID, &p.MatchID, &p.UserID, &p.InviteeName, &p.InviteeEmail,
		&team, &p.Status, &p.DuoWith, &showedUp, &hasPaid,
		&p.PaidConfirmedBy, &p.CancelledAt, &cancelAction, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Team = padel.TeamSide(team)
	p.CancelAction = padel.PlayerAction(cancelAction)
	p.HasPaid = hasPaid != 0
	if showedUp.Valid {
		v := showedUp.Bool
		p.ShowedUp = &v
	}
	return &p, nil
}
