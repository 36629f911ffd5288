package invites

import (
	"database/sql"
	"fmt"
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

// New creates a new invite Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Create(matchID, inviteeName, inviteeEmail string, team padel.TeamSide) (*padel.PendingInvite, error) {
	if matchID == "" || inviteeName == "" || inviteeEmail == "" {
		return nil, fmt.Errorf("match, invitee name and email are required: %w", padel.ErrValidation)
	}
	if team != "" && !team.Valid() {
		return nil, fmt.Errorf("team %q: %w", team, padel.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv := &padel.PendingInvite{
		Token:        uuid.New().String(),
		MatchID:      matchID,
		InviteeName:  inviteeName,
		InviteeEmail: inviteeEmail,
		Team:         team,
		Status:       padel.InviteOpen,
		CreatedAt:    time.Now().Unix(),
	}

	_, err := s.db.Exec(`
		INSERT INTO pending_invites (token, match_id, invitee_name, invitee_email, team, status, created_at)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?)
	`, inv.Token, inv.MatchID, inv.InviteeName, inv.InviteeEmail, inv.Team, inv.Status, inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	log.Info("Created invite", "matchID", matchID, "invitee", inviteeName)
	return inv, nil
}

func (s *store) Get(token string) (*padel.PendingInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(s.db, token)
}

func (s *store) ListByMatch(matchID string) ([]padel.PendingInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT token, match_id, invitee_name, invitee_email, COALESCE(team, ''), status, created_at
		FROM pending_invites WHERE match_id = ? ORDER BY created_at ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invites: %w", err)
	}
	defer rows.Close()

	var invites []padel.PendingInvite
	for rows.Next() {
		var inv padel.PendingInvite
		var team string
		if err := rows.Scan(&inv.Token, &inv.MatchID, &inv.InviteeName, &inv.InviteeEmail, &team, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite row: %w", err)
		}
		inv.Team = padel.TeamSide(team)
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// Convert redeems an open invite for a freshly registered player. The
// invite flips to converted and a pending roster entry is created in
// the same transaction, carrying over the team the organizer picked.
func (s *store) Convert(token, userID string) (*padel.Participant, error) {
	if userID == "" {
		return nil, fmt.Errorf("user is required: %w", padel.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inv, err := s.get(tx, token)
	if err != nil {
		return nil, err
	}

	res, err := tx.Exec(`
		UPDATE pending_invites SET status = ? WHERE token = ? AND status = ?
	`, padel.InviteConverted, token, padel.InviteOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to convert invite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("invite %s is %s, not open: %w", token, inv.Status, padel.ErrStateConflict)
	}

	p := &padel.Participant{
		ID:           uuid.New().String(),
		MatchID:      inv.MatchID,
		UserID:       userID,
		InviteeName:  inv.InviteeName,
		InviteeEmail: inv.InviteeEmail,
		Team:         inv.Team,
		Status:       padel.ParticipantPending,
		CreatedAt:    time.Now().Unix(),
	}
	_, err = tx.Exec(`
		INSERT INTO match_participants (id, match_id, user_id, invitee_name, invitee_email, team, status, created_at)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?)
	`, p.ID, p.MatchID, p.UserID, p.InviteeName, p.InviteeEmail, p.Team, p.Status, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant from invite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}

	log.Info("Converted invite", "token", token, "matchID", inv.MatchID, "userID", userID)
	return p, nil
}

// Expire marks open invites older than the cutoff as expired and
// returns how many were touched.
func (s *store) Expire(olderThanDays int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -olderThanDays).Unix()
	res, err := s.db.Exec(`
		UPDATE pending_invites SET status = ? WHERE status = ? AND created_at < ?
	`, padel.InviteExpired, padel.InviteOpen, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire invites: %w", err)
	}
	return res.RowsAffected()
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *store) get(q querier, token string) (*padel.PendingInvite, error) {
	var inv padel.PendingInvite
	var team string
	err := q.QueryRow(`
		SELECT token, match_id, invitee_name, invitee_email, COALESCE(team, ''), status, created_at
		FROM pending_invites WHERE token = ?
	`, token).Scan(&inv.Token, &inv.MatchID, &inv.InviteeName, &inv.InviteeEmail, &team, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invite %s: %w", token, padel.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query invite %s: %w", token, err)
	}
	inv.Team = padel.TeamSide(team)
	return &inv, nil
}
