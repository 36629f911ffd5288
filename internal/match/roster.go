package match

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/google/uuid"
)

// Join files a pending join request. A duo request creates two paired
// rows that will be confirmed or refused together.
func (s *store) Join(matchID, userID, duoPartnerID string) ([]padel.Participant, error) {
	if userID == "" {
		return nil, fmt.Errorf("user is required: %w", padel.ErrValidation)
	}
	if duoPartnerID == userID {
		return nil, fmt.Errorf("duo partner must be a different player: %w", padel.ErrValidation)
	}

	unlock := s.locks.acquire(matchID)
	defer unlock()

	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != padel.StatusOpen {
		return nil, fmt.Errorf("match %s is %s: %w", matchID, m.Status, padel.ErrStateConflict)
	}
	if m.OrganizerID == userID || m.OrganizerID == duoPartnerID {
		return nil, fmt.Errorf("the organizer already holds a roster seat: %w", padel.ErrValidation)
	}

	for _, id := range []string{userID, duoPartnerID} {
		if id == "" {
			continue
		}
		var active int
		err := s.db.QueryRow(`
			SELECT COUNT(1) FROM match_participants
			WHERE match_id = ? AND user_id = ? AND status IN (?, ?)
		`, matchID, id, padel.ParticipantPending, padel.ParticipantConfirmed).Scan(&active)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing request: %w", err)
		}
		if active > 0 {
			return nil, fmt.Errorf("player %s already has an active request for match %s: %w", id, matchID, padel.ErrStateConflict)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	first := padel.Participant{
		ID:        uuid.New().String(),
		MatchID:   matchID,
		UserID:    userID,
		Status:    padel.ParticipantPending,
		CreatedAt: now,
	}
	participants := []padel.Participant{first}

	if duoPartnerID != "" {
		second := padel.Participant{
			ID:        uuid.New().String(),
			MatchID:   matchID,
			UserID:    duoPartnerID,
			Status:    padel.ParticipantPending,
			DuoWith:   first.ID,
			CreatedAt: now,
		}
		participants[0].DuoWith = second.ID
		participants = append(participants, second)
	}

	for _, p := range participants {
		_, err := tx.Exec(`
			INSERT INTO match_participants (id, match_id, user_id, status, duo_with, created_at)
			VALUES (?, ?, ?, ?, NULLIF(?, ''), ?)
		`, p.ID, p.MatchID, p.UserID, p.Status, p.DuoWith, p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert join request: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit join request: %w", err)
	}

	log.Info("Filed join request", "matchID", matchID, "userID", userID, "duo", duoPartnerID != "")
	return participants, nil
}

// Accept confirms a pending participant (and their duo partner, both or
// neither) and claims the seats inside a single transaction. The seat
// decrement is a conditional update so a concurrent double-accept can
// never overbook the roster.
func (s *store) Accept(matchID, actorID, participantID string) error {
	unlock := s.locks.acquire(matchID)
	defer unlock()

	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return err
	}
	if m.OrganizerID != actorID {
		return fmt.Errorf("only the organizer may accept a request: %w", padel.ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids, err := s.pendingPair(tx, matchID, participantID)
	if err != nil {
		return err
	}
	seats := len(ids)

	newSpots := m.SpotsAvailable - seats
	if newSpots < 0 {
		return fmt.Errorf("match %s has %d spot(s) left, %d requested: %w", matchID, m.SpotsAvailable, seats, padel.ErrCapacity)
	}

	res, err := tx.Exec(`
		UPDATE matches SET spots_available = ?, status = ?
		WHERE id = ? AND status = ? AND spots_available = ?
	`, newSpots, padel.DeriveStatus(newSpots, false, false), matchID, padel.StatusOpen, m.SpotsAvailable)
	if err != nil {
		return fmt.Errorf("failed to claim seats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		if m.Status != padel.StatusOpen {
			return fmt.Errorf("match %s is %s: %w", matchID, m.Status, padel.ErrStateConflict)
		}
		return fmt.Errorf("match %s changed concurrently: %w", matchID, padel.ErrStateConflict)
	}

	if err := s.transitionPending(tx, ids, padel.ParticipantConfirmed); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit acceptance: %w", err)
	}

	log.Info("Accepted join request", "matchID", matchID, "participantID", participantID, "seats", seats)
	return nil
}

// Refuse declines a pending participant (and their duo partner). No
// capacity change: pending requests never held a seat.
func (s *store) Refuse(matchID, actorID, participantID string) error {
	unlock := s.locks.acquire(matchID)
	defer unlock()

	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return err
	}
	if m.OrganizerID != actorID {
		return fmt.Errorf("only the organizer may refuse a request: %w", padel.ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids, err := s.pendingPair(tx, matchID, participantID)
	if err != nil {
		return err
	}
	if err := s.transitionPending(tx, ids, padel.ParticipantRefused); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit refusal: %w", err)
	}

	log.Info("Refused join request", "matchID", matchID, "participantID", participantID)
	return nil
}

// Leave withdraws a confirmed participant from the roster. The
// cancellation is classified against the match start time, the
// reliability penalty is applied in the same transaction, the seat is
// released and the match reopens.
func (s *store) Leave(matchID, userID string) (padel.PlayerAction, error) {
	unlock := s.locks.acquire(matchID)
	defer unlock()

	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return "", err
	}
	if m.Status.Terminal() {
		return "", fmt.Errorf("match %s is %s: %w", matchID, m.Status, padel.ErrStateConflict)
	}

	var participantID string
	err = s.db.QueryRow(`
		SELECT id FROM match_participants
		WHERE match_id = ? AND user_id = ? AND status = ?
	`, matchID, userID, padel.ParticipantConfirmed).Scan(&participantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("no confirmed participation for player %s in match %s: %w", userID, matchID, padel.ErrNotFound)
		}
		return "", fmt.Errorf("failed to find participation: %w", err)
	}

	action := padel.ClassifyCancellation(time.Now(), m.ScheduledAt)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE match_participants
		SET status = ?, cancelled_at = ?, cancel_action = ?
		WHERE id = ? AND status = ?
	`, padel.ParticipantCancelled, time.Now().Unix(), action, participantID, padel.ParticipantConfirmed)
	if err != nil {
		return "", fmt.Errorf("failed to cancel participation: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return "", fmt.Errorf("failed to read rows affected: %w", err)
	} else if affected == 0 {
		return "", fmt.Errorf("participation changed concurrently: %w", padel.ErrStateConflict)
	}

	// Releasing a seat reopens the match, even from full.
	newSpots := m.SpotsAvailable + 1
	_, err = tx.Exec(`
		UPDATE matches SET spots_available = ?, status = ?
		WHERE id = ? AND status IN (?, ?)
	`, newSpots, padel.DeriveStatus(newSpots, false, false), matchID, padel.StatusOpen, padel.StatusFull)
	if err != nil {
		return "", fmt.Errorf("failed to release seat: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE profiles
		SET reliability_score = MAX(?, MIN(?, reliability_score + ?))
		WHERE id = ?
	`, padel.ReliabilityMin, padel.ReliabilityMax, padel.ReliabilityDelta(action), userID)
	if err != nil {
		return "", fmt.Errorf("failed to apply reliability penalty: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit withdrawal: %w", err)
	}

	log.Info("Participant left match", "matchID", matchID, "userID", userID, "action", action)
	return action, nil
}

// AssignTeam places a confirmed participant on side A or B. Pending and
// refused participants cannot hold a team.
func (s *store) AssignTeam(matchID, actorID, participantID string, team padel.TeamSide) error {
	if !team.Valid() {
		return fmt.Errorf("team %q: %w", team, padel.ErrValidation)
	}

	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return err
	}
	if m.OrganizerID != actorID {
		return fmt.Errorf("only the organizer may assign teams: %w", padel.ErrValidation)
	}
	if m.Status.Terminal() {
		return fmt.Errorf("match %s is %s: %w", matchID, m.Status, padel.ErrStateConflict)
	}

	res, err := s.db.Exec(`
		UPDATE match_participants SET team = ?
		WHERE id = ? AND match_id = ? AND status = ?
	`, team, participantID, matchID, padel.ParticipantConfirmed)
	if err != nil {
		return fmt.Errorf("failed to assign team: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		p, err := s.getParticipant(s.db, matchID, participantID)
		if err != nil {
			return err
		}
		return fmt.Errorf("participant %s is %s, not confirmed: %w", participantID, p.Status, padel.ErrStateConflict)
	}
	return nil
}

// SwapTeam toggles a participant between sides A and B.
func (s *store) SwapTeam(matchID, actorID, participantID string) error {
	p, err := s.getParticipant(s.db, matchID, participantID)
	if err != nil {
		return err
	}
	if !p.Team.Valid() {
		return fmt.Errorf("participant %s has no team assigned: %w", participantID, padel.ErrValidation)
	}
	return s.AssignTeam(matchID, actorID, participantID, p.Team.Other())
}

// MarkPaid lets a participant flag their own share as paid.
func (s *store) MarkPaid(matchID, userID string) error {
	res, err := s.db.Exec(`
		UPDATE match_participants SET has_paid = 1
		WHERE match_id = ? AND user_id = ? AND status = ?
	`, matchID, userID, padel.ParticipantConfirmed)
	if err != nil {
		return fmt.Errorf("failed to mark paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no confirmed participation for player %s in match %s: %w", userID, matchID, padel.ErrNotFound)
	}
	return nil
}

// ConfirmPayment lets the organizer countersign a participant's payment.
func (s *store) ConfirmPayment(matchID, actorID, participantID string) error {
	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return err
	}
	if m.OrganizerID != actorID {
		return fmt.Errorf("only the organizer may confirm payments: %w", padel.ErrValidation)
	}

	res, err := s.db.Exec(`
		UPDATE match_participants SET paid_confirmed_by = ?
		WHERE id = ? AND match_id = ? AND has_paid = 1
	`, actorID, participantID, matchID)
	if err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("participant %s has not marked their share paid: %w", participantID, padel.ErrStateConflict)
	}
	return nil
}

// MarkShowedUp records post-match attendance. A no-show takes the
// corresponding reliability penalty in the same transaction.
func (s *store) MarkShowedUp(matchID, actorID, participantID string, showedUp bool) error {
	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return err
	}
	if m.OrganizerID != actorID {
		return fmt.Errorf("only the organizer may record attendance: %w", padel.ErrValidation)
	}

	p, err := s.getParticipant(s.db, matchID, participantID)
	if err != nil {
		return err
	}
	if p.Status != padel.ParticipantConfirmed {
		return fmt.Errorf("participant %s is %s, not confirmed: %w", participantID, p.Status, padel.ErrStateConflict)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE match_participants SET showed_up = ? WHERE id = ?", showedUp, participantID); err != nil {
		return fmt.Errorf("failed to record attendance: %w", err)
	}
	if !showedUp && p.UserID != "" {
		_, err = tx.Exec(`
			UPDATE profiles
			SET reliability_score = MAX(?, MIN(?, reliability_score + ?))
			WHERE id = ?
		`, padel.ReliabilityMin, padel.ReliabilityMax, padel.ReliabilityDelta(padel.ActionNoShow), p.UserID)
		if err != nil {
			return fmt.Errorf("failed to apply no-show penalty: %w", err)
		}
	}
	return tx.Commit()
}

// pendingPair resolves the participant and, for a duo request, its
// partner row. Both must still be pending.
func (s *store) pendingPair(tx *sql.Tx, matchID, participantID string) ([]string, error) {
	p, err := s.getParticipant(tx, matchID, participantID)
	if err != nil {
		return nil, err
	}
	if p.Status != padel.ParticipantPending {
		return nil, fmt.Errorf("participant %s is %s, not pending: %w", participantID, p.Status, padel.ErrStateConflict)
	}

	ids := []string{p.ID}
	if p.DuoWith != "" {
		partner, err := s.getParticipant(tx, matchID, p.DuoWith)
		if err != nil {
			return nil, err
		}
		if partner.Status != padel.ParticipantPending {
			return nil, fmt.Errorf("duo partner %s is %s, not pending: %w", partner.ID, partner.Status, padel.ErrStateConflict)
		}
		if partner.DuoWith != p.ID {
			return nil, fmt.Errorf("duo pairing of %s and %s is inconsistent: %w", p.ID, partner.ID, padel.ErrStateConflict)
		}
		ids = append(ids, partner.ID)
	}
	return ids, nil
}

// transitionPending flips a set of pending rows to the target status,
// all or nothing.
func (s *store) transitionPending(tx *sql.Tx, ids []string, to padel.ParticipantStatus) error {
	for _, id := range ids {
		res, err := tx.Exec(`
			UPDATE match_participants SET status = ? WHERE id = ? AND status = ?
		`, to, id, padel.ParticipantPending)
		if err != nil {
			return fmt.Errorf("failed to transition participant %s: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("participant %s changed concurrently: %w", id, padel.ErrStateConflict)
		}
	}
	return nil
}

// ComputeSlots lays the roster out into the four display slots. The
// organizer occupies a default slot on their own team; confirmed
// participants without a team land in Unassigned and must be resolved
// before the match counts as fully staffed.
func ComputeSlots(m *padel.Match, participants []padel.Participant, names map[string]string) Slots {
	slots := Slots{
		TeamA:      []SlotEntry{},
		TeamB:      []SlotEntry{},
		Unassigned: []SlotEntry{},
		OpenSpots:  m.SpotsAvailable,
	}

	organizer := SlotEntry{UserID: m.OrganizerID, Name: m.OrganizerName, IsOrganizer: true}
	if organizer.Name == "" {
		organizer.Name = names[m.OrganizerID]
	}
	if m.OrganizerTeam == padel.TeamB {
		slots.TeamB = append(slots.TeamB, organizer)
	} else {
		slots.TeamA = append(slots.TeamA, organizer)
	}

	for _, p := range participants {
		if p.Status != padel.ParticipantConfirmed {
			continue
		}
		entry := SlotEntry{ParticipantID: p.ID, UserID: p.UserID, Name: names[p.UserID]}
		if entry.Name == "" {
			entry.Name = p.InviteeName
		}
		switch p.Team {
		case padel.TeamA:
			slots.TeamA = append(slots.TeamA, entry)
		case padel.TeamB:
			slots.TeamB = append(slots.TeamB, entry)
		default:
			slots.Unassigned = append(slots.Unassigned, entry)
		}
	}
	return slots
}
