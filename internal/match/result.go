package match

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/padel"
	"github.com/google/uuid"
)

// RecordResult stores the final score and settles the match: winners
// and losers get their stat lines and streaks updated, every finisher
// earns the completion reliability credit, and a history row is written
// per player. All of it commits atomically with the transition to
// completed, so a concurrent duplicate submission loses the conditional
// update and nothing double-counts.
func (s *store) RecordResult(matchID, actorID string, winner padel.TeamSide, sets []padel.SetScore) error {
	if !winner.Valid() {
		return fmt.Errorf("winner %q: %w", winner, padel.ErrValidation)
	}
	if len(sets) == 0 || len(sets) > padel.MaxSets {
		return fmt.Errorf("a result needs 1 to %d sets, got %d: %w", padel.MaxSets, len(sets), padel.ErrValidation)
	}
	for i, set := range sets {
		if set.ScoreA < 0 || set.ScoreB < 0 {
			return fmt.Errorf("set %d has a negative game count: %w", i+1, padel.ErrValidation)
		}
	}

	unlock := s.locks.acquire(matchID)
	defer unlock()

	m, err := s.getMatch(s.db, matchID)
	if err != nil {
		return err
	}
	if m.OrganizerID != actorID {
		return fmt.Errorf("only the organizer may record a result: %w", padel.ErrValidation)
	}
	if m.Status.Terminal() {
		return fmt.Errorf("match %s is %s: %w", matchID, m.Status, padel.ErrStateConflict)
	}

	participants, err := s.getParticipants(s.db, matchID)
	if err != nil {
		return err
	}

	// Sides as played: the organizer plus every confirmed participant.
	sides := map[padel.TeamSide][]string{
		m.OrganizerTeam: {m.OrganizerID},
	}
	roster := 1
	for _, p := range participants {
		if p.Status != padel.ParticipantConfirmed {
			continue
		}
		if !p.Team.Valid() {
			return fmt.Errorf("participant %s has no team assigned: %w", p.ID, padel.ErrValidation)
		}
		roster++
		if p.UserID != "" {
			sides[p.Team] = append(sides[p.Team], p.UserID)
		}
	}
	if roster < padel.SpotsTotal {
		return fmt.Errorf("match %s has %d of %d roster seats confirmed: %w", matchID, roster, padel.SpotsTotal, padel.ErrStateConflict)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	scores := make([]any, 0, padel.MaxSets*2)
	for i := 0; i < padel.MaxSets; i++ {
		if i < len(sets) {
			scores = append(scores, sets[i].ScoreA, sets[i].ScoreB)
		} else {
			scores = append(scores, nil, nil)
		}
	}
	args := append([]any{padel.DeriveStatus(m.SpotsAvailable, true, false), winner}, scores...)
	args = append(args, matchID, padel.StatusOpen, padel.StatusFull)

	res, err := tx.Exec(`
		UPDATE matches
		SET status = ?, winner = ?,
		    set1_a = ?, set1_b = ?, set2_a = ?, set2_b = ?, set3_a = ?, set3_b = ?
		WHERE id = ? AND status IN (?, ?)
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("result for match %s was already recorded: %w", matchID, padel.ErrStateConflict)
	}

	now := time.Now().Unix()
	for side, players := range sides {
		won := side == winner
		for _, userID := range players {
			if err := settlePlayer(tx, userID, won); err != nil {
				return err
			}
			_, err := tx.Exec(`
				INSERT INTO match_history (id, match_id, user_id, team, won, recorded_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, uuid.New().String(), matchID, userID, side, won, now)
			if err != nil {
				return fmt.Errorf("failed to write history for player %s: %w", userID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result: %w", err)
	}

	log.Info("Recorded match result", "matchID", matchID, "winner", winner, "sets", len(sets))
	return nil
}

// settlePlayer applies one finished match to a profile's stat line.
// Winners extend their streak and may set a new best; losers reset to
// zero. Finishing at all earns the small reliability credit, clamped at
// the ceiling.
func settlePlayer(tx execer, userID string, won bool) error {
	var err error
	if won {
		_, err = tx.Exec(`
			UPDATE profiles
			SET matches_played = matches_played + 1,
			    matches_won = matches_won + 1,
			    current_streak = current_streak + 1,
			    best_streak = MAX(best_streak, current_streak + 1),
			    reliability_score = MIN(?, reliability_score + ?)
			WHERE id = ?
		`, padel.ReliabilityMax, padel.ReliabilityDelta(padel.ActionCompleted), userID)
	} else {
		_, err = tx.Exec(`
			UPDATE profiles
			SET matches_played = matches_played + 1,
			    matches_lost = matches_lost + 1,
			    current_streak = 0,
			    reliability_score = MIN(?, reliability_score + ?)
			WHERE id = ?
		`, padel.ReliabilityMax, padel.ReliabilityDelta(padel.ActionCompleted), userID)
	}
	if err != nil {
		return fmt.Errorf("failed to update stats for player %s: %w", userID, err)
	}
	return nil
}
