package club

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtmate/courtmate/internal/padel"
)

// New creates a new ProfileStore.
func New(db *sql.DB) ProfileStore {
	return &store{
		db: db,
	}
}

// UpsertProfile inserts a new profile or updates its user-editable
// fields. Stat counters and the reliability score are never touched
// here; those belong to result recording and the reliability scorer.
func (s *store) UpsertProfile(p *padel.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertProfileLocked(p)
}

func (s *store) UpsertProfiles(profiles []padel.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range profiles {
		if err := s.upsertProfileLocked(&profiles[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) upsertProfileLocked(p *padel.Profile) error {
	_, err := s.db.Exec(`
		INSERT INTO profiles (id, name, email, level, position, ambiance_pref, reliability_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			level = excluded.level,
			position = excluded.position,
			ambiance_pref = excluded.ambiance_pref;
	`, p.ID, p.Name, p.Email, p.Level, p.Position, p.AmbiancePref, padel.ReliabilityStart, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", p.ID, err)
	}
	return nil
}

func (s *store) GetProfile(userID string) (*padel.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, COALESCE(email, ''), level, COALESCE(position, ''), COALESCE(ambiance_pref, ''),
		       reliability_score, matches_played, matches_won, matches_lost, current_streak, best_streak
		FROM profiles WHERE id = ?
	`, userID)

	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile %s: %w", userID, padel.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query profile %s: %w", userID, err)
	}
	return p, nil
}

func (s *store) GetProfiles(userIDs []string) ([]padel.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(userIDs) == 0 {
		return []padel.Profile{}, nil
	}

	query := `
		SELECT id, name, COALESCE(email, ''), level, COALESCE(position, ''), COALESCE(ambiance_pref, ''),
		       reliability_score, matches_played, matches_won, matches_lost, current_streak, best_streak
		FROM profiles WHERE id IN (?` + repeatPlaceholder(len(userIDs)-1) + `)`

	rows, err := s.db.Query(query, toAnySlice(userIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

func (s *store) GetAllProfiles() ([]padel.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, COALESCE(email, ''), level, COALESCE(position, ''), COALESCE(ambiance_pref, ''),
		       reliability_score, matches_played, matches_won, matches_lost, current_streak, best_streak
		FROM profiles ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

func (s *store) IsKnownPlayer(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)", userID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "userID", userID)
		return false
	}
	return exists
}

// ApplyReliability adjusts a player's reliability score by the delta
// for the given action. The clamp happens inside the UPDATE so the
// score can never leave [0, 100] even under concurrent writers.
func (s *store) ApplyReliability(userID string, action padel.PlayerAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delta := padel.ReliabilityDelta(action)
	res, err := s.db.Exec(`
		UPDATE profiles
		SET reliability_score = MAX(?, MIN(?, reliability_score + ?))
		WHERE id = ?
	`, padel.ReliabilityMin, padel.ReliabilityMax, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to apply reliability delta: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %s: %w", userID, padel.ErrNotFound)
	}
	log.Debug("Applied reliability delta", "userID", userID, "action", action, "delta", delta)
	return nil
}

func (s *store) GetLeaderboard() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, level, reliability_score, matches_played, matches_won, matches_lost, current_streak, best_streak
		FROM profiles
		WHERE matches_played > 0
		ORDER BY matches_won DESC, matches_played ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var stats []PlayerStats
	for rows.Next() {
		stat, err := scanPlayerStats(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *stat)
	}
	return stats, rows.Err()
}

// GetPlayerStats returns the full aggregate stats for a single player.
func (s *store) GetPlayerStats(userID string) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, level, reliability_score, matches_played, matches_won, matches_lost, current_streak, best_streak
		FROM profiles WHERE id = ?
	`, userID)

	stat, err := scanPlayerStats(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile %s: %w", userID, padel.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query player stats: %w", err)
	}
	return stat, nil
}

// GetPlayerStatsByName performs a case-insensitive, fuzzy search
// (e.g. "morten" will match "Morten Voss").
func (s *store) GetPlayerStatsByName(playerName string) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + playerName + "%"
	row := s.db.QueryRow(`
		SELECT id, name, level, reliability_score, matches_played, matches_won, matches_lost, current_streak, best_streak
		FROM profiles
		WHERE name LIKE ? COLLATE NOCASE
		LIMIT 1
	`, pattern)

	stat, err := scanPlayerStats(row)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("No player matching pattern", "pattern", pattern)
			return nil, fmt.Errorf("player matching %q: %w", playerName, padel.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query player stats by name: %w", err)
	}
	return stat, nil
}

func (s *store) GetRecentMatches(userID string, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT h.match_id, h.team, h.won, COALESCE(m.club_name, ''), m.scheduled_at, h.recorded_at
		FROM match_history h
		JOIN matches m ON m.id = h.match_id
		WHERE h.user_id = ?
		ORDER BY h.recorded_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var won int
		if err := rows.Scan(&e.MatchID, &e.Team, &won, &e.ClubName, &e.ScheduledAt, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Won = won != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *store) AddFavorite(userID, favoriteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == favoriteID {
		return fmt.Errorf("cannot favorite yourself: %w", padel.ErrValidation)
	}
	_, err := s.db.Exec(`
		INSERT INTO player_favorites (user_id, favorite_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id, favorite_id) DO NOTHING;
	`, userID, favoriteID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *store) RemoveFavorite(userID, favoriteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM player_favorites WHERE user_id = ? AND favorite_id = ?", userID, favoriteID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *store) ListFavorites(userID string) ([]padel.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.id, p.name, COALESCE(p.email, ''), p.level, COALESCE(p.position, ''), COALESCE(p.ambiance_pref, ''),
		       p.reliability_score, p.matches_played, p.matches_won, p.matches_lost, p.current_streak, p.best_streak
		FROM player_favorites f
		JOIN profiles p ON p.id = f.favorite_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// scanProfile reads a full profile row from a row scanner.
func scanProfile(scanner interface{ Scan(...any) error }) (*padel.Profile, error) {
	var p padel.Profile
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Email, &p.Level, &p.Position, &p.AmbiancePref,
		&p.ReliabilityScore, &p.MatchesPlayed, &p.MatchesWon, &p.MatchesLost,
		&p.CurrentStreak, &p.BestStreak,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPlayerStats(scanner interface{ Scan(...any) error }) (*PlayerStats, error) {
	var stat PlayerStats
	err := scanner.Scan(
		&stat.PlayerID, &stat.PlayerName, &stat.Level, &stat.ReliabilityScore,
		&stat.MatchesPlayed, &stat.MatchesWon, &stat.MatchesLost,
		&stat.CurrentStreak, &stat.BestStreak,
	)
	if err != nil {
		return nil, err
	}
	if stat.MatchesPlayed > 0 {
		stat.WinPercentage = (float64(stat.MatchesWon) / float64(stat.MatchesPlayed)) * 100
	}
	return &stat, nil
}

func collectProfiles(rows *sql.Rows) ([]padel.Profile, error) {
	var profiles []padel.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func repeatPlaceholder(n int) string {
	var out string
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}

func toAnySlice(s []string) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
