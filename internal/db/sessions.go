package db

import (
	"fmt"
)

// SessionResult captures the final numbers of a finished run.
type SessionResult struct {
	Score        int
	HitCount     int
	MaxCombo     int
	AccuracyRate float64
	PlayTimeMs   int64
	Grade        string
	EndedBy      string
}

func (d *DB) CreateGameSession(id, playerName, villainName, difficulty string) error {
	_, err := d.conn.Exec(`
		INSERT INTO game_sessions (id, player_name, villain_name, difficulty, started_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO NOTHING
	`, id, playerName, villainName, difficulty)
	if err != nil {
		return fmt.Errorf("creating game session: %w", err)
	}
	return nil
}

func (d *DB) EndGameSession(id string, res SessionResult) error {
	_, err := d.conn.Exec(`
		UPDATE game_sessions
		SET score = $2, hit_count = $3, max_combo = $4, accuracy_rate = $5,
		    play_time_ms = $6, grade = $7, ended_by = $8, ended_at = now()
		WHERE id = $1
	`, id, res.Score, res.HitCount, res.MaxCombo, res.AccuracyRate,
		res.PlayTimeMs, res.Grade, res.EndedBy)
	if err != nil {
		return fmt.Errorf("ending game session: %w", err)
	}
	return nil
}
