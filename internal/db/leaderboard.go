package db

import (
	"fmt"

	difficultypkg "villainstrike/internal/difficulty"
	"villainstrike/internal/leaderboard"
)

func (d *DB) InsertLeaderboardEntry(e leaderboard.Entry) (string, error) {
	var id string
	err := d.conn.QueryRow(`
		INSERT INTO leaderboard (player_name, villain_name, score, hit_count, max_combo,
		                         difficulty, accuracy_rate, play_time_ms, submitted_ms, hash, untrusted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, e.PlayerName, e.VillainName, e.Score, e.HitCount, e.MaxCombo,
		string(e.Difficulty), e.AccuracyRate, e.PlayTime, e.Timestamp, e.Hash, e.Untrusted).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting leaderboard entry: %w", err)
	}
	return id, nil
}

// TopEntries returns trusted entries ordered by score descending. An empty
// difficulty matches all difficulties.
func (d *DB) TopEntries(difficulty string, limit int) ([]leaderboard.Entry, error) {
	rows, err := d.conn.Query(`
		SELECT id, player_name, villain_name, score, hit_count, max_combo,
		       difficulty, accuracy_rate, play_time_ms, submitted_ms, hash
		FROM leaderboard
		WHERE NOT untrusted AND ($1 = '' OR difficulty = $1)
		ORDER BY score DESC, submitted_ms ASC
		LIMIT $2
	`, difficulty, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		var diff string
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.VillainName, &e.Score, &e.HitCount,
			&e.MaxCombo, &diff, &e.AccuracyRate, &e.PlayTime, &e.Timestamp, &e.Hash); err != nil {
			return nil, fmt.Errorf("scanning leaderboard entry: %w", err)
		}
		e.Difficulty = difficultypkg.Key(diff)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PersonalBest returns the player's highest trusted score, or sql.ErrNoRows
// wrapped when the player has none.
func (d *DB) PersonalBest(player, difficulty string) (leaderboard.Entry, error) {
	var e leaderboard.Entry
	var diff string
	err := d.conn.QueryRow(`
		SELECT id, player_name, villain_name, score, hit_count, max_combo,
		       difficulty, accuracy_rate, play_time_ms, submitted_ms, hash
		FROM leaderboard
		WHERE NOT untrusted AND player_name = $1 AND ($2 = '' OR difficulty = $2)
		ORDER BY score DESC, submitted_ms ASC
		LIMIT 1
	`, player, difficulty).Scan(&e.ID, &e.PlayerName, &e.VillainName, &e.Score, &e.HitCount,
		&e.MaxCombo, &diff, &e.AccuracyRate, &e.PlayTime, &e.Timestamp, &e.Hash)
	if err != nil {
		return leaderboard.Entry{}, fmt.Errorf("querying personal best: %w", err)
	}
	e.Difficulty = difficultypkg.Key(diff)
	return e, nil
}
