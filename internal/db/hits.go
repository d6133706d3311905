package db

import (
	"fmt"
	"time"
)

type HitRecord struct {
	SessionID string
	HitAt     time.Time
	X         float64
	Y         float64
	Points    int
	Combo     int
	Critical  bool
	Accurate  bool
	Feature   string
}

func (d *DB) RecordHit(rec HitRecord) error {
	_, err := d.conn.Exec(`
		INSERT INTO hit_records (session_id, hit_at, x, y, points, combo, critical, accurate, feature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.SessionID, rec.HitAt, rec.X, rec.Y, rec.Points, rec.Combo, rec.Critical, rec.Accurate, rec.Feature)
	if err != nil {
		return fmt.Errorf("recording hit: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordHits(records []HitRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO hit_records (session_id, hit_at, x, y, points, combo, critical, accurate, feature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.SessionID, rec.HitAt, rec.X, rec.Y, rec.Points, rec.Combo, rec.Critical, rec.Accurate, rec.Feature); err != nil {
			return fmt.Errorf("recording hit in batch: %w", err)
		}
	}

	return tx.Commit()
}
