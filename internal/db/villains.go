package db

import (
	"fmt"
	"time"
)

type VillainRow struct {
	ID        string
	Name      string
	ImageURL  string
	CreatedAt time.Time
}

func (d *DB) UpsertVillain(name, imageURL string) (string, error) {
	var id string
	err := d.conn.QueryRow(`
		INSERT INTO villains (name, image_url)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET image_url = EXCLUDED.image_url
		RETURNING id
	`, name, imageURL).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upserting villain: %w", err)
	}
	return id, nil
}

func (d *DB) DeleteVillain(name string) error {
	_, err := d.conn.Exec(`DELETE FROM villains WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting villain: %w", err)
	}
	return nil
}

func (d *DB) ListVillains(limit int) ([]VillainRow, error) {
	rows, err := d.conn.Query(`
		SELECT id, name, COALESCE(image_url, ''), created_at
		FROM villains
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing villains: %w", err)
	}
	defer rows.Close()

	var out []VillainRow
	for rows.Next() {
		var v VillainRow
		if err := rows.Scan(&v.ID, &v.Name, &v.ImageURL, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning villain: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
