package db

import (
	"os"
	"testing"
	"time"

	"villainstrike/internal/difficulty"
	"villainstrike/internal/leaderboard"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn, nil)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.conn.Exec("DELETE FROM hit_records")
		database.conn.Exec("DELETE FROM game_sessions")
		database.conn.Exec("DELETE FROM leaderboard")
		database.conn.Exec("DELETE FROM villains")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	tables := []string{"villains", "game_sessions", "hit_records", "leaderboard"}
	for _, table := range tables {
		var exists bool
		err := database.conn.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)
		`, table).Scan(&exists)
		if err != nil {
			t.Errorf("checking table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestGameSessionLifecycle(t *testing.T) {
	database := getTestDB(t)

	id := "550e8400-e29b-41d4-a716-446655440000"
	if err := database.CreateGameSession(id, "Alice", "Dr. Chaos", "NORMAL"); err != nil {
		t.Fatalf("CreateGameSession() error: %v", err)
	}

	err := database.EndGameSession(id, SessionResult{
		Score: 4200, HitCount: 61, MaxCombo: 18,
		AccuracyRate: 0.72, PlayTimeMs: 15000, Grade: "A", EndedBy: "ko",
	})
	if err != nil {
		t.Fatalf("EndGameSession() error: %v", err)
	}

	var endedBy string
	database.conn.QueryRow("SELECT ended_by FROM game_sessions WHERE id = $1", id).Scan(&endedBy)
	if endedBy != "ko" {
		t.Errorf("ended_by = %q, want ko", endedBy)
	}
}

func TestBatchRecordHits(t *testing.T) {
	database := getTestDB(t)

	id := "550e8400-e29b-41d4-a716-446655440001"
	database.CreateGameSession(id, "Bob", "", "HARD")

	now := time.Now()
	records := []HitRecord{
		{SessionID: id, HitAt: now, X: 120, Y: 80, Points: 7, Combo: 0, Feature: ""},
		{SessionID: id, HitAt: now, X: 130, Y: 85, Points: 15, Combo: 1, Accurate: true, Feature: "nose"},
		{SessionID: id, HitAt: now, X: 140, Y: 90, Points: 30, Combo: 2, Critical: true, Accurate: true, Feature: "leftEye"},
	}
	if err := database.BatchRecordHits(records); err != nil {
		t.Fatalf("BatchRecordHits() error: %v", err)
	}

	var count int
	database.conn.QueryRow("SELECT COUNT(*) FROM hit_records WHERE session_id = $1", id).Scan(&count)
	if count != 3 {
		t.Errorf("hit count = %d, want 3", count)
	}
}

func TestLeaderboardQueries(t *testing.T) {
	database := getTestDB(t)

	entries := []leaderboard.Entry{
		{PlayerName: "Alice", Score: 5200, HitCount: 70, MaxCombo: 22, Difficulty: difficulty.Normal, PlayTime: 15000, Timestamp: 1700000000000},
		{PlayerName: "Bob", Score: 3100, HitCount: 48, MaxCombo: 11, Difficulty: difficulty.Normal, PlayTime: 15000, Timestamp: 1700000001000},
		{PlayerName: "Carol", Score: 9000, HitCount: 90, MaxCombo: 40, Difficulty: difficulty.Hard, PlayTime: 15000, Timestamp: 1700000002000},
		{PlayerName: "Mallory", Score: 99999, Difficulty: difficulty.Normal, Untrusted: true, Timestamp: 1700000003000},
	}
	for i := range entries {
		if entries[i].Hash == "" {
			entries[i].Hash = leaderboard.HashFor(entries[i])
		}
		if _, err := database.InsertLeaderboardEntry(entries[i]); err != nil {
			t.Fatalf("InsertLeaderboardEntry() error: %v", err)
		}
	}

	top, err := database.TopEntries("NORMAL", 10)
	if err != nil {
		t.Fatalf("TopEntries() error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len(top) = %d, want 2", len(top))
	}
	if top[0].PlayerName != "Alice" {
		t.Errorf("top entry = %q, want Alice", top[0].PlayerName)
	}

	best, err := database.PersonalBest("Carol", "")
	if err != nil {
		t.Fatalf("PersonalBest() error: %v", err)
	}
	if best.Score != 9000 {
		t.Errorf("personal best = %d, want 9000", best.Score)
	}
}

func TestUpsertVillain(t *testing.T) {
	database := getTestDB(t)

	id1, err := database.UpsertVillain("Dr. Chaos", "/img/1.png")
	if err != nil {
		t.Fatalf("UpsertVillain() error: %v", err)
	}
	id2, err := database.UpsertVillain("Dr. Chaos", "/img/2.png")
	if err != nil {
		t.Fatalf("UpsertVillain() update error: %v", err)
	}
	if id1 != id2 {
		t.Errorf("upsert created a new row: %s vs %s", id1, id2)
	}

	villains, err := database.ListVillains(10)
	if err != nil {
		t.Fatalf("ListVillains() error: %v", err)
	}
	if len(villains) != 1 || villains[0].ImageURL != "/img/2.png" {
		t.Errorf("villains = %+v, want single entry with updated image", villains)
	}
}
