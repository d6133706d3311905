package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GAME_DURATION", "")
	t.Setenv("COUNTDOWN_SECS", "")
	t.Setenv("DETECT_TIMEOUT", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.GameDuration != 15 {
		t.Errorf("GameDuration = %d, want 15", cfg.GameDuration)
	}
	if cfg.CountdownSecs != 3 {
		t.Errorf("CountdownSecs = %d, want 3", cfg.CountdownSecs)
	}
	if cfg.DetectTimeout != 3 {
		t.Errorf("DetectTimeout = %d, want 3", cfg.DetectTimeout)
	}
	if cfg.AllowedOrigins != "*" {
		t.Errorf("AllowedOrigins = %q, want %q", cfg.AllowedOrigins, "*")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://localhost/villainstrike")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("GAME_DURATION", "30")
	t.Setenv("DETECTOR_URL", "http://detector:9000")

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.DatabaseURL != "postgres://localhost/villainstrike" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://localhost:6379" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.GameDuration != 30 {
		t.Errorf("GameDuration = %d, want 30", cfg.GameDuration)
	}
	if cfg.DetectorURL != "http://detector:9000" {
		t.Errorf("DetectorURL = %q", cfg.DetectorURL)
	}
}

func TestLoad_InvalidGameDuration(t *testing.T) {
	t.Setenv("GAME_DURATION", "abc")

	cfg := Load()

	if cfg.GameDuration != 15 {
		t.Errorf("GameDuration = %d, want 15 (fallback)", cfg.GameDuration)
	}
}
