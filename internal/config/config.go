package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	AllowedOrigins string
	GameDuration   int // seconds
	CountdownSecs  int
	DetectorURL    string
	DetectTimeout  int // seconds
	TransformURL   string
	Env            string
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		GameDuration:   getEnvInt("GAME_DURATION", 15),
		CountdownSecs:  getEnvInt("COUNTDOWN_SECS", 3),
		DetectorURL:    os.Getenv("DETECTOR_URL"),
		DetectTimeout:  getEnvInt("DETECT_TIMEOUT", 3),
		TransformURL:   os.Getenv("TRANSFORM_URL"),
		Env:            getEnv("APP_ENV", "development"),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
