package leaderboard

import "villainstrike/internal/difficulty"

// Entry is one submitted game result.
type Entry struct {
	ID          string         `json:"id"`
	PlayerName  string         `json:"playerName"`
	VillainName string         `json:"villainName"`
	Score       int            `json:"score"`
	HitCount    int            `json:"hitCount"`
	MaxCombo    int            `json:"maxCombo"`
	Difficulty  difficulty.Key `json:"difficulty"`
	// AccuracyRate is accurate hits over total hits, in [0, 1].
	AccuracyRate float64 `json:"accuracyRate"`
	// PlayTime is the run duration in milliseconds.
	PlayTime int64 `json:"playTime"`
	// Timestamp is the submission time in unix milliseconds.
	Timestamp int64  `json:"timestamp"`
	Hash      string `json:"hash"`
	// Untrusted marks entries whose integrity check failed on submit.
	Untrusted bool `json:"untrusted,omitempty"`
	// Local marks entries served from the in-memory fallback store.
	Local bool `json:"local,omitempty"`
}
