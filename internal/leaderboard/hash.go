package leaderboard

import (
	"fmt"
	"strconv"
)

const hashSalt = "VILLAIN_STRIKE_2024"

// ComputeHash derives the integrity hash of a result from its immutable
// fields. The hash is a 32-bit string hash of the pipe-joined payload,
// rendered as lowercase hex of its absolute value.
func ComputeHash(score, hitCount, maxCombo int, playTime, timestamp int64) string {
	payload := fmt.Sprintf("%d|%d|%d|%d|%d|%s",
		score, hitCount, maxCombo, playTime, timestamp, hashSalt)

	var h int32
	for i := 0; i < len(payload); i++ {
		h = (h << 5) - h + int32(payload[i])
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 16)
}

// HashFor computes the integrity hash for an entry's current field values.
func HashFor(e Entry) string {
	return ComputeHash(e.Score, e.HitCount, e.MaxCombo, e.PlayTime, e.Timestamp)
}
