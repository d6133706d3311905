package leaderboard

import (
	"sort"
	"sync"

	"villainstrike/internal/difficulty"
)

// maxLocalEntries bounds the in-memory fallback store. When full, the
// lowest-scoring entries are evicted so the top of the board survives.
const maxLocalEntries = 100

// LocalStore is the in-memory leaderboard used when no database is
// configured or the database is unreachable.
type LocalStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// Add records an entry, keeping the store sorted by score descending and
// bounded to maxLocalEntries. Untrusted entries are kept for inspection but
// sort behind every trusted entry, so they are the first evicted and never
// displace a trusted score.
func (s *LocalStore) Add(e Entry) {
	e.Local = true

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	sort.SliceStable(s.entries, func(i, j int) bool {
		if s.entries[i].Untrusted != s.entries[j].Untrusted {
			return !s.entries[i].Untrusted
		}
		if s.entries[i].Score != s.entries[j].Score {
			return s.entries[i].Score > s.entries[j].Score
		}
		return s.entries[i].Timestamp < s.entries[j].Timestamp
	})
	if len(s.entries) > maxLocalEntries {
		s.entries = s.entries[:maxLocalEntries]
	}
}

// Top returns up to limit trusted entries for the given difficulty, best
// first. An empty difficulty matches all entries.
func (s *LocalStore) Top(key difficulty.Key, limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, limit)
	for _, e := range s.entries {
		if e.Untrusted {
			continue
		}
		if key != "" && e.Difficulty != key {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

// PersonalBest returns the player's highest-scoring trusted entry for a
// difficulty, or false when the player has none.
func (s *LocalStore) PersonalBest(player string, key difficulty.Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Untrusted || e.PlayerName != player {
			continue
		}
		if key != "" && e.Difficulty != key {
			continue
		}
		return e, true
	}
	return Entry{}, false
}

// Len reports the number of stored entries.
func (s *LocalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
