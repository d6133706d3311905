package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"villainstrike/internal/difficulty"
)

// Persister is the durable store behind the leaderboard. *db.DB satisfies
// it; a nil Persister puts the service in local-only mode.
type Persister interface {
	InsertLeaderboardEntry(e Entry) (string, error)
	TopEntries(difficulty string, limit int) ([]Entry, error)
	PersonalBest(player, difficulty string) (Entry, error)
}

const topCacheTTL = 30 * time.Second

// Service submits and ranks game results. Writes go to the database when
// one is configured and fall back to the in-memory store when it is not,
// or when a write fails. Hot top-N reads are cached in redis.
type Service struct {
	store Persister
	local *LocalStore
	cache *redis.Client
	log   *zap.Logger
}

func NewService(store Persister, cache *redis.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store: store,
		local: NewLocalStore(),
		cache: cache,
		log:   logger,
	}
}

// Submit validates and stores an entry. Entries failing validation are
// stored flagged untrusted so they never rank, but remain inspectable.
// The returned entry carries its assigned ID and the failed checks.
func (s *Service) Submit(ctx context.Context, e Entry) (Entry, []string) {
	reasons := Validate(e)
	e.Untrusted = len(reasons) > 0
	if e.Untrusted {
		s.log.Warn("untrusted leaderboard submission",
			zap.String("player", e.PlayerName),
			zap.Int("score", e.Score),
			zap.Strings("reasons", reasons))
	}

	if s.store != nil {
		id, err := s.store.InsertLeaderboardEntry(e)
		if err == nil {
			e.ID = id
			return e, reasons
		}
		s.log.Warn("leaderboard insert failed, using local store", zap.Error(err))
	}

	e.ID = uuid.New().String()
	e.Local = true
	s.local.Add(e)
	return e, reasons
}

// Top returns up to limit trusted entries for a difficulty, best first.
func (s *Service) Top(ctx context.Context, key difficulty.Key, limit int) []Entry {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("leaderboard:top:%s:%d", key, limit)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var entries []Entry
			if json.Unmarshal(raw, &entries) == nil {
				return entries
			}
		}
	}

	if s.store != nil {
		entries, err := s.store.TopEntries(string(key), limit)
		if err == nil {
			if s.cache != nil {
				if raw, err := json.Marshal(entries); err == nil {
					if err := s.cache.Set(ctx, cacheKey, raw, topCacheTTL).Err(); err != nil {
						s.log.Debug("leaderboard cache set failed", zap.Error(err))
					}
				}
			}
			return entries
		}
		s.log.Warn("leaderboard query failed, using local store", zap.Error(err))
	}

	return s.local.Top(key, limit)
}

// PersonalBest returns the player's highest trusted score.
func (s *Service) PersonalBest(ctx context.Context, player string, key difficulty.Key) (Entry, bool) {
	if s.store != nil {
		e, err := s.store.PersonalBest(player, string(key))
		if err == nil {
			return e, true
		}
	}
	return s.local.PersonalBest(player, key)
}
