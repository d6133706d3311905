package sessions

import (
	"sync"
	"time"

	"villainstrike/internal/difficulty"
	"villainstrike/internal/session"
)

const staleTTL = 1 * time.Hour

// Store is the registry of live sessions, keyed by session id. Sessions
// untouched for an hour are swept.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	cfg      session.Config
	onEvict  func(id string)
}

func NewStore(cfg session.Config) *Store {
	s := &Store{
		sessions: make(map[string]*session.Session),
		cfg:      cfg,
	}
	go s.sweepStale()
	return s
}

// OnEvict registers a callback fired whenever a session leaves the store,
// whether deleted explicitly or swept. Set it before serving traffic.
func (s *Store) OnEvict(fn func(id string)) {
	s.mu.Lock()
	s.onEvict = fn
	s.mu.Unlock()
}

// Create registers a new idle session on the given difficulty tier.
func (s *Store) Create(key difficulty.Key) *session.Session {
	sess := session.New(key, s.cfg, nil, nil)
	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(id string) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	fn := s.onEvict
	s.mu.Unlock()
	if ok && fn != nil {
		fn(id)
	}
}

func (s *Store) List() []*session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.sweepBefore(time.Now().Add(-staleTTL))
	}
}

// sweepBefore evicts every session created before the cutoff.
func (s *Store) sweepBefore(cutoff time.Time) {
	s.mu.Lock()
	var evicted []string
	for id, sess := range s.sessions {
		if sess.CreatedAt().Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	fn := s.onEvict
	s.mu.Unlock()
	if fn != nil {
		for _, id := range evicted {
			fn(id)
		}
	}
}
