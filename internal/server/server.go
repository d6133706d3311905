package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"villainstrike/internal/broadcast"
	"villainstrike/internal/config"
	"villainstrike/internal/db"
	"villainstrike/internal/detect"
	"villainstrike/internal/leaderboard"
	"villainstrike/internal/live"
	"villainstrike/internal/session"
	"villainstrike/internal/sessions"
	"villainstrike/internal/transform"
	"villainstrike/internal/villains"
)

// How long a knocked-out villain stays on screen before the run ends.
const koPresentationDelay = 2 * time.Second

type Server struct {
	Sessions    *sessions.Store
	Leaderboard *leaderboard.Service
	Villains    *villains.Store
	Detector    detect.Detector
	Transformer transform.Transformer
	DB          *db.DB            // nil if no database configured
	HitBuffer   chan db.HitRecord // nil if no database configured
	Cfg         config.Config
	Log         *zap.Logger

	mu    sync.Mutex
	feeds map[string]*feed
}

// feed is the per-session event fan-out: the broadcaster feeds SSE
// subscribers directly and one bridge goroutine mirrors frames into the
// websocket hub.
type feed struct {
	broadcaster *broadcast.Broadcaster
	hub         *live.Hub
}

func New(cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		if opts, err := redis.ParseURL(cfg.RedisURL); err == nil {
			cache = redis.NewClient(opts)
		} else {
			logger.Warn("invalid REDIS_URL, running without cache", zap.Error(err))
		}
	}

	srv := &Server{
		Sessions: sessions.NewStore(session.Config{
			GameDuration:  cfg.GameDuration,
			CountdownSecs: cfg.CountdownSecs,
		}),
		Villains:    villains.NewStore(),
		Detector:    detect.NopDetector{},
		Transformer: transform.NopTransformer{},
		Cfg:         cfg,
		Log:         logger,
		feeds:       make(map[string]*feed),
	}
	srv.Sessions.OnEvict(srv.dropFeed)

	if cfg.DetectorURL != "" {
		srv.Detector = detect.NewHTTPDetector(cfg.DetectorURL, time.Duration(cfg.DetectTimeout)*time.Second)
	}
	if cfg.TransformURL != "" {
		srv.Transformer = transform.NewHTTPTransformer(cfg.TransformURL, 30*time.Second)
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn("database unavailable, running without persistence", zap.Error(err))
		} else {
			if err := database.Migrate(); err != nil {
				logger.Error("migration failed", zap.Error(err))
			}
			srv.DB = database
			srv.HitBuffer = make(chan db.HitRecord, 1000)
			go hitBatchWriter(database, srv.HitBuffer, logger)
		}
	} else {
		logger.Info("DATABASE_URL not set, running without persistence")
	}

	srv.Leaderboard = leaderboard.NewService(persister(srv.DB), cache, logger)
	return srv
}

// persister widens *db.DB into the leaderboard interface without handing a
// typed nil to the service.
func persister(database *db.DB) leaderboard.Persister {
	if database == nil {
		return nil
	}
	return database
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(s.Cfg.AllowedOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/image", s.handleAttachImage)
			r.Post("/start", s.handleStart)
			r.Post("/tap", s.handleTap)
			r.Post("/reset", s.handleReset)
			r.Get("/summary", s.handleSummary)
			r.Get("/hits", s.handleHitLog)
			r.Get("/events", s.handleEvents)
			r.Get("/ws", s.handleLiveFeed)
		})

		r.Post("/leaderboard", s.handleSubmitScore)
		r.Get("/leaderboard", s.handleTopScores)
		r.Get("/leaderboard/personal", s.handlePersonalBest)

		r.Post("/villains", s.handleSaveVillain)
		r.Get("/villains", s.handleListVillains)
		r.Delete("/villains/{name}", s.handleDeleteVillain)

		r.Post("/transform", s.handleTransform)
	})
	r.Get("/health", s.handleHealth)

	return r
}

func Run() error {
	cfg := config.Load()

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv := New(cfg, logger)

	addr := "0.0.0.0:" + cfg.Port
	logger.Info("server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, srv.Router())
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// registerFeed creates the event fan-out for a session and bridges it to
// the websocket hub.
func (s *Server) registerFeed(sess *session.Session) *feed {
	f := &feed{
		broadcaster: broadcast.NewBroadcaster(sess.Bus()),
		hub:         live.NewHub(s.Log),
	}

	ch := f.broadcaster.Subscribe()
	go func() {
		for msg := range ch {
			f.hub.Broadcast(msg.Event, msg.Data)
		}
	}()

	s.mu.Lock()
	s.feeds[sess.ID()] = f
	s.mu.Unlock()
	return f
}

func (s *Server) feed(sessionID string) *feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feeds[sessionID]
}

// dropFeed tears down a session's fan-out. Closing the broadcaster stops
// its pump goroutine and ends the hub bridge.
func (s *Server) dropFeed(sessionID string) {
	s.mu.Lock()
	f := s.feeds[sessionID]
	delete(s.feeds, sessionID)
	s.mu.Unlock()
	if f != nil {
		f.broadcaster.Close()
	}
}

// hitBatchWriter drains the hit buffer into the database in batches so the
// tap path never waits on a round trip.
func hitBatchWriter(database *db.DB, buffer chan db.HitRecord, logger *zap.Logger) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.HitRecord, 0, 50)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := database.BatchRecordHits(batch); err != nil {
			logger.Error("batch hit write failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec := <-buffer:
			batch = append(batch, rec)
			if len(batch) >= 50 {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
