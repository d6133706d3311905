package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"villainstrike/internal/db"
	"villainstrike/internal/difficulty"
	"villainstrike/internal/session"
)

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) *session.Session {
	id := chi.URLParam(r, "id")
	sess := s.Sessions.Get(id)
	if sess == nil {
		s.errorResponse(w, http.StatusNotFound, "session not found")
		return nil
	}
	return sess
}

type createSessionRequest struct {
	Difficulty  string `json:"difficulty"`
	PlayerName  string `json:"playerName"`
	VillainName string `json:"villainName"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := difficulty.Key(strings.ToUpper(req.Difficulty))
	sess := s.Sessions.Create(key)
	sess.SetNames(req.PlayerName, req.VillainName)
	s.registerFeed(sess)

	if s.DB != nil {
		profile := sess.Profile()
		if err := s.DB.CreateGameSession(sess.ID(), req.PlayerName, req.VillainName, string(profile.Key)); err != nil {
			s.Log.Error("create game session failed", zap.Error(err))
		}
	}

	s.Log.Info("session created",
		zap.String("session", sess.ID()),
		zap.String("difficulty", string(sess.Profile().Key)))
	s.jsonResponse(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	s.Sessions.Delete(sess.ID())
	w.WriteHeader(http.StatusNoContent)
}

type attachImageRequest struct {
	Image  string  `json:"image"` // base64 portrait data
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleAttachImage(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	var req attachImageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "image dimensions required")
		return
	}

	gen, err := sess.AttachImage(req.Width, req.Height)
	if err != nil {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}

	go s.detectLandmarks(sess, gen, req.Image)

	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// detectLandmarks runs face detection off the request path. Failures fall
// back to the center face region: the session records a resolved detection
// either way so the countdown gate opens.
func (s *Server) detectLandmarks(sess *session.Session, gen, image string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.Cfg.DetectTimeout)*time.Second)
	defer cancel()

	lm, err := s.Detector.Detect(ctx, image)
	if err != nil {
		s.Log.Warn("detection failed, using face region fallback",
			zap.String("session", sess.ID()), zap.Error(err))
		lm = nil
	}
	sess.SetLandmarks(gen, lm)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	// Give detection a bounded window to finish before the countdown; a
	// slow detector never blocks the game past the configured timeout.
	if done := sess.DetectionDone(); done != nil {
		select {
		case <-done:
		case <-time.After(time.Duration(s.Cfg.DetectTimeout) * time.Second):
		}
	}

	gen, err := sess.BeginCountdown()
	if err != nil {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}

	go s.runGame(sess, gen)

	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// runGame drives one run: counts down, activates, then ticks the session
// once per second until it ends. A reset mid-run bumps the generation and
// every subsequent call becomes a no-op, ending the loop.
func (s *Server) runGame(sess *session.Session, gen string) {
	f := s.feed(sess.ID())

	for i := s.Cfg.CountdownSecs; i > 0; i-- {
		if f != nil {
			f.broadcaster.Broadcast("countdown", map[string]int{"remaining": i})
		}
		time.Sleep(time.Second)
	}

	if !sess.Activate(gen, time.Now()) {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for now := range ticker.C {
		if _, active := sess.Tick(gen, now); !active {
			break
		}
	}

	s.persistResult(sess, gen)
}

// persistResult records the final numbers of an ended run.
func (s *Server) persistResult(sess *session.Session, gen string) {
	if sess.Generation() != gen || sess.Phase() != session.PhaseEnded {
		return
	}
	sum, err := sess.Summary()
	if err != nil {
		return
	}

	s.Log.Info("run ended",
		zap.String("session", sess.ID()),
		zap.Int("score", sum.Score),
		zap.String("grade", sum.Grade),
		zap.String("endedBy", string(sum.EndedBy)))

	if s.DB == nil {
		return
	}
	err = s.DB.EndGameSession(sess.ID(), db.SessionResult{
		Score:        sum.Score,
		HitCount:     sum.HitCount,
		MaxCombo:     sum.MaxCombo,
		AccuracyRate: sum.AccuracyRate,
		PlayTimeMs:   sum.PlayTime.Milliseconds(),
		Grade:        sum.Grade,
		EndedBy:      string(sum.EndedBy),
	})
	if err != nil {
		s.Log.Error("end game session failed", zap.Error(err))
	}
}

type tapRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	var req tapRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now()
	tap, err := sess.Tap(req.X, req.Y, now)
	if err != nil {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}

	if s.HitBuffer != nil {
		select {
		case s.HitBuffer <- db.HitRecord{
			SessionID: sess.ID(),
			HitAt:     now,
			X:         req.X,
			Y:         req.Y,
			Points:    tap.FinalScore,
			Combo:     tap.ComboCount,
			Critical:  tap.IsCritical,
			Accurate:  tap.IsAccurate,
			Feature:   string(tap.HitFeature),
		}:
		default:
			s.Log.Warn("hit buffer full, dropping record")
		}
	}

	// KO keeps the session scoring through the presentation delay; the run
	// loop notices the ended phase on its next tick and persists the result.
	if tap.KO {
		gen := sess.Generation()
		time.AfterFunc(koPresentationDelay, func() {
			sess.End(gen, session.EndedByKO, time.Now())
		})
	}

	s.jsonResponse(w, http.StatusOK, tap)
}

type resetRequest struct {
	KeepImage bool `json:"keepImage"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	var req resetRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	sess.Reset(req.KeepImage)
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

type summaryResponse struct {
	PlayerName   string         `json:"playerName"`
	VillainName  string         `json:"villainName"`
	Score        int            `json:"score"`
	HitCount     int            `json:"hitCount"`
	MaxCombo     int            `json:"maxCombo"`
	Difficulty   difficulty.Key `json:"difficulty"`
	AccuracyRate float64        `json:"accuracyRate"`
	PlayTimeMs   int64          `json:"playTimeMs"`
	Grade        string         `json:"grade"`
	EndedBy      string         `json:"endedBy"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}

	sum, err := sess.Summary()
	if err != nil {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, summaryResponse{
		PlayerName:   sum.PlayerName,
		VillainName:  sum.VillainName,
		Score:        sum.Score,
		HitCount:     sum.HitCount,
		MaxCombo:     sum.MaxCombo,
		Difficulty:   sum.Difficulty,
		AccuracyRate: sum.AccuracyRate,
		PlayTimeMs:   sum.PlayTime.Milliseconds(),
		Grade:        sum.Grade,
		EndedBy:      string(sum.EndedBy),
	})
}

func (s *Server) handleHitLog(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.HitLog())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status": "db_error",
				"error":  err.Error(),
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
