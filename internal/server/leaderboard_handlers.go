package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"villainstrike/internal/difficulty"
	"villainstrike/internal/leaderboard"
)

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var entry leaderboard.Entry
	if err := decodeJSON(r, &entry); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if entry.PlayerName == "" {
		s.errorResponse(w, http.StatusBadRequest, "playerName required")
		return
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	entry.Difficulty = difficulty.Key(strings.ToUpper(string(entry.Difficulty)))

	stored, reasons := s.Leaderboard.Submit(r.Context(), entry)
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"entry":   stored,
		"reasons": reasons,
	})
}

func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	key := difficulty.Key(strings.ToUpper(r.URL.Query().Get("difficulty")))
	if key != "" && !difficulty.Valid(key) {
		s.errorResponse(w, http.StatusBadRequest, "unknown difficulty")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries := s.Leaderboard.Top(r.Context(), key, limit)
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	s.jsonResponse(w, http.StatusOK, entries)
}

func (s *Server) handlePersonalBest(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		s.errorResponse(w, http.StatusBadRequest, "player required")
		return
	}
	key := difficulty.Key(strings.ToUpper(r.URL.Query().Get("difficulty")))

	entry, ok := s.Leaderboard.PersonalBest(r.Context(), player, key)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "no scores for player")
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

type saveVillainRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

func (s *Server) handleSaveVillain(w http.ResponseWriter, r *http.Request) {
	var req saveVillainRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name required")
		return
	}

	v := s.Villains.Save(req.Name, req.ImageURL)
	if s.DB != nil {
		if _, err := s.DB.UpsertVillain(req.Name, req.ImageURL); err != nil {
			s.Log.Error("upsert villain failed", zap.Error(err))
		}
	}
	s.jsonResponse(w, http.StatusCreated, v)
}

func (s *Server) handleListVillains(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.Villains.List())
}

func (s *Server) handleDeleteVillain(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.Villains.Remove(name) {
		s.errorResponse(w, http.StatusNotFound, "villain not found")
		return
	}
	if s.DB != nil {
		if err := s.DB.DeleteVillain(name); err != nil {
			s.Log.Error("delete villain failed", zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type transformRequest struct {
	Image string `json:"image"`
	Stage int    `json:"stage"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Stage < 1 || req.Stage > 3 {
		s.errorResponse(w, http.StatusBadRequest, "stage must be 1 to 3")
		return
	}

	image, err := s.Transformer.Transform(r.Context(), req.Image, req.Stage)
	if err != nil {
		s.Log.Warn("transform failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "transform failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"image": image})
}
