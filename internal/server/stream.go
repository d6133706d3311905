package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"villainstrike/internal/live"
)

// handleEvents streams session events over SSE.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	f := s.feed(sess.ID())
	if f == nil {
		s.errorResponse(w, http.StatusNotFound, "no event feed for session")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.errorResponse(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := f.broadcaster.Subscribe()
	defer f.broadcaster.Unsubscribe(msgChan)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			fmt.Fprintf(w, "data: %s\n\n", msg.Data)
			flusher.Flush()
		}
	}
}

// handleLiveFeed streams session events to websocket spectators.
func (s *Server) handleLiveFeed(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if sess == nil {
		return
	}
	f := s.feed(sess.ID())
	if f == nil {
		s.errorResponse(w, http.StatusNotFound, "no event feed for session")
		return
	}

	opts := &websocket.AcceptOptions{}
	if s.Cfg.AllowedOrigins == "*" {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = strings.Split(s.Cfg.AllowedOrigins, ",")
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		s.Log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	client := &live.Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, 32),
	}
	f.hub.Register(client)
	defer f.hub.Unregister(client.ID)

	ctx := r.Context()
	go client.WritePump(ctx)

	// Spectators send nothing; the read loop only notices disconnects.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}
