package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/footysocial/chat-service/internal/domain"
	"github.com/footysocial/chat-service/internal/identity"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const maxFrameSize = 1 << 20

type RoomSvc interface {
	Get(ctx context.Context, id int64) (*domain.Room, error)
	EnsureFixtureRoom(ctx context.Context, fixtureID int64) (*domain.Room, error)
	Authorize(room *domain.Room, user *domain.User) error
}

// Server owns the per-connection session protocol: handshake, authorization,
// the single-consumer message loop, and teardown.
type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	verifier identity.Verifier
	rooms    RoomSvc
	pipeline *Pipeline
}

func NewServer(hub *Hub, verifier identity.Verifier, rooms RoomSvc, pipeline *Pipeline) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		hub:      hub,
		verifier: verifier,
		rooms:    rooms,
		pipeline: pipeline,
	}
}

// HandleRoomWS serves GET /ws/rooms/{id}?token=...
func (s *Server) HandleRoomWS(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	s.serve(w, r, ReasonRoomUnavailable, func(ctx context.Context) (*domain.Room, error) {
		return s.rooms.Get(ctx, id)
	})
}

// HandleFixtureWS serves GET /ws/fixtures/{id}?token=... The match room is
// created lazily from the fixture row on first connection.
func (s *Server) HandleFixtureWS(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid fixture id", http.StatusBadRequest)
		return
	}
	s.serve(w, r, ReasonGameUnavailable, func(ctx context.Context) (*domain.Room, error) {
		return s.rooms.EnsureFixtureRoom(ctx, id)
	})
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, unavailable string, resolve func(ctx context.Context) (*domain.Room, error)) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	// Connecting → Authorizing. Every denial below is a terminal close with a
	// policy reason; the session is never registered.
	if token == "" {
		s.deny(conn, ReasonAuthRequired)
		return
	}
	ident, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		slog.Warn("ws auth failed", "err", err)
		s.deny(conn, ReasonAuthFailed)
		return
	}
	room, err := resolve(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) || errors.Is(err, domain.ErrFixtureNotFound) {
			s.deny(conn, unavailable)
		} else {
			slog.Error("ws room resolve failed", "err", err)
			s.deny(conn, "Internal error")
		}
		return
	}
	if err := s.rooms.Authorize(room, ident.User); err != nil {
		s.deny(conn, capitalize(err.Error()))
		return
	}

	s.active(r.Context(), conn, room, ident.User)
}

// active runs the Active state: register, welcome, then the read loop.
// Teardown always unregisters and re-broadcasts presence exactly once.
func (s *Server) active(ctx context.Context, conn *websocket.Conn, room *domain.Room, user *domain.User) {
	sess := newSession(conn)
	handle := s.hub.Register(room.ID, sess)
	slog.Info("ws session open", "room", room.ID, "user", user.Username)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("ws session panic", "room", room.ID, "user", user.Username, "panic", rec)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "Internal error"),
				time.Now().Add(writeTimeout))
		}
		s.hub.Unregister(room.ID, handle)
		_ = sess.Close()
		slog.Info("ws session closed", "room", room.ID, "user", user.Username)
	}()

	// welcome goes to the new session before anyone hears about it
	if err := sess.Send(newWelcomeEvent(room, s.hub.Count(room.ID))); err != nil {
		return
	}
	s.hub.broadcastPresence(room.ID)

	conn.SetReadLimit(maxFrameSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			_ = sess.Send(newErrorEvent(MsgInvalidFrame))
			continue
		}
		content := strings.TrimSpace(frame.Content)
		if content == "" {
			_ = sess.Send(newErrorEvent(MsgEmpty))
			continue
		}

		s.pipeline.Process(ctx, room, user, content, sess)
	}
}

func (s *Server) deny(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(writeTimeout))
	_ = conn.Close()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
