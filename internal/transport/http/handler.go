package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/footysocial/chat-service/internal/domain"
	"github.com/footysocial/chat-service/internal/service"

	"github.com/go-chi/chi/v5"
)

type RoomSvc interface {
	Get(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context) ([]service.RoomListing, error)
}

type ChatSvc interface {
	HistoryByDay(ctx context.Context, roomID int64, day string) ([]domain.ChatMessage, error)
	Recent(ctx context.Context, roomID int64, limit int) ([]domain.ChatMessage, error)
}

type PresenceCounter interface {
	Count(roomID int64) int
}

type Handler struct {
	roomSvc  RoomSvc
	chatSvc  ChatSvc
	presence PresenceCounter
}

func NewHandler(room RoomSvc, chat ChatSvc, presence PresenceCounter) *Handler {
	return &Handler{roomSvc: room, chatSvc: chat, presence: presence}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func roomItem(listing service.RoomListing) RoomItem {
	return RoomItem{
		ID:          listing.Room.ID,
		Kind:        string(listing.Room.Kind),
		Label:       listing.Room.Label,
		DisplayName: listing.DisplayName,
		HomeTeam:    listing.Room.HomeTeam,
		AwayTeam:    listing.Room.AwayTeam,
		ActiveUsers: listing.ActiveUsers,
		IsGlobal:    listing.IsGlobal,
	}
}

// GET /rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	listings, err := h.roomSvc.List(r.Context())
	if err != nil {
		slog.Error("handler.ListRooms", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	resp := RoomsListResponse{Items: make([]RoomItem, 0, len(listings))}
	for _, l := range listings {
		resp.Items = append(resp.Items, roomItem(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}
	room, err := h.roomSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.GetRoom", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, roomItem(service.RoomListing{
		Room:        *room,
		DisplayName: room.DisplayName(),
		ActiveUsers: h.presence.Count(room.ID),
		IsGlobal:    room.Kind == domain.RoomGeneral,
	}))
}

// GET /rooms/{id}/messages?chat_date=YYYY-MM-DD&limit=
//
// Team rooms are partitioned by chat day (today when unset); other rooms
// return the most recent window. Both orders are oldest-first.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}
	room, err := h.roomSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.GetMessages", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	var messages []domain.ChatMessage
	if room.Kind == domain.RoomTeam {
		day := r.URL.Query().Get("chat_date")
		if day != "" {
			if _, err := time.Parse("2006-01-02", day); err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid chat_date"})
				return
			}
		}
		messages, err = h.chatSvc.HistoryByDay(r.Context(), id, day)
	} else {
		limit := 100
		if s := r.URL.Query().Get("limit"); s != "" {
			limit, err = strconv.Atoi(s)
			if err != nil || limit <= 0 || limit > 500 {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 500"})
				return
			}
		}
		messages, err = h.chatSvc.Recent(r.Context(), id, limit)
	}
	if err != nil {
		slog.Error("handler.GetMessages", "room", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	resp := MessagesResponse{Items: make([]ChatMessageItem, 0, len(messages))}
	for _, m := range messages {
		item := ChatMessageItem{
			MessageID: m.ID,
			RoomID:    m.RoomID,
			UserID:    m.UserID.String(),
			Username:  m.Username,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
			IsBot:     m.IsBot,
		}
		if m.ChatDate != nil {
			item.ChatDate = m.ChatDate.Format("2006-01-02")
		}
		resp.Items = append(resp.Items, item)
	}
	writeJSON(w, http.StatusOK, resp)
}
