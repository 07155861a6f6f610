package ws

import (
	"time"

	"github.com/footysocial/chat-service/internal/domain"
)

// Server → client event types.
const (
	TypeWelcome     = "welcome"
	TypePresence    = "presence"
	TypeChatMessage = "chat_message"
	TypeError       = "error"
)

// Close reasons for sessions denied during the handshake.
const (
	ReasonAuthRequired    = "Authentication required"
	ReasonAuthFailed      = "Authentication failed"
	ReasonRoomUnavailable = "Fan room unavailable"
	ReasonGameUnavailable = "Live match unavailable"
)

// Sender-only transient error messages.
const (
	MsgEmpty        = "Message cannot be empty."
	MsgRejected     = "Your message contains inappropriate language and cannot be sent."
	MsgTooLong      = "Message is too long."
	MsgSaveFailed   = "Your message could not be saved. Please try again."
	MsgInvalidFrame = "Invalid message format."
)

// InboundFrame is the only client → server payload.
type InboundFrame struct {
	Content string `json:"content"`
}

type WelcomeEvent struct {
	Type        string  `json:"type"`
	RoomID      int64   `json:"room_id"`
	Label       string  `json:"label"`
	HomeTeam    *string `json:"home_team,omitempty"`
	AwayTeam    *string `json:"away_team,omitempty"`
	MatchDate   string  `json:"match_date,omitempty"`
	ActiveUsers int     `json:"active_users"`
}

type PresenceEvent struct {
	Type        string `json:"type"`
	RoomID      int64  `json:"room_id"`
	ActiveUsers int    `json:"active_users"`
}

type ChatMessageEvent struct {
	Type      string `json:"type"`
	MessageID int64  `json:"message_id"`
	RoomID    int64  `json:"room_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	ChatDate  string `json:"chat_date,omitempty"`
	IsBot     bool   `json:"is_bot,omitempty"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorEvent(msg string) ErrorEvent {
	return ErrorEvent{Type: TypeError, Message: msg}
}

func newWelcomeEvent(room *domain.Room, active int) WelcomeEvent {
	ev := WelcomeEvent{
		Type:        TypeWelcome,
		RoomID:      room.ID,
		Label:       room.Label,
		HomeTeam:    room.HomeTeam,
		AwayTeam:    room.AwayTeam,
		ActiveUsers: active,
	}
	if room.Kickoff != nil {
		ev.MatchDate = room.Kickoff.Format("2006-01-02")
	}
	return ev
}

func newChatMessageEvent(m *domain.ChatMessage) ChatMessageEvent {
	ev := ChatMessageEvent{
		Type:      TypeChatMessage,
		MessageID: m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID.String(),
		Username:  m.Username,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		IsBot:     m.IsBot,
	}
	if m.ChatDate != nil {
		ev.ChatDate = m.ChatDate.Format("2006-01-02")
	}
	return ev
}
