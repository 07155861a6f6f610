package service

import (
	"context"
	"strings"
	"time"

	"github.com/footysocial/chat-service/internal/domain"
)

const maxMessageLen = 4000

type MessageStore interface {
	Save(ctx context.Context, m *domain.ChatMessage) error
	ListByDay(ctx context.Context, roomID int64, day string) ([]domain.ChatMessage, error)
	ListRecent(ctx context.Context, roomID int64, limit int) ([]domain.ChatMessage, error)
}

// ModerationFilter is the lexical gate applied before anything is persisted.
type ModerationFilter interface {
	IsClean(text string) bool
	Violations(text string) []string
}

type ChatService struct {
	messages MessageStore
	filter   ModerationFilter
}

func NewChatService(messages MessageStore, filter ModerationFilter) *ChatService {
	return &ChatService{messages: messages, filter: filter}
}

// Check validates content against the moderation policy. A dirty message is
// rejected outright, never redacted.
func (s *ChatService) Check(content string) error {
	if strings.TrimSpace(content) == "" {
		return domain.ErrEmptyMessage
	}
	if len(content) > maxMessageLen {
		return domain.ErrMessageTooLong
	}
	if !s.filter.IsClean(content) {
		return domain.ErrMessageRejected
	}
	return nil
}

// Save persists an accepted message and assigns its canonical id. Team rooms
// carry the server-local chat day used to partition history.
func (s *ChatService) Save(ctx context.Context, room *domain.Room, author *domain.User, content string, isBot bool, now time.Time) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		RoomID:    room.ID,
		UserID:    author.ID,
		Username:  author.Username,
		Content:   content,
		CreatedAt: now,
		IsBot:     isBot,
	}
	if room.Kind == domain.RoomTeam {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		m.ChatDate = &day
	}
	if err := s.messages.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// HistoryByDay returns a team room's messages for the given day (today when
// empty), oldest first.
func (s *ChatService) HistoryByDay(ctx context.Context, roomID int64, day string) ([]domain.ChatMessage, error) {
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}
	return s.messages.ListByDay(ctx, roomID, day)
}

// Recent returns up to limit messages for a match or global room, oldest first.
func (s *ChatService) Recent(ctx context.Context, roomID int64, limit int) ([]domain.ChatMessage, error) {
	return s.messages.ListRecent(ctx, roomID, limit)
}
