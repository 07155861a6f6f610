package ws

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/footysocial/chat-service/internal/domain"
)

type ChatSvc interface {
	Check(content string) error
	Save(ctx context.Context, room *domain.Room, author *domain.User, content string, isBot bool, now time.Time) (*domain.ChatMessage, error)
}

type BotSvc interface {
	Addressed(content string) bool
	Observe(roomID int64, username, content string, at time.Time)
	Reply(ctx context.Context, room *domain.Room, username, content string) string
}

type Broadcaster interface {
	Broadcast(roomID int64, ev any)
}

// Pipeline runs every accepted inbound message through moderation,
// persistence, broadcast and bot consultation, strictly in that order. One
// Pipeline is shared by all sessions; per-room ordering comes from each
// session being a single-consumer loop.
type Pipeline struct {
	hub         Broadcaster
	chat        ChatSvc
	bot         BotSvc // nil disables bot consultation entirely
	botIdentity *domain.User
}

func NewPipeline(hub Broadcaster, chat ChatSvc, bot BotSvc, botIdentity *domain.User) *Pipeline {
	return &Pipeline{hub: hub, chat: chat, bot: bot, botIdentity: botIdentity}
}

// Process handles one inbound message. Rejections and persistence failures
// are reported to the sender only; nothing is broadcast for them.
func (p *Pipeline) Process(ctx context.Context, room *domain.Room, author *domain.User, content string, sender Conn) {
	now := time.Now()

	if err := p.chat.Check(content); err != nil {
		_ = sender.Send(newErrorEvent(rejectionMessage(err)))
		return
	}

	msg, err := p.chat.Save(ctx, room, author, content, false, now)
	if err != nil {
		slog.Error("chat save failed", "room", room.ID, "user", author.Username, "err", err)
		_ = sender.Send(newErrorEvent(MsgSaveFailed))
		return
	}
	p.hub.Broadcast(room.ID, newChatMessageEvent(msg))

	if p.bot == nil {
		return
	}
	p.bot.Observe(room.ID, author.Username, content, now)
	if !p.bot.Addressed(content) {
		return
	}

	// Generation is synchronous: it blocks this session's loop only, and a
	// failure inside Reply degrades to the fixed fallback text.
	reply := p.bot.Reply(ctx, room, author.Username, content)
	at := time.Now()

	botMsg, err := p.chat.Save(ctx, room, p.botIdentity, reply, true, at)
	if err != nil {
		slog.Error("bot reply save failed", "room", room.ID, "err", err)
		return
	}
	p.hub.Broadcast(room.ID, newChatMessageEvent(botMsg))
	p.bot.Observe(room.ID, p.botIdentity.Username, reply, at)
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMessageRejected):
		return MsgRejected
	case errors.Is(err, domain.ErrMessageTooLong):
		return MsgTooLong
	case errors.Is(err, domain.ErrEmptyMessage):
		return MsgEmpty
	default:
		return MsgInvalidFrame
	}
}
