// Package bot implements the room chatbot: it watches traffic, keeps a short
// per-room transcript, and answers when a message addresses it by name.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/footysocial/chat-service/internal/domain"

	"github.com/google/uuid"
)

// Fallback is sent verbatim whenever generation fails or times out; a mention
// is never left without a reply.
const Fallback = "Sorry, I'm having trouble thinking right now. Try asking again! 🤔"

const (
	defaultWindow = 15
	promptLines   = 10
)

// SentinelUserID authors persisted bot messages. Bot rows carry no users entry.
var SentinelUserID = uuid.MustParse("00000000-0000-0000-0000-00000000f007")

// Generator is the external text-generation capability. It may be slow or fail;
// callers own timeouts and fallbacks.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type line struct {
	username string
	content  string
	at       time.Time
}

// Responder holds per-room bounded transcripts. State is volatile: it starts
// empty on every boot and is never rebuilt from storage.
type Responder struct {
	name     string
	triggers []string
	window   int
	timeout  time.Duration
	gen      Generator

	mu      sync.Mutex
	history map[int64][]line
}

func NewResponder(name string, window int, timeout time.Duration, gen Generator) *Responder {
	if name == "" {
		name = "FootyBot"
	}
	if window <= 0 {
		window = defaultWindow
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Responder{
		name: name,
		triggers: []string{
			"@" + name,
			"@" + strings.ToLower(name),
			"!bot",
			"!footy",
			"hey bot",
		},
		window:  window,
		timeout: timeout,
		gen:     gen,
		history: make(map[int64][]line),
	}
}

func (r *Responder) Name() string { return r.name }

// Addressed reports whether any trigger appears in the message. Matching is a
// case-insensitive substring test, not tokenization.
func (r *Responder) Addressed(content string) bool {
	lower := strings.ToLower(content)
	for _, t := range r.triggers {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// Observe appends a message to the room transcript, evicting the oldest line
// once the window is full.
func (r *Responder) Observe(roomID int64, username, content string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := append(r.history[roomID], line{username: username, content: content, at: at})
	if len(h) > r.window {
		h = h[len(h)-r.window:]
	}
	r.history[roomID] = h
}

// Reply generates an answer for an addressed message. It never returns an
// error: generation failures degrade to Fallback.
func (r *Responder) Reply(ctx context.Context, room *domain.Room, username, content string) string {
	question := content
	for _, t := range r.triggers {
		question = strings.ReplaceAll(question, t, "")
	}
	question = strings.TrimSpace(question)

	prompt := fmt.Sprintf("Recent chat context:\n%s\n\n%s just asked you: %s%s\n\nRespond to their question. Remember: 1-3 sentences max, be helpful and engaging!",
		r.transcript(room.ID), username, question, roomContext(room))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.gen.Generate(ctx, r.systemPrompt(), prompt)
	reply = strings.TrimSpace(reply)
	if err != nil || reply == "" {
		slog.Warn("bot generation failed", "room", room.ID, "err", err)
		return Fallback
	}
	return reply
}

func (r *Responder) transcript(roomID int64) string {
	r.mu.Lock()
	h := r.history[roomID]
	if len(h) > promptLines {
		h = h[len(h)-promptLines:]
	}
	lines := make([]string, len(h))
	for i, l := range h {
		lines[i] = fmt.Sprintf("[%s] %s: %s", l.at.Format("15:04"), l.username, l.content)
	}
	r.mu.Unlock()

	if len(lines) == 0 {
		return "No recent chat history."
	}
	return strings.Join(lines, "\n")
}

func roomContext(room *domain.Room) string {
	switch room.Kind {
	case domain.RoomTeam:
		return "\n\nCurrent room: " + room.Label + " fan room"
	case domain.RoomMatch:
		return "\n\nCurrent room: live chat for " + room.Label
	default:
		return ""
	}
}

func (r *Responder) systemPrompt() string {
	return "You are " + r.name + ", a knowledgeable and enthusiastic soccer chatbot in a live fan chat.\n\n" +
		"Your role:\n" +
		"- Answer questions about soccer: teams, players, tactics, rules, history, statistics\n" +
		"- Be friendly and conversational with all fans, and stay neutral between teams\n" +
		"- Keep responses SHORT (1-3 sentences max) - this is live chat!\n\n" +
		"CRITICAL RULES:\n" +
		"- ONLY respond to direct questions or clear requests for information\n" +
		"- NEVER ask follow-up questions or engage in back-and-forth conversation\n" +
		"- Give complete, self-contained answers that don't invite replies\n\n" +
		"Current context: you're in a Premier League fan room where supporters are chatting during or about matches."
}
