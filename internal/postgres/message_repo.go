package postgres

import (
	"context"

	"github.com/footysocial/chat-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Save inserts the row and fills in the assigned id; this is the durability
// point for a message.
func (r *MessageRepository) Save(ctx context.Context, m *domain.ChatMessage) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO room_messages (room_id, user_id, username, content, created_at, chat_date, is_bot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, m.RoomID, m.UserID, m.Username, m.Content, m.CreatedAt, m.ChatDate, m.IsBot)
	return row.Scan(&m.ID)
}

// ListByDay returns a team room's messages for one calendar day, oldest first.
func (r *MessageRepository) ListByDay(ctx context.Context, roomID int64, day string) ([]domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, user_id, username, content, created_at, chat_date, is_bot
		FROM room_messages
		WHERE room_id=$1 AND chat_date=$2::date
		ORDER BY id ASC
	`, roomID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// ListRecent returns up to limit messages for a room, oldest first.
func (r *MessageRepository) ListRecent(ctx context.Context, roomID int64, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, user_id, username, content, created_at, chat_date, is_bot
		FROM (
			SELECT id, room_id, user_id, username, content, created_at, chat_date, is_bot
			FROM room_messages
			WHERE room_id=$1
			ORDER BY id DESC
			LIMIT $2
		) recent
		ORDER BY id ASC
	`, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Username, &m.Content, &m.CreatedAt, &m.ChatDate, &m.IsBot); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
