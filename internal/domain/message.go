package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID        int64      `db:"id"`
	RoomID    int64      `db:"room_id"`
	UserID    uuid.UUID  `db:"user_id"`
	Username  string     `db:"username"`
	Content   string     `db:"content"`
	CreatedAt time.Time  `db:"created_at"`
	ChatDate  *time.Time `db:"chat_date"` // server-local calendar day, team rooms only
	IsBot     bool       `db:"is_bot"`
}
