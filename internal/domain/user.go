package domain

import "github.com/google/uuid"

type User struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	FavoriteTeam *string   `db:"favorite_team"`
}
