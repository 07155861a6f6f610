package domain

import "time"

type RoomKind string

const (
	RoomGeneral RoomKind = "general" // the global hub room
	RoomTeam    RoomKind = "team"    // one per club, favorite-team gated
	RoomMatch   RoomKind = "match"   // backed by a fixture, open to everyone
)

type Room struct {
	ID        int64      `db:"id"`
	Kind      RoomKind   `db:"kind"`
	Label     string     `db:"label"` // team name, hub name, or "Home vs Away"
	FixtureID *int64     `db:"fixture_id"`
	HomeTeam  *string    `db:"home_team"`
	AwayTeam  *string    `db:"away_team"`
	Kickoff   *time.Time `db:"kickoff"` // match rooms only
	CreatedAt time.Time  `db:"created_at"`
}

// DisplayName is what clients render in room lists.
func (r Room) DisplayName() string {
	if r.Kind == RoomTeam {
		return r.Label + " Fans"
	}
	return r.Label
}
