package domain

import "time"

// Fixture rows are ingested by an upstream job; this service only reads them to
// provision match rooms.
type Fixture struct {
	ID       int64     `db:"id"`
	HomeTeam string    `db:"home_team"`
	AwayTeam string    `db:"away_team"`
	Kickoff  time.Time `db:"kickoff"`
}

func (f Fixture) Pairing() string {
	return f.HomeTeam + " vs " + f.AwayTeam
}
