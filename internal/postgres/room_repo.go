package postgres

import (
	"context"
	"errors"

	"github.com/footysocial/chat-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, kind, label, fixture_id, home_team, away_team, kickoff, created_at`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var rm domain.Room
	err := row.Scan(&rm.ID, &rm.Kind, &rm.Label, &rm.FixtureID, &rm.HomeTeam, &rm.AwayTeam, &rm.Kickoff, &rm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) Get(ctx context.Context, id int64) (*domain.Room, error) {
	return scanRoom(r.db.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id=$1`, id))
}

func (r *RoomRepository) GetByFixture(ctx context.Context, fixtureID int64) (*domain.Room, error) {
	return scanRoom(r.db.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE fixture_id=$1`, fixtureID))
}

// EnsureExists inserts a catalog room once; concurrent provisioning is safe.
func (r *RoomRepository) EnsureExists(ctx context.Context, kind domain.RoomKind, label string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO rooms (kind, label)
		VALUES ($1, $2)
		ON CONFLICT (kind, label) DO NOTHING
	`, kind, label)
	return err
}

// CreateMatchRoom inserts a room for the fixture; a concurrent connection may win
// the race, in which case the existing row is returned.
func (r *RoomRepository) CreateMatchRoom(ctx context.Context, fx *domain.Fixture) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO rooms (kind, label, fixture_id, home_team, away_team, kickoff)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (fixture_id) DO UPDATE SET label = EXCLUDED.label
		RETURNING `+roomColumns,
		domain.RoomMatch, fx.Pairing(), fx.ID, fx.HomeTeam, fx.AwayTeam, fx.Kickoff)
	return scanRoom(row)
}

func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+` FROM rooms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.Kind, &rm.Label, &rm.FixtureID, &rm.HomeTeam, &rm.AwayTeam, &rm.Kickoff, &rm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
