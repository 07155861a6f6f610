package postgres

import (
	"context"
	"errors"

	"github.com/footysocial/chat-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FixtureRepository struct {
	db *pgxpool.Pool
}

func NewFixtureRepository(db *pgxpool.Pool) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) Get(ctx context.Context, id int64) (*domain.Fixture, error) {
	var f domain.Fixture
	err := r.db.QueryRow(ctx,
		`SELECT id, home_team, away_team, kickoff FROM fixtures WHERE id=$1`, id).
		Scan(&f.ID, &f.HomeTeam, &f.AwayTeam, &f.Kickoff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFixtureNotFound
		}
		return nil, err
	}
	return &f, nil
}
