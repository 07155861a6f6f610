package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/footysocial/chat-service/internal/domain"
)

type RoomStore interface {
	Get(ctx context.Context, id int64) (*domain.Room, error)
	GetByFixture(ctx context.Context, fixtureID int64) (*domain.Room, error)
	EnsureExists(ctx context.Context, kind domain.RoomKind, label string) error
	CreateMatchRoom(ctx context.Context, fx *domain.Fixture) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}

type FixtureStore interface {
	Get(ctx context.Context, id int64) (*domain.Fixture, error)
}

// PresenceCounter reports live session counts; backed by the websocket hub.
type PresenceCounter interface {
	Count(roomID int64) int
}

type RoomService struct {
	rooms    RoomStore
	fixtures FixtureStore
	presence PresenceCounter
}

func NewRoomService(rooms RoomStore, fixtures FixtureStore, presence PresenceCounter) *RoomService {
	return &RoomService{rooms: rooms, fixtures: fixtures, presence: presence}
}

// Provision creates the global room and the club catalog if missing. Rooms are
// never deleted afterwards.
func (s *RoomService) Provision(ctx context.Context) error {
	if err := s.rooms.EnsureExists(ctx, domain.RoomGeneral, GlobalRoomName); err != nil {
		return fmt.Errorf("ensure global room: %w", err)
	}
	for _, team := range TeamNames {
		if err := s.rooms.EnsureExists(ctx, domain.RoomTeam, team); err != nil {
			return fmt.Errorf("ensure room %q: %w", team, err)
		}
	}
	return nil
}

func (s *RoomService) Get(ctx context.Context, id int64) (*domain.Room, error) {
	return s.rooms.Get(ctx, id)
}

// EnsureFixtureRoom returns the match room for a fixture, creating it on first
// access from the upstream fixture row.
func (s *RoomService) EnsureFixtureRoom(ctx context.Context, fixtureID int64) (*domain.Room, error) {
	room, err := s.rooms.GetByFixture(ctx, fixtureID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, domain.ErrRoomNotFound) {
		return nil, err
	}

	fx, err := s.fixtures.Get(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	return s.rooms.CreateMatchRoom(ctx, fx)
}

// Authorize applies room eligibility to an identity. Team rooms require the
// user's declared favorite to resolve to the room's club; the global room and
// match rooms admit anyone.
func (s *RoomService) Authorize(room *domain.Room, user *domain.User) error {
	if room.Kind != domain.RoomTeam {
		return nil
	}
	if user.FavoriteTeam == nil || strings.TrimSpace(*user.FavoriteTeam) == "" {
		return domain.ErrFavoriteTeamUnset
	}
	if CanonicalTeam(*user.FavoriteTeam) != room.Label {
		return domain.ErrFavoriteTeamMismatch
	}
	return nil
}

type RoomListing struct {
	Room        domain.Room
	DisplayName string
	ActiveUsers int
	IsGlobal    bool
}

// List returns all rooms with live presence counts, the global room first and
// the remainder alphabetical by display name.
func (s *RoomService) List(ctx context.Context) ([]RoomListing, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RoomListing, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, RoomListing{
			Room:        rm,
			DisplayName: rm.DisplayName(),
			ActiveUsers: s.presence.Count(rm.ID),
			IsGlobal:    rm.Kind == domain.RoomGeneral,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsGlobal != out[j].IsGlobal {
			return out[i].IsGlobal
		}
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out, nil
}
