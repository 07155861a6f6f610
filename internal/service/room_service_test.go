package service

import (
	"context"
	"testing"

	"github.com/footysocial/chat-service/internal/domain"
)

type roomStoreStub struct {
	rooms     map[int64]*domain.Room
	byFixture map[int64]*domain.Room
	ensured   []string
	nextID    int64
}

func newRoomStoreStub() *roomStoreStub {
	return &roomStoreStub{
		rooms:     make(map[int64]*domain.Room),
		byFixture: make(map[int64]*domain.Room),
		nextID:    1,
	}
}

func (s *roomStoreStub) Get(_ context.Context, id int64) (*domain.Room, error) {
	if rm, ok := s.rooms[id]; ok {
		return rm, nil
	}
	return nil, domain.ErrRoomNotFound
}

func (s *roomStoreStub) GetByFixture(_ context.Context, fixtureID int64) (*domain.Room, error) {
	if rm, ok := s.byFixture[fixtureID]; ok {
		return rm, nil
	}
	return nil, domain.ErrRoomNotFound
}

func (s *roomStoreStub) EnsureExists(_ context.Context, kind domain.RoomKind, label string) error {
	s.ensured = append(s.ensured, label)
	rm := &domain.Room{ID: s.nextID, Kind: kind, Label: label}
	s.rooms[rm.ID] = rm
	s.nextID++
	return nil
}

func (s *roomStoreStub) CreateMatchRoom(_ context.Context, fx *domain.Fixture) (*domain.Room, error) {
	rm := &domain.Room{ID: s.nextID, Kind: domain.RoomMatch, Label: fx.Pairing(), FixtureID: &fx.ID, Kickoff: &fx.Kickoff}
	s.rooms[rm.ID] = rm
	s.byFixture[fx.ID] = rm
	s.nextID++
	return rm, nil
}

func (s *roomStoreStub) List(_ context.Context) ([]domain.Room, error) {
	out := make([]domain.Room, 0, len(s.rooms))
	for _, rm := range s.rooms {
		out = append(out, *rm)
	}
	return out, nil
}

type fixtureStoreStub struct {
	fixtures map[int64]*domain.Fixture
}

func (s *fixtureStoreStub) Get(_ context.Context, id int64) (*domain.Fixture, error) {
	if f, ok := s.fixtures[id]; ok {
		return f, nil
	}
	return nil, domain.ErrFixtureNotFound
}

type presenceStub map[int64]int

func (p presenceStub) Count(roomID int64) int { return p[roomID] }

func favorite(team string) *string { return &team }

func TestAuthorize_TeamRoom(t *testing.T) {
	svc := NewRoomService(newRoomStoreStub(), &fixtureStoreStub{}, presenceStub{})
	spursRoom := &domain.Room{ID: 1, Kind: domain.RoomTeam, Label: "Tottenham Hotspur"}
	chelseaRoom := &domain.Room{ID: 2, Kind: domain.RoomTeam, Label: "Chelsea"}
	global := &domain.Room{ID: 3, Kind: domain.RoomGeneral, Label: GlobalRoomName}

	spursFan := &domain.User{Username: "alice", FavoriteTeam: favorite("Spurs")}
	if err := svc.Authorize(spursRoom, spursFan); err != nil {
		t.Fatalf("alias fan rejected from own room: %v", err)
	}
	if err := svc.Authorize(chelseaRoom, spursFan); err != domain.ErrFavoriteTeamMismatch {
		t.Fatalf("Authorize(other room) = %v, want mismatch", err)
	}

	noFavorite := &domain.User{Username: "bob"}
	if err := svc.Authorize(spursRoom, noFavorite); err != domain.ErrFavoriteTeamUnset {
		t.Fatalf("Authorize(no favorite) = %v, want unset", err)
	}
	if err := svc.Authorize(global, noFavorite); err != nil {
		t.Fatalf("global room must admit anyone: %v", err)
	}
	if err := svc.Authorize(&domain.Room{Kind: domain.RoomMatch}, noFavorite); err != nil {
		t.Fatalf("match room must admit anyone: %v", err)
	}
}

func TestProvision_CreatesCatalog(t *testing.T) {
	store := newRoomStoreStub()
	svc := NewRoomService(store, &fixtureStoreStub{}, presenceStub{})
	if err := svc.Provision(context.Background()); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if len(store.ensured) != len(TeamNames)+1 {
		t.Fatalf("ensured %d rooms, want %d", len(store.ensured), len(TeamNames)+1)
	}
	if store.ensured[0] != GlobalRoomName {
		t.Fatalf("global room not provisioned first: %v", store.ensured[0])
	}
}

func TestEnsureFixtureRoom(t *testing.T) {
	store := newRoomStoreStub()
	fixtures := &fixtureStoreStub{fixtures: map[int64]*domain.Fixture{
		42: {ID: 42, HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
	}}
	svc := NewRoomService(store, fixtures, presenceStub{})

	rm, err := svc.EnsureFixtureRoom(context.Background(), 42)
	if err != nil {
		t.Fatalf("EnsureFixtureRoom: %v", err)
	}
	if rm.Label != "Arsenal vs Chelsea" || rm.Kind != domain.RoomMatch {
		t.Fatalf("unexpected room: %+v", rm)
	}

	again, err := svc.EnsureFixtureRoom(context.Background(), 42)
	if err != nil {
		t.Fatalf("EnsureFixtureRoom (second): %v", err)
	}
	if again.ID != rm.ID {
		t.Fatalf("second access created a new room: %d != %d", again.ID, rm.ID)
	}

	if _, err := svc.EnsureFixtureRoom(context.Background(), 99); err != domain.ErrFixtureNotFound {
		t.Fatalf("missing fixture err = %v", err)
	}
}

func TestList_GlobalFirstThenAlphabetical(t *testing.T) {
	store := newRoomStoreStub()
	svc := NewRoomService(store, &fixtureStoreStub{}, presenceStub{2: 3})
	_ = store.EnsureExists(context.Background(), domain.RoomTeam, "Chelsea")   // id 1
	_ = store.EnsureExists(context.Background(), domain.RoomTeam, "Arsenal")   // id 2
	_ = store.EnsureExists(context.Background(), domain.RoomGeneral, GlobalRoomName)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got[0].DisplayName != GlobalRoomName {
		t.Fatalf("global room not first: %v", got[0].DisplayName)
	}
	if got[1].DisplayName != "Arsenal Fans" || got[2].DisplayName != "Chelsea Fans" {
		t.Fatalf("remainder not alphabetical: %v, %v", got[1].DisplayName, got[2].DisplayName)
	}
	if got[1].ActiveUsers != 3 {
		t.Fatalf("presence count not surfaced: %d", got[1].ActiveUsers)
	}
}
