package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/footysocial/chat-service/internal/domain"
	"github.com/footysocial/chat-service/internal/identity"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type verifierStub struct {
	users map[string]*domain.User // token -> user
}

func (v *verifierStub) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if u, ok := v.users[token]; ok {
		return &identity.Identity{User: u}, nil
	}
	return nil, identity.ErrInvalidToken
}

type roomSvcStub struct {
	rooms    map[int64]*domain.Room
	fixtures map[int64]*domain.Room // fixtureID -> match room
}

func (s *roomSvcStub) Get(_ context.Context, id int64) (*domain.Room, error) {
	if rm, ok := s.rooms[id]; ok {
		return rm, nil
	}
	return nil, domain.ErrRoomNotFound
}

func (s *roomSvcStub) EnsureFixtureRoom(_ context.Context, id int64) (*domain.Room, error) {
	if rm, ok := s.fixtures[id]; ok {
		return rm, nil
	}
	return nil, domain.ErrFixtureNotFound
}

func (s *roomSvcStub) Authorize(room *domain.Room, user *domain.User) error {
	if room.Kind != domain.RoomTeam {
		return nil
	}
	if user.FavoriteTeam == nil {
		return domain.ErrFavoriteTeamUnset
	}
	if *user.FavoriteTeam != room.Label {
		return domain.ErrFavoriteTeamMismatch
	}
	return nil
}

type testEnv struct {
	srv  *httptest.Server
	hub  *Hub
	chat *chatSvcStub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	spurs := "Tottenham Hotspur"
	verifier := &verifierStub{users: map[string]*domain.User{
		"tok-alice": {ID: uuid.New(), Username: "alice", FavoriteTeam: &spurs},
		"tok-bob":   {ID: uuid.New(), Username: "bob"},
	}}
	home, away := "Arsenal", "Chelsea"
	kickoff := time.Date(2026, 9, 12, 16, 30, 0, 0, time.UTC)
	rooms := &roomSvcStub{
		rooms: map[int64]*domain.Room{
			1: {ID: 1, Kind: domain.RoomGeneral, Label: "FootySocial Hub"},
			2: {ID: 2, Kind: domain.RoomTeam, Label: "Tottenham Hotspur"},
			3: {ID: 3, Kind: domain.RoomTeam, Label: "Chelsea"},
		},
		fixtures: map[int64]*domain.Room{
			9: {ID: 4, Kind: domain.RoomMatch, Label: "Arsenal vs Chelsea",
				HomeTeam: &home, AwayTeam: &away, Kickoff: &kickoff},
		},
	}

	hub := NewHub()
	chat := &chatSvcStub{}
	pipeline := NewPipeline(hub, chat, &botSvcStub{reply: "bot says hi"}, botIdentity)
	server := NewServer(hub, verifier, rooms, pipeline)

	r := chi.NewRouter()
	r.Get("/ws/rooms/{id}", server.HandleRoomWS)
	r.Get("/ws/fixtures/{id}", server.HandleFixtureWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, hub: hub, chat: chat}
}

func (e *testEnv) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readEvent decodes the next server event into a loose map.
func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode event %q: %v", data, err)
	}
	return m
}

// readUntil skips events until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	for i := 0; i < 20; i++ {
		if ev := readEvent(t, conn); ev["type"] == typ {
			return ev
		}
	}
	t.Fatalf("no %s event received", typ)
	return nil
}

func expectClose(t *testing.T, conn *websocket.Conn, reason string) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	ce, ok := err.(*websocket.CloseError)
	if !ok {
		t.Fatalf("expected close error, got %v", err)
	}
	if ce.Code != websocket.ClosePolicyViolation || ce.Text != reason {
		t.Fatalf("close = %d %q, want %d %q", ce.Code, ce.Text, websocket.ClosePolicyViolation, reason)
	}
}

func sendContent(t *testing.T, conn *websocket.Conn, content string) {
	t.Helper()
	if err := conn.WriteJSON(InboundFrame{Content: content}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWS_MissingToken(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/rooms/1")
	expectClose(t, conn, ReasonAuthRequired)
	if env.hub.Count(1) != 0 {
		t.Fatal("unauthenticated session was registered")
	}
}

func TestWS_InvalidToken(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/rooms/1?token=bogus")
	expectClose(t, conn, ReasonAuthFailed)
}

func TestWS_RoomNotFound(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/rooms/404?token=tok-alice")
	expectClose(t, conn, ReasonRoomUnavailable)
}

func TestWS_FixtureNotFound(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/fixtures/404?token=tok-alice")
	expectClose(t, conn, ReasonGameUnavailable)
}

func TestWS_MatchRoomWelcomeCarriesFixtureDetails(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/fixtures/9?token=tok-alice")

	welcome := readEvent(t, conn)
	if welcome["type"] != TypeWelcome {
		t.Fatalf("first event = %v, want %s", welcome["type"], TypeWelcome)
	}
	if welcome["home_team"] != "Arsenal" || welcome["away_team"] != "Chelsea" {
		t.Fatalf("teams = %v / %v", welcome["home_team"], welcome["away_team"])
	}
	if welcome["match_date"] != "2026-09-12" {
		t.Fatalf("match_date = %v, want 2026-09-12", welcome["match_date"])
	}
}

func TestWS_TeamRoomEligibility(t *testing.T) {
	env := newTestEnv(t)

	// no favorite team set
	conn := env.dial(t, "/ws/rooms/2?token=tok-bob")
	expectClose(t, conn, "Set your favorite team to join a fan room")
	if env.hub.Count(2) != 0 {
		t.Fatal("ineligible session was registered")
	}

	// wrong team
	conn = env.dial(t, "/ws/rooms/3?token=tok-alice")
	expectClose(t, conn, "You can only join your favorite team's fan room")

	// matching favorite is admitted
	conn = env.dial(t, "/ws/rooms/2?token=tok-alice")
	welcome := readUntil(t, conn, TypeWelcome)
	if welcome["label"] != "Tottenham Hotspur" {
		t.Fatalf("welcome label = %v", welcome["label"])
	}
}

func TestWS_WelcomeAndPresence(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/rooms/1?token=tok-alice")

	// the very first frame a joining client sees is its welcome
	welcome := readEvent(t, conn)
	if welcome["type"] != TypeWelcome {
		t.Fatalf("first event = %v, want %s", welcome["type"], TypeWelcome)
	}
	if welcome["room_id"].(float64) != 1 || welcome["active_users"].(float64) != 1 {
		t.Fatalf("welcome = %v", welcome)
	}
	pres := readEvent(t, conn)
	if pres["type"] != TypePresence || pres["active_users"].(float64) != 1 {
		t.Fatalf("event after welcome = %v, want presence for 1", pres)
	}

	// a second participant triggers a presence update for the first
	conn2 := env.dial(t, "/ws/rooms/1?token=tok-bob")
	readUntil(t, conn2, TypeWelcome)

	pres = readUntil(t, conn, TypePresence)
	if pres["active_users"].(float64) != 2 {
		t.Fatalf("presence = %v", pres)
	}

	// disconnect drops the count back down
	_ = conn2.Close()
	deadline := time.Now().Add(2 * time.Second)
	for {
		pres = readUntil(t, conn, TypePresence)
		if pres["active_users"].(float64) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("presence never returned to 1: %v", pres)
		}
	}
}

func TestWS_EmptyContentIsTransient(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/rooms/1?token=tok-alice")
	readUntil(t, conn, TypeWelcome)

	sendContent(t, conn, "   ")
	ev := readUntil(t, conn, TypeError)
	if ev["message"] != MsgEmpty {
		t.Fatalf("error = %v", ev)
	}

	// the connection survives and keeps working
	sendContent(t, conn, "hello")
	chat := readUntil(t, conn, TypeChatMessage)
	if chat["content"] != "hello" || chat["username"] != "alice" {
		t.Fatalf("chat event = %v", chat)
	}
}

func TestWS_ChatMessageFansOut(t *testing.T) {
	env := newTestEnv(t)
	alice := env.dial(t, "/ws/rooms/1?token=tok-alice")
	readUntil(t, alice, TypeWelcome)
	bob := env.dial(t, "/ws/rooms/1?token=tok-bob")
	readUntil(t, bob, TypeWelcome)

	sendContent(t, alice, "anyone watching?")

	for _, conn := range []*websocket.Conn{alice, bob} {
		ev := readUntil(t, conn, TypeChatMessage)
		if ev["content"] != "anyone watching?" || ev["username"] != "alice" {
			t.Fatalf("chat event = %v", ev)
		}
	}
}

func TestWS_MentionDeliversBotReply(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "/ws/rooms/1?token=tok-alice")
	readUntil(t, conn, TypeWelcome)

	sendContent(t, conn, "!footy who won the league")

	human := readUntil(t, conn, TypeChatMessage)
	if human["is_bot"] == true {
		t.Fatalf("first event should be the human message: %v", human)
	}
	botEv := readUntil(t, conn, TypeChatMessage)
	if botEv["is_bot"] != true || botEv["content"] != "bot says hi" {
		t.Fatalf("bot event = %v", botEv)
	}
}
