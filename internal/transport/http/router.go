package http

import (
	"net/http"
	"time"

	"github.com/footysocial/chat-service/internal/identity"
	httpmw "github.com/footysocial/chat-service/internal/transport/http/middleware"
	"github.com/footysocial/chat-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, verifier identity.Verifier, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(httpmw.RequestLogger)

	// websocket endpoints authenticate via the token query parameter inside
	// the session protocol
	r.Get("/ws/rooms/{id}", wsServer.HandleRoomWS)
	r.Get("/ws/fixtures/{id}", wsServer.HandleFixtureWS)

	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.Auth(verifier))
		pr.Use(chimw.Timeout(30 * time.Second))

		pr.Route("/rooms", func(rm chi.Router) {
			rm.Get("/", h.ListRooms)
			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetRoom)
				rr.Get("/messages", h.GetMessages)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
