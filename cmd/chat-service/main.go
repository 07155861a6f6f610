package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/footysocial/chat-service/config"
	"github.com/footysocial/chat-service/internal/bot"
	"github.com/footysocial/chat-service/internal/domain"
	"github.com/footysocial/chat-service/internal/identity"
	"github.com/footysocial/chat-service/internal/moderation"
	"github.com/footysocial/chat-service/internal/postgres"
	"github.com/footysocial/chat-service/internal/service"
	httpx "github.com/footysocial/chat-service/internal/transport/http"
	"github.com/footysocial/chat-service/internal/transport/ws"
	"github.com/footysocial/chat-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		ApplicationName: cfg.Logging.Service,
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- repos ---
	roomRepo := postgres.NewRoomRepository(pool)
	msgRepo := postgres.NewMessageRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	fixtureRepo := postgres.NewFixtureRepository(pool)

	// --- WS hub (also serves as the presence source for REST) ---
	hub := ws.NewHub()

	// --- services ---
	roomSvc := service.NewRoomService(roomRepo, fixtureRepo, hub)
	if err := roomSvc.Provision(ctx); err != nil {
		log.Fatalf("provision rooms: %v", err)
	}
	filter := moderation.NewFilter(cfg.Moderation.Badwords, moderation.DefaultMask)
	chatSvc := service.NewChatService(msgRepo, filter)

	verifier := identity.NewJWTVerifier(cfg.Auth.Secret, cfg.Auth.Issuer, userRepo)

	// --- bot ---
	var botSvc ws.BotSvc
	if cfg.Bot.Enabled {
		gen := bot.NewOpenAIGenerator(cfg.Bot.APIKey, cfg.Bot.Model)
		botSvc = bot.NewResponder(cfg.Bot.Name, cfg.Bot.ContextWindow, cfg.BotTimeout(20*time.Second), gen)
		slog.Info("bot enabled", "name", cfg.Bot.Name, "model", cfg.Bot.Model)
	}
	botIdentity := &domain.User{ID: bot.SentinelUserID, Username: cfg.Bot.Name}

	// --- WS server ---
	pipeline := ws.NewPipeline(hub, chatSvc, botSvc, botIdentity)
	wsServer := ws.NewServer(hub, verifier, roomSvc, pipeline)

	// --- HTTP ---
	handler := httpx.NewHandler(roomSvc, chatSvc, hub)
	router := httpx.NewRouter(handler, verifier, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
