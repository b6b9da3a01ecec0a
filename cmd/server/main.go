package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coupengine/coup/internal/auth"
	"github.com/coupengine/coup/internal/config"
	"github.com/coupengine/coup/internal/handler"
	"github.com/coupengine/coup/internal/logger"
	"github.com/coupengine/coup/internal/middleware"
	"github.com/coupengine/coup/internal/repository/postgres"
	redisrepo "github.com/coupengine/coup/internal/repository/redis"
	"github.com/coupengine/coup/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Enable Redis keyspace notifications so TurnTimeoutListener hears
	// turn-deadline keys expire.
	if err := redisClient.Underlying().ConfigSet(context.Background(), "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to set Redis keyspace notifications (turn timeout may fall back to polling only)")
	}

	// Repos
	userRepo := postgres.NewUserRepo(db)
	matchRepo := postgres.NewMatchRepo(db)
	eventRepo := postgres.NewEventRepo(db)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)

	// WebSocket hub
	wsHub := handler.NewHub()
	matchBroadcaster := handler.NewMatchBroadcaster(wsHub, matchRepo)

	// Services
	matchSvc := service.NewMatchService(matchRepo, eventRepo, redisClient, userRepo, matchBroadcaster)
	turnTimeoutListener := service.NewTurnTimeoutListener(redisClient.Underlying(), matchSvc, matchRepo, redisClient)

	// Handlers
	authHandler := handler.NewAuthHandler(jwtMgr, userRepo)
	userHandler := handler.NewUserHandler(userRepo)
	matchHandler := handler.NewMatchHandler(matchSvc, matchRepo)
	actionHandler := handler.NewActionHandler(matchSvc, matchRepo)
	eventHandler := handler.NewEventHandler(eventRepo)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("GET /users/me", userHandler.GetMe)
	api.HandleFunc("PATCH /users/me", userHandler.UpdateMe)
	api.HandleFunc("GET /users/{id}", userHandler.GetUser)
	api.HandleFunc("POST /matches", matchHandler.CreateMatch)
	api.HandleFunc("GET /matches", matchHandler.ListMatches)
	api.HandleFunc("GET /matches/{id}", matchHandler.GetMatch)
	api.HandleFunc("GET /matches/{id}/view", matchHandler.GetMyView)
	api.HandleFunc("POST /matches/{id}/join", matchHandler.JoinMatch)
	api.HandleFunc("POST /matches/{id}/join-bot", matchHandler.JoinMatchAsBot)
	api.HandleFunc("POST /matches/{id}/start", matchHandler.StartMatch)
	api.HandleFunc("DELETE /matches/{id}", matchHandler.DeleteMatch)
	api.HandleFunc("POST /matches/{id}/actions", actionHandler.SubmitAction)
	api.HandleFunc("GET /matches/{id}/events", eventHandler.ListEvents)
	api.HandleFunc("GET /matches/{id}/events/latest", eventHandler.LatestEvent)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start turn-timeout listener (force-plays a default action for any
	// seat that misses its deadline)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go turnTimeoutListener.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
