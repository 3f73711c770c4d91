package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matchkit/tourney/api/internal/config"
	"github.com/matchkit/tourney/api/internal/database"
	"github.com/matchkit/tourney/api/internal/handler"
	"github.com/matchkit/tourney/api/internal/middleware"
	"github.com/matchkit/tourney/api/internal/repository"
	"github.com/matchkit/tourney/api/internal/service"
	"github.com/matchkit/tourney/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize token codec
	codec := jwt.NewCodec([]byte(cfg.Auth.JWTSecret))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	accessRepo := repository.NewClubAccessRepository(db)
	tournamentRepo := repository.NewTournamentRepository(db)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		Codec:      codec,
		SessionTTL: cfg.Auth.SessionTTL,
	})

	resetService := service.NewPasswordResetService(service.PasswordResetServiceConfig{
		UserRepo: userRepo,
		Codec:    codec,
		ResetTTL: cfg.Auth.ResetTTL,
		// No delivery configured: the reset token is returned in-band.
	})

	clubService := service.NewClubService(service.ClubServiceConfig{
		ClubRepo:   clubRepo,
		AccessRepo: accessRepo,
		UserRepo:   userRepo,
	})

	tournamentService := service.NewTournamentService(tournamentRepo, clubRepo)

	// Initialize guard
	guard := middleware.NewGuard(middleware.GuardConfig{
		Verifier:    codec,
		Users:       userRepo,
		Access:      accessRepo,
		Tournaments: tournamentRepo,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100, // 100 requests per minute
		Window: time.Minute,
		Burst:  20, // Allow bursts up to 20
	})
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, resetService)
	clubHandler := handler.NewClubHandler(clubService)
	tournamentHandler := handler.NewTournamentHandler(tournamentService)

	// Create router and register routes
	mux := http.NewServeMux()
	prefix := cfg.Server.APIPrefix

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST "+prefix+"/token", authHandler.Token)
	mux.HandleFunc("POST "+prefix+"/auth/request-password-reset", authHandler.RequestPasswordReset)
	mux.HandleFunc("POST "+prefix+"/auth/reset-password", authHandler.ResetPassword)

	// Club endpoints
	mux.Handle("GET "+prefix+"/clubs", guard.Authenticate(http.HandlerFunc(clubHandler.List)))
	mux.Handle("POST "+prefix+"/clubs", guard.Authenticate(http.HandlerFunc(clubHandler.Create)))
	mux.Handle("PUT "+prefix+"/clubs/{clubId}", guard.ForClub(http.HandlerFunc(clubHandler.Update)))
	mux.Handle("DELETE "+prefix+"/clubs/{clubId}", guard.ForClub(http.HandlerFunc(clubHandler.Delete)))
	mux.Handle("GET "+prefix+"/clubs/{clubId}/collaborators", guard.ForClub(http.HandlerFunc(clubHandler.ListMembers)))
	mux.Handle("POST "+prefix+"/clubs/{clubId}/collaborators", guard.ForClub(http.HandlerFunc(clubHandler.AddCollaborator)))
	mux.Handle("DELETE "+prefix+"/clubs/{clubId}/collaborators/{userId}", guard.ForClub(http.HandlerFunc(clubHandler.RemoveCollaborator)))

	// Tournament endpoints
	mux.Handle("GET "+prefix+"/tournaments", guard.OrPublicDashboardBySlug(http.HandlerFunc(tournamentHandler.List)))
	mux.Handle("GET "+prefix+"/tournaments/{tournamentId}", guard.OrPublicDashboard(http.HandlerFunc(tournamentHandler.Get)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
