package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"studyHubAPI/handlers"
	"studyHubAPI/internal/cache"
	"studyHubAPI/internal/config"
	"studyHubAPI/internal/database"
	"studyHubAPI/middleware"
	"studyHubAPI/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if _, err := services.NewChallengeService(pool, nil).ImportLegacyParticipants(cmd.Context()); err != nil {
				return fmt.Errorf("failed to import legacy participants: %w", err)
			}
			log.Println("Migration complete")
			return nil
		},
	}

	root := &cobra.Command{
		Use:          "studyhub",
		Short:        "StudyHub API server",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, migrate)
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connect opens the pool and applies the schema.
func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return pool, nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbPool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	leaderboardCache, err := cache.Connect(ctx, cfg.RedisURL, cfg.LeaderboardCacheTTL)
	if err != nil {
		log.Printf("Warning: leaderboard cache disabled: %v", err)
		leaderboardCache = nil
	} else if leaderboardCache != nil {
		log.Println("Leaderboard cache connected")
		defer leaderboardCache.Close()
	}

	middleware.InitPrometheus(services.Collectors()...)

	userService := services.NewUserService(dbPool)
	goalService := services.NewGoalService(dbPool)
	challengeService := services.NewChallengeService(dbPool, leaderboardCache)
	focusService := services.NewFocusService(dbPool)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go limiter.CleanupVisitors(sweepCtx)

	r := newRouter(routes{
		health:    handlers.NewHealthHandler(dbPool),
		user:      handlers.NewUserHandler(userService),
		goal:      handlers.NewGoalHandler(goalService),
		challenge: handlers.NewChallengeHandler(challengeService),
		focus:     handlers.NewFocusHandler(focusService),
	}, cfg, limiter)

	server := http.Server{
		Addr:         cfg.Addr(),
		Handler:      wrapServer(r, cfg),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Println("Got signal:", sig)
	case err := <-serverErr:
		return fmt.Errorf("error starting server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
	return nil
}
