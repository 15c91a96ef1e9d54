package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/quizlink/quizlink/internal/auth"
	"github.com/quizlink/quizlink/internal/config"
	"github.com/quizlink/quizlink/internal/fallback"
	"github.com/quizlink/quizlink/internal/infra/memory"
	"github.com/quizlink/quizlink/internal/infra/postgres"
	redisinfra "github.com/quizlink/quizlink/internal/infra/redis"
	"github.com/quizlink/quizlink/internal/quiz"
	transport "github.com/quizlink/quizlink/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quizlink server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Without a Postgres URL everything runs in memory, which is enough
	// for local development.
	var store quiz.Store
	var users auth.UserStore
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		pg := postgres.NewStore(pool)
		store, users = pg, pg
	} else {
		mem := memory.NewStore()
		store, users = mem, mem
	}

	var sessions auth.SessionStore
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient)
	} else {
		sessions = memory.NewSessionStore()
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		log.Printf("auth.jwt_secret not set, using an insecure development secret")
		secret = "quizlink-dev-secret"
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)
	gateway := auth.NewGateway(users, sessions, []byte(secret), tokenTTL, cfg.Auth.BcryptCost)

	quizzes := quiz.NewService(store)

	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)
	var resolver transport.Resolver
	if redisClient != nil {
		resolver = redisinfra.NewResolverCache(redisClient, quizzes, cacheTTL)
	} else {
		resolver = memory.NewResolverCache(quizzes, cacheTTL)
	}

	var slot fallback.Slot
	if cfg.Fallback.SQLitePath != "" {
		sqlite, err := fallback.NewSQLiteSlot(cfg.Fallback.SQLitePath)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		slot = sqlite
	} else {
		slot = fallback.NewMemorySlot()
	}

	api := transport.NewAPI(gateway, quizzes, resolver, slot)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(api),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizlink on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
