package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/flight-tracker/internal/auth"
	"github.com/ayush/flight-tracker/internal/config"
	"github.com/ayush/flight-tracker/internal/flights"
	"github.com/ayush/flight-tracker/internal/logging"
	"github.com/ayush/flight-tracker/internal/server"
	"github.com/ayush/flight-tracker/internal/store"
	"github.com/ayush/flight-tracker/internal/watchlist"
	"github.com/ayush/flight-tracker/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	var (
		users      auth.UserStore
		watchlists watchlist.Store
		ping       func(context.Context) error
	)

	// ── Storage ──────────────────────────────────────────────
	if cfg.UserStore == "memory" {
		mem := store.NewMemoryStore()
		users, watchlists, ping = mem, mem, mem.Ping
		logging.Warn().Msg("using in-memory store; data is lost on restart")
	} else {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logging.Fatal().Err(err).Msg("mongo connect")
		}
		defer mongoClient.Disconnect(ctx)
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logging.Fatal().Err(err).Msg("mongo indexes")
		}
		users, watchlists, ping = mongoStore, mongoStore, mongoStore.Ping
	}

	// ── PostgreSQL (optional user backend) ───────────────────
	if cfg.UserStore == "postgres" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			logging.Fatal().Err(err).Msg("postgres connect")
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			logging.Fatal().Err(err).Msg("postgres migrate")
		}
		users = pgStore
	}

	// ── Redis (optional flight cache) ────────────────────────
	var cache flights.Cache
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()
		cache = store.NewRedisCache(rdb, "flights:", cfg.FlightCacheTTL)
	}

	// ── Frontend bundle ──────────────────────────────────────
	static := web.DirHandler(cfg.StaticDir)
	if cfg.MinioEndpoint != "" {
		minioStore, err := store.NewMinioStore(ctx, store.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("minio connect")
		}
		static = web.BucketHandler(minioStore)
	}

	// ── Services ─────────────────────────────────────────────
	if cfg.FlightAPIKey == "" {
		logging.Warn().Msg("AVIATIONSTACK_API_KEY is empty; flight searches will fail upstream")
	}
	router := server.NewRouter(server.Deps{
		Auth:          auth.NewService(users, []byte(cfg.JWTSecret), auth.TokenTTL),
		Watchlist:     watchlist.NewService(watchlists),
		Flights:       flights.NewClient(cfg.FlightAPIBaseURL, cfg.FlightAPIKey, cfg.FlightAPITimeout, cache),
		Static:        static,
		Ping:          ping,
		CORSOrigins:   server.SplitOrigins(cfg.CORSOrigin),
		AuthRateLimit: cfg.AuthRateLimit,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logging.Info().Str("port", cfg.Port).Str("user_store", cfg.UserStore).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
}
