package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"meetup-service/internal/cache"
	"meetup-service/internal/config"
	"meetup-service/internal/events"
	"meetup-service/internal/events/event_api"
	"meetup-service/internal/kafka"
	"meetup-service/internal/logger"
	"meetup-service/internal/mailer"
	"meetup-service/internal/rsvps"
	"meetup-service/internal/rsvps/qr"
	"meetup-service/internal/rsvps/rsvp_api"
	"meetup-service/internal/storage"
	"meetup-service/internal/utils"
)

// openStore builds the Store backend selected by STORAGE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.Store {
	switch cfg.Storage.Driver {
	case "memory":
		log.Info("DATABASE", "Using in-memory storage (state is lost on restart)")
		return storage.NewMemStorage()

	case "sqlite":
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to open sqlite: %v", err))
		}
		bunDB := bun.NewDB(sqldb, sqlitedialect.New())
		if err := storage.CreateSchema(ctx, bunDB); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to create sqlite schema: %v", err))
		}
		log.Info("DATABASE", fmt.Sprintf("✅ SQLite storage ready at %s", cfg.Storage.SQLitePath))
		return storage.NewBunStore(bunDB)

	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			log.Fatal("CONFIG", "POSTGRES_DSN not set")
		}

		var sqldb *sql.DB
		var err error
		maxRetries := 5
		for i := 0; i < maxRetries; i++ {
			log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
			sqldb, err = sql.Open("postgres", cfg.Storage.PostgresDSN)
			if err == nil {
				err = sqldb.Ping()
			}
			if err == nil {
				break
			}
			log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
			if i < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
		}
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
		}

		bunDB := bun.NewDB(sqldb, pgdialect.New())
		if err := storage.CreateSchema(ctx, bunDB); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to create postgres schema: %v", err))
		}
		log.Info("DATABASE", "✅ PostgreSQL connection successful")
		return storage.NewBunStore(bunDB)

	default:
		log.Fatal("CONFIG", fmt.Sprintf("Unknown STORAGE_DRIVER %q (want memory, sqlite or postgres)", cfg.Storage.Driver))
		return nil
	}
}

func healthHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.HealthCheck(); err != nil {
			utils.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting meetup service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	store := openStore(ctx, cfg, log)
	defer store.Close()

	eventService := events.NewEventService(store)
	eventService.Logger = log

	rsvpService := rsvps.NewRsvpService(store)
	rsvpService.Logger = log
	rsvpService.Mailer = mailer.New(cfg.Email)
	rsvpService.QR = qr.NewGenerator(os.Getenv("QR_SECRET_KEY"))

	// Redis response cache is optional; the service runs fine without it.
	var responseCache *cache.Cache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("CACHE", fmt.Sprintf("Redis unreachable at %s, caching disabled: %v", cfg.Redis.Addr, err))
		} else {
			log.Info("CACHE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
			responseCache = cache.New(redisClient, cfg.Redis.TTL, log)
			eventService.Cache = responseCache
			rsvpService.Cache = responseCache
			defer redisClient.Close()
		}
	}

	// Kafka domain event stream is optional and best-effort.
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.Topics()); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		eventService.Producer = producer
		rsvpService.Producer = producer
		defer producer.Close()
	}

	eventHandler := event_api.NewHandler(eventService, responseCache, log)
	rsvpHandler := rsvp_api.NewHandler(rsvpService, log)

	log.Info("HTTP", "Setting up router")
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler(store))
		r.Get("/stats", eventHandler.GetStats)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.Post("/", eventHandler.CreateEvent)
			r.Get("/search/{query}", eventHandler.SearchEvents)
			r.Get("/{eventID}", eventHandler.GetEvent)
			r.Patch("/{eventID}", eventHandler.UpdateEvent)
			r.Delete("/{eventID}", eventHandler.DeleteEvent)
			r.Get("/{eventID}/rsvps", rsvpHandler.ListRsvpsByEvent)
		})
		log.Info("ROUTER", "Event routes registered under /api/events")

		r.Route("/rsvps", func(r chi.Router) {
			r.Post("/", rsvpHandler.CreateRsvp)
			r.Delete("/{rsvpID}", rsvpHandler.DeleteRsvp)
			r.Get("/{rsvpID}/qr", rsvpHandler.GetRsvpQR)
		})
		log.Info("ROUTER", "RSVP routes registered under /api/rsvps")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Meetup service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Meetup service shutdown complete")
	}
}
