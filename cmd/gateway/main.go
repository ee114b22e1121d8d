package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	api "github.com/comrade-prep/comrade-backend/internal/api/http"
	"github.com/comrade-prep/comrade-backend/internal/auth"
	"github.com/comrade-prep/comrade-backend/internal/cache"
	"github.com/comrade-prep/comrade-backend/internal/config"
	"github.com/comrade-prep/comrade-backend/internal/db"
	"github.com/comrade-prep/comrade-backend/internal/grading"
	"github.com/comrade-prep/comrade-backend/internal/news"
	"github.com/comrade-prep/comrade-backend/internal/quiz"
	"github.com/comrade-prep/comrade-backend/internal/seed"
)

func main() {
	cfg := config.FromEnv()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Fatalf("bad TIME_ZONE %q: %v", cfg.TimeZone, err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	quizStore := quiz.NewSQLStore(dbh)
	newsStore := news.NewSQLStore(dbh)
	userStore := auth.NewSQLStore(dbh)

	// --- Digest cache (optional) ---
	var digestCache *cache.DigestCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		digestCache = cache.NewDigestCache(client, cfg.DigestCacheTTL)
	}

	// --- Services ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL)
	users := auth.NewUsers(userStore)
	quizSvc := quiz.NewService(quizStore, quizStore, grading.NewDefaultGrader(), loc)
	newsSvc := news.NewService(newsStore, digestCache, loc)

	if cfg.SeedDemoData {
		if err := seed.Demo(ctx, quizStore, newsStore, userStore); err != nil {
			log.Fatalf("seed demo data: %v", err)
		}
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	api.Mount(r, api.Deps{
		Auth:  authSvc,
		Users: users,
		Quiz:  quizSvc,
		News:  newsSvc,
	})

	log.Printf("gateway listening on %s (tz=%s, db=%s)", cfg.HTTPAddr, cfg.TimeZone, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("server: %v", err)
	}
}
