package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/skipmark/skipmark-server/internal/api/http"
	"github.com/skipmark/skipmark-server/internal/cache"
	"github.com/skipmark/skipmark-server/internal/config"
	"github.com/skipmark/skipmark-server/internal/health"
	"github.com/skipmark/skipmark-server/internal/identity"
	"github.com/skipmark/skipmark-server/internal/platform/logger"
	"github.com/skipmark/skipmark-server/internal/services"
	"github.com/skipmark/skipmark-server/internal/store"
	"github.com/skipmark/skipmark-server/internal/store/postgres"
	"github.com/skipmark/skipmark-server/internal/store/sqlite"
)

func main() {
	// Optional driver flag override (postgres | sqlite)
	dbDriver := flag.String("db-driver", "", "Override SKIPMARK_DB_DRIVER (postgres, sqlite)")
	flag.Parse()

	log := logger.New("skipmark-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Skipmark service starting…")

	// -------- Store layer ------------------
	ctx := context.Background()
	var dataStore store.Store
	switch cfg.DBDriver {
	case "postgres":
		primary, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Postgres unavailable")
		}
		var replica *sql.DB
		if cfg.PostgresReplicaDSN != "" {
			replica, err = postgres.Open(cfg.PostgresReplicaDSN)
			if err != nil {
				log.Fatal().Err(err).Msg("Postgres replica unavailable")
			}
		}
		dataStore = postgres.NewWithDB(primary, replica)
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("SQLite unavailable")
		}
		dataStore = sqlite.NewWithDB(db)
	}

	// -------- Collaborators ----------------
	diskCache := cache.New(cfg.DiskCacheURL, log)
	hasher := identity.NewHasher(diskCache)

	userInfoSvc := services.NewUserInfoService(
		dataStore, hasher, services.StaticReputation(0), services.OpenSubmissions{},
		cfg.CategoryList, cfg.MaxRewardTimeSeconds, log)
	lockSvc := services.NewLockReasonService(dataStore, cfg.CategoryList, log)

	// -------- Health monitor ---------------
	pinger, _ := dataStore.(health.HealthPinger)
	monitor := health.NewMonitor(pinger, log)
	monitor.Start(ctx, 30*time.Second)

	// -------- Router & Server --------------
	router := httpapi.NewRouter(
		httpapi.NewUserInfoHandler(userInfoSvc),
		httpapi.NewLockReasonHandler(lockSvc),
		httpapi.NewHealthHandler(monitor))

	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
