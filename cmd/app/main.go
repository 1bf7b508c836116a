package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heliomed/nearbycare/internal/api"
	"github.com/heliomed/nearbycare/internal/config"
	"github.com/heliomed/nearbycare/internal/database"
	"github.com/heliomed/nearbycare/internal/geocode"
	"github.com/heliomed/nearbycare/internal/history"
	"github.com/heliomed/nearbycare/internal/overpass"
	"github.com/heliomed/nearbycare/internal/repository"
	"github.com/heliomed/nearbycare/internal/service"
	"github.com/heliomed/nearbycare/internal/stats"
	"github.com/heliomed/nearbycare/internal/upstream"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	geocoder := geocode.NewNominatimClient(geocode.Config{
		BaseURL:   cfg.Upstream.NominatimURL,
		Country:   cfg.Upstream.Country,
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.Upstream.GeocodeTimeout,
	})
	fetcher := overpass.NewClient(cfg.Upstream.OverpassURL, cfg.Upstream.UserAgent)

	svc := service.NewService(geocoder, fetcher, clientFactory(cfg.Upstream), logger)
	recorder := history.NewRecorder(repos.SearchHistory, logger)
	statsCollector := stats.NewCollector(db, cfg.DB)
	router := api.NewRouter(svc, recorder, statsCollector, cfg.Server, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg.Upstream),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("nominatim", cfg.Upstream.NominatimURL),
			zap.String("overpass", cfg.Upstream.OverpassURL),
			zap.Bool("reuse_connections", cfg.Upstream.ReuseConnections),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// writeTimeout leaves room for a full upstream timeout on both calls of a search
func writeTimeout(cfg config.UpstreamConfig) time.Duration {
	return cfg.GeocodeTimeout + cfg.RequestTimeout + 5*time.Second
}

func clientFactory(cfg config.UpstreamConfig) service.ClientFactory {
	if cfg.ReuseConnections {
		return service.SharedClient(upstream.NewHTTPClient(cfg.ConnectTimeout, cfg.RequestTimeout))
	}
	return service.PerSearchClients(cfg.ConnectTimeout, cfg.RequestTimeout)
}
