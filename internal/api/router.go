package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/heliomed/nearbycare/internal/config"
	"github.com/heliomed/nearbycare/internal/service"
	"github.com/heliomed/nearbycare/internal/stats"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(
	service service.ServiceInterface,
	recorder SearchRecorder,
	statsCollector *stats.Collector,
	cfg config.ServerConfig,
	logger *zap.Logger,
) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(service, recorder, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxies)

	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(limiter.Middleware)
	v1.HandleFunc("/pharmacies/nearby", handler.NearbyLocations).Methods("GET")
	v1.HandleFunc("/searches/recent", handler.RecentSearches).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return withCORSAndRecovery(router, cfg.CORSOrigins, logger)
}
