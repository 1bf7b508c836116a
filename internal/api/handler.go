package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/heliomed/nearbycare/internal/model"
	"github.com/heliomed/nearbycare/internal/service"
	"go.uber.org/zap"
)

const (
	defaultTypes       = "pharmacy,hospital,clinic"
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// SearchRecorder stores and lists finished searches
type SearchRecorder interface {
	Record(ctx context.Context, req model.SearchRequest, resp *model.SearchResponse, err error, elapsed time.Duration)
	List(ctx context.Context, limit int) ([]model.SearchRecord, error)
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)
}

// Handler handles HTTP requests
type Handler struct {
	service  service.ServiceInterface
	recorder SearchRecorder
	logger   *zap.Logger
}

// NewHandler creates a new handler instance. recorder may be nil.
func NewHandler(service service.ServiceInterface, recorder SearchRecorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, recorder: recorder, logger: logger}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// NearbyLocations handles GET /api/v1/pharmacies/nearby
func (h *Handler) NearbyLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := model.SearchRequest{Zipcode: strings.TrimSpace(q.Get("zipcode"))}

	if req.Zipcode != "" && !service.ValidZipcode(req.Zipcode) {
		h.writeError(w, http.StatusBadRequest, "Invalid Indian zipcode. Must be exactly 6 digits.")
		return
	}

	var err error
	if req.Lat, err = parseOptionalFloat(q.Get("lat")); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid lat parameter")
		return
	}
	if req.Lon, err = parseOptionalFloat(q.Get("lon")); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid lon parameter")
		return
	}
	if req.Zipcode == "" && (req.Lat == nil || req.Lon == nil) {
		h.writeError(w, http.StatusBadRequest, "Provide either a zipcode or both lat and lon.")
		return
	}

	req.Radius = model.DefaultRadiusM
	if radiusStr := q.Get("radius"); radiusStr != "" {
		req.Radius, err = strconv.Atoi(radiusStr)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid radius parameter")
			return
		}
	}
	if req.Radius < model.MinRadiusM || req.Radius > model.MaxRadiusM {
		h.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Radius must be between %d and %d meters.", model.MinRadiusM, model.MaxRadiusM))
		return
	}

	types := q.Get("types")
	if types == "" {
		types = defaultTypes
	}
	req.Types = allowedTypes(types)
	if len(req.Types) == 0 {
		h.writeError(w, http.StatusBadRequest, "Invalid types. Allowed: "+allowedList())
		return
	}

	start := time.Now()
	resp, err := h.service.FindNearby(r.Context(), req)
	if h.recorder != nil {
		h.recorder.Record(r.Context(), req, resp, err, time.Since(start))
	}

	if err != nil {
		kind := service.KindOf(err)
		if kind.IsClientError() {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Nearby locations lookup failed", zap.String("kind", string(kind)), zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "Failed to fetch nearby locations: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// RecentSearches handles GET /api/v1/searches/recent
func (h *Handler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		h.writeError(w, http.StatusNotFound, "search history is disabled")
		return
	}

	limit := defaultRecentLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			h.writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	records, err := h.recorder.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("Error listing searches", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	counts, err := h.recorder.CountByStatus(r.Context())
	if err != nil {
		h.logger.Error("Error counting searches", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	byStatus := make(map[model.SearchStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"searches":  records,
		"count":     len(records),
		"by_status": byStatus,
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	writeJSONError(w, status, detail)
}

// writeJSONError writes the {"detail": ...} error body used by every endpoint
func writeJSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Detail: detail})
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// allowedTypes splits a comma-separated list and keeps the allowed categories
func allowedTypes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		t := strings.ToLower(strings.TrimSpace(part))
		if _, ok := model.ParseCategory(t); ok {
			out = append(out, t)
		}
	}
	return out
}

func allowedList() string {
	names := make([]string, 0, 3)
	for _, c := range model.AllCategories() {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
