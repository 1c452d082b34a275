// Package api exposes the competition dashboard as JSON over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/calendar"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/dashboard"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/observability"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/persistence"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Handler coordinates HTTP requests with the dashboard service.
type Handler struct {
	service *dashboard.Service
}

// NewHandler builds a Handler.
func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/competition/weeks", h.weeks).Methods(http.MethodGet)
	v1.HandleFunc("/competition/current", h.current).Methods(http.MethodGet)
	v1.HandleFunc("/leaderboard", h.leaderboard).Methods(http.MethodGet)
	v1.HandleFunc("/weekly", h.weekly).Methods(http.MethodGet)
	v1.HandleFunc("/weekly/summary", h.weeklySummary).Methods(http.MethodGet)
	v1.HandleFunc("/streaks", h.streaks).Methods(http.MethodGet)
	v1.HandleFunc("/stats/cycling", h.cyclingStats).Methods(http.MethodGet)
	v1.HandleFunc("/stats/mileage", h.mileage).Methods(http.MethodGet)
	v1.HandleFunc("/stats/team", h.teamSummary).Methods(http.MethodGet)
	v1.HandleFunc("/stats/competition", h.competitionStats).Methods(http.MethodGet)
	v1.HandleFunc("/athletes/{athlete}/activities", h.athleteActivities).Methods(http.MethodGet)
	v1.HandleFunc("/cache/flush", h.flush).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
	})
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) weeks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WeeksResponse{Weeks: h.service.Weeks()})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CurrentWeek())
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	board, err := h.service.Leaderboard(r.Context(), rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Range: toRangeView(rng), Leaderboard: board})
}

func (h *Handler) weekly(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	week := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("week")); raw != "" {
		parsed, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(raw), "week "))
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "week must be a positive week number")
			return
		}
		week = parsed
	}
	rows, err := h.service.Weekly(r.Context(), rng, week)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Range: toRangeView(rng), Items: rows})
}

func (h *Handler) weeklySummary(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.service.WeeklySummary(r.Context(), rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Range: toRangeView(rng), Items: rows})
}

func (h *Handler) streaks(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	records, err := h.service.Streaks(r.Context(), rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Range: toRangeView(rng), Items: records})
}

func (h *Handler) cyclingStats(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	report, err := h.service.Cycling(r.Context(), rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) mileage(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.service.Mileage(r.Context(), rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Range: toRangeView(rng), Items: rows})
}

func (h *Handler) teamSummary(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.service.TeamSummary(r.Context(), rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Range: toRangeView(rng), Items: rows})
}

func (h *Handler) competitionStats(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	stats, err := h.service.CompetitionStats(r.Context(), rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) athleteActivities(w http.ResponseWriter, r *http.Request) {
	athlete := strings.TrimSpace(mux.Vars(r)["athlete"])
	if athlete == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing athlete")
		return
	}
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}

	limit := defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > maxPageSize {
				parsed = maxPageSize
			}
			limit = parsed
		}
	}
	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	page, err := h.service.Athlete(r.Context(), rng, athlete, cursor, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AthleteActivitiesResponse{
		Range:             toRangeView(rng),
		AthleteActivities: page,
		NextCursor:        persistence.EncodeCursor(page.Next),
	})
}

func (h *Handler) flush(w http.ResponseWriter, r *http.Request) {
	h.service.Refresh()
	observability.RecordCacheFlush(time.Now())
	w.WriteHeader(http.StatusNoContent)
}

// dateRange reads start and end, defaulting to the competition start and
// today. It writes a 400 and returns false when they are malformed or
// inverted.
func (h *Handler) dateRange(w http.ResponseWriter, r *http.Request) (domain.DateRange, bool) {
	rng := h.service.DefaultRange()
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("start")); raw != "" {
		parsed, err := calendar.ParseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "start must be YYYY-MM-DD")
			return domain.DateRange{}, false
		}
		rng.Start = parsed
	}
	if raw := strings.TrimSpace(q.Get("end")); raw != "" {
		parsed, err := calendar.ParseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "end must be YYYY-MM-DD")
			return domain.DateRange{}, false
		}
		rng.End = parsed
	}
	if err := rng.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return domain.DateRange{}, false
	}
	return rng, true
}

// RangeView echoes the resolved date range.
type RangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeksResponse lists competition weeks.
type WeeksResponse struct {
	Weeks []calendar.Week `json:"weeks"`
}

// LeaderboardResponse packages standings for a range.
type LeaderboardResponse struct {
	Range RangeView `json:"range"`
	dashboard.Leaderboard
}

// ItemsResponse packages a list computed over a range.
type ItemsResponse struct {
	Range RangeView `json:"range"`
	Items any       `json:"items"`
}

// AthleteActivitiesResponse is one page of an athlete's activities.
type AthleteActivitiesResponse struct {
	Range RangeView `json:"range"`
	dashboard.AthleteActivities
	NextCursor string `json:"next_cursor,omitempty"`
}

func toRangeView(r domain.DateRange) RangeView {
	return RangeView{Start: r.Start.Format(time.DateOnly), End: r.End.Format(time.DateOnly)}
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidRange) {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	log.Printf("api: store query failed: %v", err)
	writeError(w, http.StatusBadGateway, "store_unavailable", err.Error())
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
