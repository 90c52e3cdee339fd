// Package api exposes the calculation chain over HTTP: positions, hour
// tables, translators, collective aggregation, window search, and the lunar
// oracle.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/alchm-dev/alchm-core/internal/alchemy"
	"github.com/alchm-dev/alchm-core/internal/astro"
	"github.com/alchm-dev/alchm-core/internal/collective"
	"github.com/alchm-dev/alchm-core/internal/config"
	"github.com/alchm-dev/alchm-core/internal/hours"
	"github.com/alchm-dev/alchm-core/internal/lunar"
	"github.com/alchm-dev/alchm-core/internal/models"
	"github.com/alchm-dev/alchm-core/internal/oracle"
	"github.com/alchm-dev/alchm-core/internal/season"
	"github.com/alchm-dev/alchm-core/internal/storage"
	"github.com/alchm-dev/alchm-core/internal/thermo"
)

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	calc      *astro.Calculator
	scheduler *hours.Scheduler
	searcher  *oracle.Searcher
	moon      *lunar.Oracle
	store     *storage.Storage
}

// NewServer creates a configured API server with all routes and middleware.
// store may be nil, in which case the history endpoints report unavailable.
func NewServer(cfg *config.Config, calc *astro.Calculator, scheduler *hours.Scheduler, searcher *oracle.Searcher, moon *lunar.Oracle, store *storage.Storage) *Server {
	s := &Server{
		cfg:       cfg,
		calc:      calc,
		scheduler: scheduler,
		searcher:  searcher,
		moon:      moon,
		store:     store,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server. The server shuts down gracefully
// when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.Timeout,
		WriteTimeout: s.cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.Timeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Positions and natal charts
		r.Get("/positions", s.handlePositions)
		r.Post("/natal", s.handleNatal)

		// Planetary hours
		r.Get("/hours", s.handleHours)
		r.Get("/hours/current", s.handleCurrentHour)

		// Translators
		r.Post("/thermodynamics", s.handleThermodynamics)
		r.Post("/quantities", s.handleQuantities)

		// Collective aggregation
		r.Post("/collective", s.handleCollective)

		// Transmutation windows
		r.Get("/windows", s.handleWindows)

		// Lunar oracle and season
		r.Get("/lunar", s.handleLunar)
		r.Get("/season", s.handleSeason)

		// Persisted history analysis
		r.Get("/wellness", s.handleWellness)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// QuantitiesRequest is the body for POST /api/v1/quantities.
type QuantitiesRequest struct {
	Elements models.ElementalProfile `json:"elements"`
	Kinetic  float64                 `json:"kinetic"`
	Thermal  float64                 `json:"thermal"`
	Density  *float64                `json:"density,omitempty"`
	Ruler    models.Planet           `json:"hour_ruler"`
}

// CollectiveRequest is the body for POST /api/v1/collective.
type CollectiveRequest struct {
	Snapshots []collective.Snapshot `json:"snapshots"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	system := s.cfg.ZodiacSystem()
	if q := r.URL.Query().Get("system"); q != "" {
		system = models.ZodiacSystem(q)
	}

	set, err := s.calc.Positions(now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute(), system)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: set})
}

func (s *Server) handleNatal(w http.ResponseWriter, r *http.Request) {
	var chart models.BirthChart
	if err := json.NewDecoder(r.Body).Decode(&chart); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, err := s.calc.NatalQuantities(chart, s.cfg.ZodiacSystem())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: profile})
}

func (s *Server) handleHours(w http.ResponseWriter, r *http.Request) {
	lat, lon := s.coordinates(r)
	table, err := s.scheduler.TableFor(time.Now().UTC(), lat, lon)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: table})
}

func (s *Server) handleCurrentHour(w http.ResponseWriter, r *http.Request) {
	lat, lon := s.coordinates(r)
	hour, err := s.scheduler.HourAt(time.Now().UTC(), lat, lon)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: hour})
}

func (s *Server) handleThermodynamics(w http.ResponseWriter, r *http.Request) {
	var elements models.ElementalProfile
	if err := json.NewDecoder(r.Body).Decode(&elements); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: thermo.Translate(elements)})
}

func (s *Server) handleQuantities(w http.ResponseWriter, r *http.Request) {
	var req QuantitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	density := alchemy.DefaultDensity
	if req.Density != nil {
		density = *req.Density
	}
	q := alchemy.QuantitiesWithDensity(req.Elements, req.Kinetic, req.Thermal, density, req.Ruler)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: q})
}

func (s *Server) handleCollective(w http.ResponseWriter, r *http.Request) {
	var req CollectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, err := collective.Aggregate(req.Snapshots)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: profile})
}

func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	imbalance := models.ImbalanceCategory(r.URL.Query().Get("imbalance"))
	days := s.cfg.Engine.HorizonDays
	if q := r.URL.Query().Get("days"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}
	lat, lon := s.coordinates(r)

	windows, err := s.searcher.Search(r.Context(), imbalance, lat, lon, days)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: windows})
}

func (s *Server) handleLunar(w http.ResponseWriter, r *http.Request) {
	days := s.cfg.Engine.HorizonDays
	if q := r.URL.Query().Get("days"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}
	windows, err := s.moon.OptimalWindows(days)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]interface{}{
		"phase":   lunar.PhaseAt(time.Now()),
		"windows": windows,
	}})
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]interface{}{
		"sign":    season.SignOf(now),
		"element": season.ElementOf(now),
		"boosts":  season.BoostsFor(now),
	}})
}

func (s *Server) handleWellness(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "history storage not configured")
		return
	}
	readings, err := s.store.RecentReadings(time.Now().Add(-7 * 24 * time.Hour))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	quantities := make([]models.AlchemicalQuantities, len(readings))
	for i, rd := range readings {
		quantities[i] = rd.Quantities
	}
	report, err := collective.AnalyzeBalance(quantities)
	if err != nil {
		writeError(w, http.StatusNotFound, "no recent readings to analyze")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

// coordinates resolves the lat/lon query parameters, falling back to the
// configured observer location.
func (s *Server) coordinates(r *http.Request) (float64, float64) {
	lat := s.cfg.Observer.Latitude
	lon := s.cfg.Observer.Longitude
	if q := r.URL.Query().Get("lat"); q != "" {
		if v, err := strconv.ParseFloat(q, 64); err == nil {
			lat = v
		}
	}
	if q := r.URL.Query().Get("lon"); q != "" {
		if v, err := strconv.ParseFloat(q, 64); err == nil {
			lon = v
		}
	}
	return lat, lon
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
