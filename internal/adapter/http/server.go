package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pulse is the orchestrator surface exposed over HTTP.
type Pulse interface {
	sharedobs.ReadinessChecker
	State() pipeline.State
	Select(regionID string) error
	Refresh() bool
	Fetch(ctx context.Context, regionID string) (domain.NarrativeRecord, error)
}

// Server exposes the region API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	pulse      Pulse
	logger     *slog.Logger
}

// NewServer creates an HTTP server. allowedOrigins configures CORS for the
// browser shell.
func NewServer(addr string, pulse Pulse, allowedOrigins []string, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		pulse:  pulse,
		logger: logger,
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(pulse))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/regions", s.handleRegions)
		api.Get("/regions/{id}/narrative", s.handleRegionNarrative)
		api.Get("/state", s.handleState)
		api.Put("/selection", s.handleSelect)
		api.Post("/refresh", s.handleRefresh)
		api.Get("/view", s.handleView)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, domain.Regions())
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.pulse.State())
}

type selectRequest struct {
	RegionID string `json:"region_id"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RegionID == "" {
		writeError(w, http.StatusBadRequest, "body must be {\"region_id\": \"...\"}")
		return
	}
	if err := s.pulse.Select(req.RegionID); err != nil {
		if errors.Is(err, pipeline.ErrUnknownRegion) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("select region failed", "region_id", req.RegionID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, s.pulse.State())
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if !s.pulse.Refresh() {
		writeError(w, http.StatusConflict, "no region selected")
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "refresh requested"})
}

type viewResponse struct {
	Phase    pipeline.Phase `json:"phase"`
	RegionID string         `json:"region_id,omitempty"`
	Error    string         `json:"error,omitempty"`
	NotFound bool           `json:"not_found"`
	View     *domain.View   `json:"view,omitempty"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	hideEmpty, ok := parseHideEmpty(w, r)
	if !ok {
		return
	}

	st := s.pulse.State()
	resp := viewResponse{
		Phase:    st.Phase,
		RegionID: st.RegionID,
		Error:    st.Error,
		NotFound: st.NotFound,
	}
	if st.Record != nil {
		v := domain.BuildView(*st.Record, st.RecordRegionID, hideEmpty)
		resp.View = &v
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

type narrativeResponse struct {
	Record domain.NarrativeRecord `json:"record"`
	View   domain.View            `json:"view"`
}

func (s *Server) handleRegionNarrative(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "id")
	if _, ok := domain.LookupRegion(regionID); !ok {
		writeError(w, http.StatusNotFound, "unknown region")
		return
	}
	hideEmpty, ok := parseHideEmpty(w, r)
	if !ok {
		return
	}

	record, err := s.pulse.Fetch(r.Context(), regionID)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case domain.IsNotFound(err):
			status = http.StatusNotFound
		case domain.IsTimeout(err):
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, domain.UserMessage(err))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, narrativeResponse{
		Record: record,
		View:   domain.BuildView(record, regionID, hideEmpty),
	})
}

func parseHideEmpty(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("hide_empty")
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "hide_empty must be a boolean")
		return false, false
	}
	return v, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
