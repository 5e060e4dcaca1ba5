// Package httpapi serves the ranked candidate list and requalification
// verdicts to the dashboard. Read-only; the engine owns no wire protocol
// beyond this thin JSON surface.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/seanyjeong/stock-sub000/internal/config"
)

// Server is the read-only HTTP server over the engine's latest outputs.
type Server struct {
	router *mux.Router
	server *http.Server
	store  *Store
	cfg    config.ServerConfig
}

// NewServer wires routes over the store. gatherer feeds /metrics.
func NewServer(cfg config.ServerConfig, store *Store, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		router: mux.NewRouter(),
		store:  store,
		cfg:    cfg,
	}

	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(jsonContentTypeMiddleware)
	api.HandleFunc("/candidates", s.handleCandidates).Methods(http.MethodGet)
	api.HandleFunc("/requalify/{ticker}", s.handleVerdict).Methods(http.MethodGet)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving requests until Shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleCandidates serves the latest cycle's ranked list. ?limit= bounds
// the page, ?offset= drives the "show more" expansion.
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	cycle := s.store.Cycle()
	if cycle == nil {
		writeError(w, http.StatusServiceUnavailable, "no scan cycle completed yet")
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)
	entries := cycle.Ranked().Expand(offset, limit)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cycle_id":     cycle.CycleID,
		"generated_at": cycle.GeneratedAt,
		"total":        len(cycle.Entries),
		"offset":       offset,
		"entries":      entries,
	})
}

// handleVerdict serves the latest requalification verdict so the
// presentation layer can suppress stale recommendation cards.
func (s *Server) handleVerdict(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	v, ok := s.store.Verdict(ticker)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no verdict for %s", ticker))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	}
	if cycle := s.store.Cycle(); cycle != nil {
		status["last_cycle_id"] = cycle.CycleID
		status["last_cycle_at"] = cycle.GeneratedAt
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).Msg("request")
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, status, map[string]string{"error": msg})
}
