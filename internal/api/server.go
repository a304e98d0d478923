// Package api exposes the supply pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/quizsupply/internal/corpus"
	"github.com/abhisek/quizsupply/internal/supply"
)

// maxRequestBytes caps a supply request body. Exclusion lists are the only
// part that grows, and 1 MiB holds thousands of signatures.
const maxRequestBytes = 1 << 20

// Config configures the HTTP surface.
type Config struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	ThinThreshold  int
}

// DefaultConfig returns permissive CORS and a 30s request timeout.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		RequestTimeout: 30 * time.Second,
		ThinThreshold:  corpus.DefaultThinThreshold,
	}
}

// Server ties HTTP routes to a Supplier and the live corpus.
type Server struct {
	supplier supply.Supplier
	corpus   *corpus.Live
	config   Config
}

// New creates a Server. A nil corpus reports empty coverage.
func New(s supply.Supplier, c *corpus.Live, cfg Config) *Server {
	if c == nil {
		c = corpus.NewLive(nil)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = DefaultConfig().AllowedOrigins
	}
	return &Server{supplier: s, corpus: c, config: cfg}
}

// Routes returns the router with middleware installed.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/supply", s.Supply)
		r.Get("/corpus/stats", s.CorpusStats)
	})
	return r
}

// ListenAndServe serves Routes on addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// supplyResponse adds the learner-facing notice to a Result.
type supplyResponse struct {
	*supply.Result
	Notice string `json:"notice,omitempty"`
}

// Supply runs one supply request.
func (s *Server) Supply(w http.ResponseWriter, r *http.Request) {
	var raw supply.RawRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, errorBody{Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
			return
		}
		respondError(w, http.StatusBadRequest, errorBody{Error: "bad json: " + err.Error()})
		return
	}
	req, err := supply.ParseRequest(raw)
	if err != nil {
		s.supplyError(w, err)
		return
	}
	res, err := s.supplier.Supply(r.Context(), req)
	if err != nil {
		s.supplyError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, supplyResponse{Result: res, Notice: res.Notice()})
}

type errorBody struct {
	Error       string              `json:"error"`
	Message     string              `json:"message,omitempty"`
	Field       string              `json:"field,omitempty"`
	Combination *supply.Combination `json:"combination,omitempty"`
	Accepted    *int                `json:"accepted,omitempty"`
	Minimum     *int                `json:"minimum,omitempty"`
	Details     []string            `json:"details,omitempty"`
}

func (s *Server) supplyError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error(), Message: supply.UserMessage(err)}

	var reqErr *supply.RequestError
	var crit *supply.CriticalSupplyError
	switch {
	case errors.As(err, &reqErr):
		body.Field = reqErr.Field
		respondError(w, http.StatusBadRequest, body)
	case errors.As(err, &crit):
		c := crit.Combination
		body.Combination = &c
		body.Accepted = &crit.Accepted
		body.Minimum = &crit.Minimum
		body.Details = crit.Details()
		respondError(w, http.StatusServiceUnavailable, body)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, body)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		w.WriteHeader(499)
	default:
		fmt.Fprintf(os.Stderr, "warning: supply failed: %v\n", err)
		respondError(w, http.StatusInternalServerError, body)
	}
}

type statsResponse struct {
	Summary  corpus.Summary    `json:"summary"`
	Coverage []corpus.Coverage `json:"coverage"`
}

// CorpusStats reports per-combination record counts. With ?thin=true only
// thin combinations are listed; the summary always covers all of them.
func (s *Server) CorpusStats(w http.ResponseWriter, r *http.Request) {
	cov := s.corpus.Snapshot().Coverage(s.config.ThinThreshold)
	out := statsResponse{Summary: corpus.Summarize(cov), Coverage: cov}
	if r.URL.Query().Get("thin") == "true" {
		thin := make([]corpus.Coverage, 0, len(cov))
		for _, c := range cov {
			if c.Thin {
				thin = append(thin, c)
			}
		}
		out.Coverage = thin
	}
	respondJSON(w, http.StatusOK, out)
}

// Health reports liveness and the loaded corpus size.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"questions": s.corpus.Snapshot().Len(),
	})
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, body errorBody) {
	respondJSON(w, code, body)
}
