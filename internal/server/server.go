// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"timeline_stats/internal/logging"
	"timeline_stats/internal/timeline"
)

// KindPayloadTooLarge is reported when the body exceeds MaxUploadSize
const KindPayloadTooLarge = "payload_too_large"

// DefaultMaxUploadSize is used when Options.MaxUploadSize is not positive
const DefaultMaxUploadSize = 10 << 20

// Options configures a Server
type Options struct {
	Pipeline      timeline.Options
	MaxUploadSize int64

	// Registry receives the server metrics; a fresh one is created when nil
	Registry *prometheus.Registry
}

// Server handles analyze requests
type Server struct {
	opts     Options
	registry *prometheus.Registry
	metrics  *Metrics
	log      zerolog.Logger
	router   chi.Router
}

// New builds a server and its routes
func New(opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = DefaultMaxUploadSize
	}

	s := &Server{
		opts:     opts,
		registry: reg,
		metrics:  newMetrics(reg),
		log:      logging.With().Str("component", "server").Logger(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler { return s.router }

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)
	r.Post("/analyze", s.handleAnalyze)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

// analyzeResponse wraps a report with an id for correlating logs
type analyzeResponse struct {
	ID     string           `json:"id"`
	Report *timeline.Report `json:"report"`
}

// errorResponse is the body of every failed analyze request
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { s.metrics.duration.Observe(time.Since(start).Seconds()) }()

	body := http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.requests.WithLabelValues(KindPayloadTooLarge).Inc()
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Kind:    KindPayloadTooLarge,
				Message: err.Error(),
			})
			return
		}
		s.writeError(w, r, &timeline.Error{Kind: timeline.KindMalformedInput, Index: -1, Detail: "read body", Err: err})
		return
	}

	report, err := timeline.AnalyzeDocument(data, s.opts.Pipeline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := uuid.NewString()
	s.metrics.requests.WithLabelValues("ok").Inc()
	s.metrics.events.Add(float64(len(report.Session.Events)))
	s.metrics.continuous.Add(float64(len(report.Continuous.Values)))

	s.log.Debug().
		Str("id", id).
		Int("events", len(report.Session.Events)).
		Int("runs", len(report.Runs)).
		Bool("degenerate", report.Normalized.Degenerate).
		Msg("analyzed")

	writeJSON(w, http.StatusOK, analyzeResponse{ID: id, Report: report})
}

// writeError maps pipeline error kinds to status codes
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Kind: "internal", Message: err.Error()}
	status := http.StatusInternalServerError

	var perr *timeline.Error
	if errors.As(err, &perr) {
		resp.Kind = perr.Kind.String()
		resp.Field = perr.Field
		if perr.Index >= 0 {
			idx := perr.Index
			resp.Index = &idx
		}
		switch perr.Kind {
		case timeline.KindMalformedInput, timeline.KindUnparseableTimestamp:
			status = http.StatusBadRequest
		case timeline.KindOutOfRangeDuration:
			status = http.StatusUnprocessableEntity
		}
	}

	s.metrics.requests.WithLabelValues(resp.Kind).Inc()
	s.log.Warn().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("kind", resp.Kind).
		Err(err).
		Msg("analyze rejected")

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// requestLogger logs one line per request through zerolog
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
