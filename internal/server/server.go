// Package server exposes generated descriptors over HTTP for previewing.
// Every request runs a fresh generation pass; nothing is written.
//
//	GET /healthz         liveness
//	GET /models          JSON list of table names
//	GET /models/{table}  rendered descriptor
//	GET /metrics         Prometheus metrics, when a recorder is set
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/koustreak/autoseq/internal/errs"
	"github.com/koustreak/autoseq/internal/generator"
	"github.com/koustreak/autoseq/internal/logger"
	"github.com/koustreak/autoseq/internal/metrics"
)

// Source produces the descriptors served. *generator.Generator satisfies it.
type Source interface {
	Generate(ctx context.Context) (*generator.Result, error)
}

type Server struct {
	source  Source
	log     *logger.Logger
	metrics *metrics.Recorder
	router  chi.Router
}

// New builds the router. rec may be nil, in which case /metrics answers 404.
func New(source Source, log *logger.Logger, rec *metrics.Recorder) *Server {
	if log == nil {
		log = logger.Default()
	}
	s := &Server{source: source, log: log, metrics: rec}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/models", s.listModels)
	r.Get("/models/{table}", s.getModel)
	r.Method(http.MethodGet, "/metrics", rec.Handler())

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoWith("preview server listening", map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errs.Wrap(errs.ErrKindConnectionFailed, "preview server failed", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "preview server shutdown", err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type modelsResponse struct {
	Tables []string `json:"tables"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	res, err := s.source.Generate(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, modelsResponse{Tables: res.Tables})
}

func (s *Server) getModel(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	res, err := s.source.Generate(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	content, ok := res.Models[table]
	if !ok {
		s.fail(w, r, errs.Newf(errs.ErrKindNotFound, "table %q", table))
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorWith("preview request failed", err, map[string]any{
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
		})
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: errs.KindOf(err).String()})
}

// statusFor maps an error kind to the HTTP status reported to clients.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindInvalidInput:
		return http.StatusBadRequest
	case errs.ErrKindPermissionDenied:
		return http.StatusForbidden
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrKindConnectionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Logger().
			Debugf("served in %s", time.Since(start))
	})
}
