package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/modfsm/internal/presentation/graph"
	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/aretw0/modfsm/pkg/modulo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxJSONBody bounds POST /remainder bodies; larger inputs go through
// POST /remainder/stream.
const maxJSONBody = 1 << 20

// Engine defines what the HTTP server needs from the modfsm engine.
type Engine interface {
	Construct(ctx context.Context, modulus int) (*modulo.Automaton, error)
	ModulusOf(ctx context.Context, modulus int, input string) (int, error)
	ModulusOfReader(ctx context.Context, modulus int, r io.Reader) (int, error)
}

// RemainderRequest is the body of POST /remainder.
type RemainderRequest struct {
	Modulus int    `json:"modulus"`
	Input   string `json:"input"`
}

// RemainderResponse is returned by both remainder endpoints.
type RemainderResponse struct {
	Modulus   int `json:"modulus"`
	Remainder int `json:"remainder"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Server serves the modfsm JSON API.
type Server struct {
	Engine Engine
	Logger *slog.Logger
}

// NewHandler creates a new HTTP handler for the engine. Extra routes (such
// as /metrics) can be mounted through mount.
func NewHandler(engine Engine, logger *slog.Logger, mount func(chi.Router)) http.Handler {
	s := &Server{Engine: engine, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/remainder", s.Remainder)
	r.Post("/remainder/stream", s.RemainderStream)
	r.Get("/automata/{modulus}", s.Automaton)
	r.Get("/automata/{modulus}/graph", s.Graph)

	if mount != nil {
		mount(r)
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Remainder handles POST /remainder.
func (s *Server) Remainder(w http.ResponseWriter, r *http.Request) {
	var body RemainderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "request"})
		return
	}

	rem, err := s.Engine.ModulusOf(r.Context(), body.Modulus, body.Input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RemainderResponse{Modulus: body.Modulus, Remainder: rem})
}

// RemainderStream handles POST /remainder/stream?modulus=N with the raw
// digits as body.
func (s *Server) RemainderStream(w http.ResponseWriter, r *http.Request) {
	modulus, err := strconv.Atoi(r.URL.Query().Get("modulus"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "modulus query parameter must be an integer", Kind: "request"})
		return
	}

	rem, err := s.Engine.ModulusOfReader(r.Context(), modulus, r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RemainderResponse{Modulus: modulus, Remainder: rem})
}

// Automaton handles GET /automata/{modulus}.
func (s *Server) Automaton(w http.ResponseWriter, r *http.Request) {
	a, ok := s.automaton(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.Definition())
}

// Graph handles GET /automata/{modulus}/graph, optionally overlaying the
// path taken by ?input=.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	a, ok := s.automaton(w, r)
	if !ok {
		return
	}

	var overlay *graph.GraphOverlay
	if input := r.URL.Query().Get("input"); input != "" {
		path, err := a.Trace(input)
		if err != nil {
			s.writeError(w, err)
			return
		}
		states := make([]domain.State, len(path))
		for i, p := range path {
			states[i] = domain.State(p)
		}
		overlay = graph.OverlayFromPath(states)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, graph.GenerateMermaid(a.Definition(), overlay))
}

func (s *Server) automaton(w http.ResponseWriter, r *http.Request) (*modulo.Automaton, bool) {
	modulus, err := strconv.Atoi(chi.URLParam(r, "modulus"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "modulus must be an integer", Kind: "request"})
		return nil, false
	}
	a, err := s.Engine.Construct(r.Context(), modulus)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return a, true
}

// writeError maps the error kind to a status code. Configuration errors are
// defects and reported as 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid_input"})
	case errors.Is(err, domain.ErrConfiguration):
		s.Logger.Error("automaton is malformed", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Kind: "configuration"})
	case errors.Is(err, context.Canceled):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Kind: "canceled"})
	default:
		s.Logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Kind: "internal"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
