// Package server is a reference implementation of the automata backend.
// It keeps documents in memory and runs the pkg/fsm algorithms over them.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
	"github.com/ha1tch/fsm-canvas/pkg/fsm"
)

// MaxBodyBytes limits the size of an uploaded document.
const MaxBodyBytes = 1 << 20

// Server serves the automaton routes. The zero value is not usable; call New.
type Server struct {
	log    *slog.Logger
	router chi.Router

	mu     sync.RWMutex
	docs   map[int]codec.Document
	nextID int

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a server with an empty repository and its own metrics
// registry.
func New(opts ...Option) *Server {
	s := &Server{
		log:      slog.New(slog.DiscardHandler),
		docs:     make(map[int]codec.Document),
		nextID:   1,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsmcanvas_http_requests_total",
				Help: "Requests served, by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsmcanvas_http_request_duration_seconds",
				Help:    "Request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry.MustRegister(s.requests, s.duration)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/automaton", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleRead)
			r.Post("/recognize", s.handleRecognize)
			r.Post("/to_dfa", s.handleConvert)
			r.Get("/minimize", s.handleMinimize)
			r.Get("/type", s.handleType)
			r.Post("/equivalence/{other}", s.handleEquivalence)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Registry exposes the metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Put stores doc under a fresh id and returns it.
func (s *Server) Put(doc codec.Document) int {
	doc.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.docs[id] = doc
	return id
}

func (s *Server) get(id int) (codec.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// lookup resolves a URL parameter to a stored document, writing the error
// response itself when it fails.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, param string) (codec.Document, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid automaton id")
		return codec.Document{}, false
	}
	doc, ok := s.get(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "automaton not found")
		return codec.Document{}, false
	}
	return doc, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	out := make(map[string]codec.Document, len(s.docs))
	for id, doc := range s.docs {
		out[strconv.Itoa(id)] = doc
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	doc, _, err := codec.ParseJSON(body)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := codec.ToFSM(doc).Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"id": s.Put(doc)})
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r, "id")
	if !ok {
		return
	}
	accepted, err := codec.ToFSM(doc).Accepts(r.URL.Query().Get("input"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"recognized": accepted})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r, "id")
	if !ok {
		return
	}
	dfa := codec.ToFSM(doc).ToDFA()
	writeJSON(w, http.StatusCreated, map[string]int{"id": s.Put(codec.FromFSM(dfa))})
}

func (s *Server) handleMinimize(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r, "id")
	if !ok {
		return
	}
	minimal, err := codec.ToFSM(doc).Minimize()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fsm.ErrNotDeterministic) || errors.Is(err, fsm.ErrNoInitial) {
			status = http.StatusUnprocessableEntity
		}
		writeDetail(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, codec.FromFSM(minimal))
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]fsm.Type{"type": codec.ToFSM(doc).Classify()})
}

func (s *Server) handleEquivalence(w http.ResponseWriter, r *http.Request) {
	a, ok := s.lookup(w, r, "id")
	if !ok {
		return
	}
	b, ok := s.lookup(w, r, "other")
	if !ok {
		return
	}
	eq := fsm.Equivalent(codec.ToFSM(a), codec.ToFSM(b))
	writeJSON(w, http.StatusOK, map[string]bool{"equivalent": eq})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
