package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"sync"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the part of arbor.Engine the server needs.
type Engine interface {
	Render(ctx context.Context, name string, vars map[string]any) (*arbor.Root, error)
	Names() []string
	Stats() domain.Stats
}

// Server renders named blueprints over HTTP.
type Server struct {
	Engine   Engine
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	// Cache, when set, serves repeated html renders without a pass.
	Cache ports.ViewCache

	// The engine's html factory is not safe for concurrent passes.
	mu sync.Mutex
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer exposes g on /metrics. Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithCache caches html renders keyed by view name and query.
func WithCache(cache ports.ViewCache) Option {
	return func(s *Server) {
		s.Cache = cache
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/healthz", server.Health)
	r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/views", server.ListViews)
	r.Get("/views/{name}", server.RenderView)
	r.Get("/views/{name}/tree", server.ViewTree)
	if server.Cache != nil {
		r.Delete("/cache", server.PurgeCache)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// ListViews handles GET /views.
func (s *Server) ListViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"views": s.Engine.Names()})
}

// RenderView handles GET /views/{name}. Query parameters become the view context;
// a parameter given more than once becomes a list.
func (s *Server) RenderView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	asJSON := r.URL.Query().Get("format") == "json"

	var key string
	if s.Cache != nil && !asJSON {
		key = cacheKey(name, r.URL.Query())
		html, ok, err := s.Cache.Get(r.Context(), key)
		if err != nil {
			s.Logger.Warn("Cache read failed", "view", name, "error", err)
		} else if ok {
			w.Header().Set("X-Cache", "HIT")
			writeHTML(w, html)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.Engine.Stats()
	root, err := s.Engine.Render(r.Context(), name, queryContext(r))
	if err != nil {
		s.fail(w, "Render", name, err)
		return
	}
	defer s.release(r.Context(), root, name)

	pass := s.Engine.Stats().Sub(before)
	html, err := root.HTML()
	if err != nil {
		s.fail(w, "Serialize", name, err)
		return
	}

	if asJSON {
		writeJSON(w, http.StatusOK, map[string]any{
			"name":  name,
			"html":  html,
			"stats": pass,
		})
		return
	}
	if key != "" {
		if err := s.Cache.Set(r.Context(), key, html); err != nil {
			s.Logger.Warn("Cache write failed", "view", name, "error", err)
		}
		w.Header().Set("X-Cache", "MISS")
	}
	writeHTML(w, html)
}

// PurgeCache handles DELETE /cache.
func (s *Server) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if err := s.Cache.Purge(r.Context()); err != nil {
		s.Logger.Error("Cache purge failed", "error", err)
		http.Error(w, fmt.Sprintf("Purge error: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ViewTree handles GET /views/{name}/tree. format=mermaid returns a Mermaid graph,
// format=markdown an outline, anything else the JSON tree.
func (s *Server) ViewTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.Engine.Stats()
	root, err := s.Engine.Render(r.Context(), name, queryContext(r))
	if err != nil {
		s.fail(w, "Inspect", name, err)
		return
	}
	defer s.release(r.Context(), root, name)

	info := root.Inspect()
	switch r.URL.Query().Get("format") {
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(graph.GenerateMermaid(info, nil)))
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(graph.GenerateOutline(info)))
	default:
		writeJSON(w, http.StatusOK, info)
	}
}

func (s *Server) release(ctx context.Context, root *arbor.Root, name string) {
	if err := root.Destroy(ctx); err != nil {
		s.Logger.Error("Destroy failed", "view", name, "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op, name string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrUnknownBlueprint) {
		status = http.StatusNotFound
	} else {
		s.Logger.Error(op+" failed", "view", name, "error", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

func queryContext(r *http.Request) map[string]any {
	q := r.URL.Query()
	vars := make(map[string]any, len(q))
	for key, values := range q {
		if key == "format" {
			continue
		}
		if len(values) == 1 {
			vars[key] = values[0]
			continue
		}
		list := make([]any, len(values))
		for i, v := range values {
			list[i] = v
		}
		vars[key] = list
	}
	return vars
}

// cacheKey is stable across parameter order: url.Values.Encode sorts by key.
func cacheKey(name string, q url.Values) string {
	q = maps.Clone(q)
	delete(q, "format")
	return name + "?" + q.Encode()
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
