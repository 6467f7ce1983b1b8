package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/api"
	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine defines the navigation operations exposed over HTTP.
// *waymark.Engine satisfies it.
type Engine interface {
	States() []domain.State
	Active() []string
	OpenState(ctx context.Context, name string) (bool, error)
	CloseState(ctx context.Context, name string) bool
	FindPaths(to string) (domain.Paths, error)
	Names(p domain.Path) []string
	Mermaid(path ...string) string
}

var _ Engine = (*waymark.Engine)(nil)

// Server serves the control API of one engine.
type Server struct {
	Engine   Engine
	Streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithStreams publishes the events broadcast by sm on GET /events.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithGatherer serves the metrics of g on GET /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger configures a logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// StateView is a state as listed by GET /states.
type StateView struct {
	domain.State
	Active bool `json:"active"`
}

// PathView is a path with its states named.
type PathView struct {
	States []string `json:"states"`
	Score  int      `json:"score"`
}

// OpenResponse is the body of POST /states/{name}/open.
type OpenResponse struct {
	Target string   `json:"target"`
	Opened bool     `json:"opened"`
	Active []string `json:"active"`
}

// CloseResponse is the body of DELETE /states/{name}.
type CloseResponse struct {
	State  string   `json:"state"`
	Closed bool     `json:"closed"`
	Active []string `json:"active"`
}

// NewHandler creates a new HTTP handler for the engine.
// Requests are validated against the embedded OpenAPI document before routing.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:   engine,
		Streams:  NewStreamManager(),
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := api.Load(context.Background())
	if err != nil {
		return nil, err
	}
	validate, err := validateRequests(doc, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(validate)

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		if _, err := w.Write(api.Spec); err != nil {
			s.logger.Error("openapi.yaml write failed", "err", err)
		}
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(swaggerHTML)); err != nil {
			s.logger.Error("swagger write failed", "err", err)
		}
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/states", s.ListStates)
	r.Get("/active", s.GetActive)
	r.Post("/states/{name}/open", s.OpenState)
	r.Delete("/states/{name}", s.CloseState)
	r.Get("/paths", s.FindPaths)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Waymark API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "waymark-http",
		"version": strings.TrimSpace(waymark.Version),
	})
}

// ListStates handles the GET /states request.
func (s *Server) ListStates(w http.ResponseWriter, r *http.Request) {
	active := make(map[string]bool)
	for _, name := range s.Engine.Active() {
		active[name] = true
	}

	states := s.Engine.States()
	views := make([]StateView, len(states))
	for i, st := range states {
		views[i] = StateView{State: st, Active: active[st.Name]}
	}
	s.writeJSON(w, views)
}

// GetActive handles the GET /active request.
func (s *Server) GetActive(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string][]string{"active": s.Engine.Active()})
}

// OpenState handles the POST /states/{name}/open request.
// An unreachable state is not an HTTP error: the body reports opened=false.
func (s *Server) OpenState(w http.ResponseWriter, r *http.Request) {
	name, ok := s.stateParam(w, r)
	if !ok {
		return
	}
	if !s.known(name) {
		http.Error(w, fmt.Sprintf("state not found: %s", name), http.StatusNotFound)
		return
	}

	ok, err := s.Engine.OpenState(r.Context(), name)
	if err != nil {
		http.Error(w, fmt.Sprintf("Navigation error: %v", err), http.StatusInternalServerError)
		s.logger.Error("OpenState failed", "target", name, "err", err)
		return
	}
	s.writeJSON(w, OpenResponse{Target: name, Opened: ok, Active: s.Engine.Active()})
}

// CloseState handles the DELETE /states/{name} request.
func (s *Server) CloseState(w http.ResponseWriter, r *http.Request) {
	name, ok := s.stateParam(w, r)
	if !ok {
		return
	}
	if !s.known(name) {
		http.Error(w, fmt.Sprintf("state not found: %s", name), http.StatusNotFound)
		return
	}
	closed := s.Engine.CloseState(r.Context(), name)
	s.writeJSON(w, CloseResponse{State: name, Closed: closed, Active: s.Engine.Active()})
}

// FindPaths handles the GET /paths?to= request.
func (s *Server) FindPaths(w http.ResponseWriter, r *http.Request) {
	var to string
	if err := runtime.BindQueryParameter("form", true, true, "to", r.URL.Query(), &to); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter to: %s", err), http.StatusBadRequest)
		return
	}
	if to == "" {
		http.Error(w, "missing query parameter: to", http.StatusBadRequest)
		return
	}

	paths, err := s.Engine.FindPaths(to)
	if err != nil {
		if errors.Is(err, domain.ErrStateNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	views := make([]PathView, 0, len(paths))
	for _, p := range paths {
		views = append(views, PathView{States: s.Engine.Names(p), Score: p.Score})
	}
	s.writeJSON(w, views)
}

// GetGraph handles the GET /graph request, rendering Mermaid.
// An optional ?to= highlights the best path to that state.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var to *string
	if err := runtime.BindQueryParameter("form", true, false, "to", r.URL.Query(), &to); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter to: %s", err), http.StatusBadRequest)
		return
	}

	var path []string
	if to != nil && *to != "" {
		if paths, err := s.Engine.FindPaths(*to); err == nil {
			if best, ok := paths.Best(); ok {
				path = s.Engine.Names(best)
			}
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(s.Engine.Mermaid(path...))); err != nil {
		s.logger.Error("GetGraph response write failed", "err", err)
	}
}

func (s *Server) stateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter name: %s", err), http.StatusBadRequest)
		return "", false
	}
	return name, true
}

func (s *Server) known(name string) bool {
	for _, st := range s.Engine.States() {
		if st.Name == name {
			return true
		}
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
