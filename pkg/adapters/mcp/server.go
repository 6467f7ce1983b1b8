package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource holding the Mermaid rendering of the graph.
const GraphURI = "waymark://graph"

// Engine defines the interface required by the MCP server to drive navigation.
// *waymark.Engine satisfies it.
type Engine interface {
	Active() []string
	OpenState(ctx context.Context, name string) (bool, error)
	CloseState(ctx context.Context, name string) bool
	FindPaths(to string) (domain.Paths, error)
	Names(p domain.Path) []string
	Mermaid(path ...string) string
}

var _ Engine = (*waymark.Engine)(nil)

// OpenResult is the structured output of open_state.
type OpenResult struct {
	Target string   `json:"target" jsonschema_description:"The requested state"`
	Opened bool     `json:"opened" jsonschema_description:"Whether the state is active after navigation"`
	Active []string `json:"active" jsonschema_description:"The active states after navigation"`
}

// ActiveResult is the structured output of active_states and close_state.
type ActiveResult struct {
	Active []string `json:"active" jsonschema_description:"The active states"`
}

// PathResult is one path in the output of find_paths.
type PathResult struct {
	States []string `json:"states" jsonschema_description:"State names from an active state to the target"`
	Score  int      `json:"score" jsonschema_description:"Sum of the path costs of the entered states"`
}

// PathsResult is the structured output of find_paths.
type PathsResult struct {
	Paths []PathResult `json:"paths" jsonschema_description:"Candidate paths, best first"`
}

// Server wraps the Waymark Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("waymark-mcp", strings.TrimSpace(waymark.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: open_state
	openTool := mcp.NewTool("open_state",
		mcp.WithDescription("Navigate from the active states to the given state, retrying alternative paths on failure."),
		mcp.WithString("state", mcp.Required(), mcp.Description("Name of the state to open")),
		mcp.WithOutputSchema[OpenResult](),
	)
	s.mcpServer.AddTool(openTool, mcp.NewStructuredToolHandler(s.handleOpenState))

	// TOOL: close_state
	closeTool := mcp.NewTool("close_state",
		mcp.WithDescription("Mark a state as no longer visible without running any transition."),
		mcp.WithString("state", mcp.Required(), mcp.Description("Name of the state to close")),
		mcp.WithOutputSchema[ActiveResult](),
	)
	s.mcpServer.AddTool(closeTool, mcp.NewStructuredToolHandler(s.handleCloseState))

	// TOOL: active_states
	activeTool := mcp.NewTool("active_states",
		mcp.WithDescription("List the states currently believed to be visible."),
		mcp.WithOutputSchema[ActiveResult](),
	)
	s.mcpServer.AddTool(activeTool, mcp.NewStructuredToolHandler(s.handleActiveStates))

	// TOOL: find_paths
	pathsTool := mcp.NewTool("find_paths",
		mcp.WithDescription("List every path from the active states to the given state, best first."),
		mcp.WithString("to", mcp.Required(), mcp.Description("Name of the target state")),
		mcp.WithOutputSchema[PathsResult](),
	)
	s.mcpServer.AddTool(pathsTool, mcp.NewStructuredToolHandler(s.handleFindPaths))
}

func (s *Server) handleOpenState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (OpenResult, error) {
	name, _ := args["state"].(string)
	if name == "" {
		return OpenResult{}, errors.New("state is required")
	}

	ok, err := s.engine.OpenState(ctx, name)
	if err != nil {
		s.logger.Error("MCP OpenState failed", "target", name, "err", err)
		return OpenResult{}, fmt.Errorf("navigation failed: %w", err)
	}
	return OpenResult{Target: name, Opened: ok, Active: s.engine.Active()}, nil
}

func (s *Server) handleCloseState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ActiveResult, error) {
	name, _ := args["state"].(string)
	if name == "" {
		return ActiveResult{}, errors.New("state is required")
	}
	s.engine.CloseState(ctx, name)
	return ActiveResult{Active: s.engine.Active()}, nil
}

func (s *Server) handleActiveStates(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ActiveResult, error) {
	return ActiveResult{Active: s.engine.Active()}, nil
}

func (s *Server) handleFindPaths(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PathsResult, error) {
	to, _ := args["to"].(string)
	if to == "" {
		return PathsResult{}, errors.New("to is required")
	}

	paths, err := s.engine.FindPaths(to)
	if err != nil {
		return PathsResult{}, err
	}

	out := PathsResult{Paths: make([]PathResult, 0, len(paths))}
	for _, p := range paths {
		out.Paths = append(out.Paths, PathResult{States: s.engine.Names(p), Score: p.Score})
	}
	return out, nil
}

func (s *Server) registerResources() {
	// EXPOSE: waymark://graph
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "State Graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), s.readGraph)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "text/plain",
			Text:     s.engine.Mermaid(),
		},
	}, nil
}
