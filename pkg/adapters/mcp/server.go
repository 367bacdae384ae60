package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RenderResponse mirrors the JSON body of the HTTP adapter's render endpoint.
type RenderResponse struct {
	Name  string       `json:"name" jsonschema_description:"The rendered blueprint"`
	HTML  string       `json:"html" jsonschema_description:"Serialized markup of the view"`
	Stats domain.Stats `json:"stats" jsonschema_description:"Renderer calls made by this render"`
}

// ListResponse names the views the server can render.
type ListResponse struct {
	Views []string `json:"views" jsonschema_description:"Blueprint names"`
}

// InspectResponse carries a view tree in the requested format.
type InspectResponse struct {
	Format string `json:"format" jsonschema_description:"json, mermaid or markdown"`
	Body   string `json:"body" jsonschema_description:"The formatted view tree"`
}

// Engine is the part of arbor.Engine the MCP server needs.
type Engine interface {
	Render(ctx context.Context, name string, vars map[string]any) (*arbor.Root, error)
	Names() []string
	Stats() domain.Stats
}

// Server wraps an arbor Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer

	// Renders share one html factory.
	mu sync.Mutex
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("arbor-mcp", arbor.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	listTool := mcp.NewTool("list_views",
		mcp.WithDescription("List the blueprints that can be rendered."),
		mcp.WithOutputSchema[ListResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListViews))

	renderTool := mcp.NewTool("render_view",
		mcp.WithDescription("Render a blueprint to HTML. The context is merged over the blueprint's defaults."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Blueprint name")),
		mcp.WithString("context", mcp.Description("JSON object with the view context (optional)")),
		mcp.WithOutputSchema[RenderResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRenderView))

	inspectTool := mcp.NewTool("inspect_view",
		mcp.WithDescription("Render a blueprint and return its view tree."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Blueprint name")),
		mcp.WithString("context", mcp.Description("JSON object with the view context (optional)")),
		mcp.WithString("format", mcp.Description("json (default), mermaid or markdown")),
		mcp.WithOutputSchema[InspectResponse](),
	)
	s.mcpServer.AddTool(inspectTool, mcp.NewStructuredToolHandler(s.handleInspectView))
}

func (s *Server) handleListViews(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	return ListResponse{Views: s.engine.Names()}, nil
}

func (s *Server) handleRenderView(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RenderResponse, error) {
	name, vars, err := viewArgs(args)
	if err != nil {
		return RenderResponse{}, err
	}

	resp := RenderResponse{Name: name}
	err = s.withRoot(ctx, name, vars, func(root *arbor.Root, pass domain.Stats) error {
		var err error
		resp.HTML, err = root.HTML()
		resp.Stats = pass
		return err
	})
	if err != nil {
		return RenderResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return resp, nil
}

func (s *Server) handleInspectView(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (InspectResponse, error) {
	name, vars, err := viewArgs(args)
	if err != nil {
		return InspectResponse{}, err
	}
	format, _ := args["format"].(string)
	if format == "" {
		format = "json"
	}

	var body string
	err = s.withRoot(ctx, name, vars, func(root *arbor.Root, _ domain.Stats) error {
		info := root.Inspect()
		switch format {
		case "json":
			b, err := json.MarshalIndent(info, "", "  ")
			body = string(b)
			return err
		case "mermaid":
			body = graph.GenerateMermaid(info, nil)
		case "markdown":
			body = graph.GenerateOutline(info)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		return nil
	})
	if err != nil {
		return InspectResponse{}, fmt.Errorf("inspect failed: %w", err)
	}
	return InspectResponse{Format: format, Body: body}, nil
}

// withRoot renders name, hands the root and the counters of its creation pass to fn
// and destroys it afterwards.
func (s *Server) withRoot(ctx context.Context, name string, vars map[string]any, fn func(*arbor.Root, domain.Stats) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.engine.Stats()
	root, err := s.engine.Render(ctx, name, vars)
	if err != nil {
		return err
	}
	defer func() {
		if err := root.Destroy(ctx); err != nil {
			s.logger.Error("MCP: Destroy failed", "view", name, "error", err)
		}
	}()
	return fn(root, s.engine.Stats().Sub(before))
}

func viewArgs(args map[string]interface{}) (string, map[string]any, error) {
	name, _ := args["name"].(string)
	if name == "" {
		return "", nil, errors.New("name is required")
	}
	vars := map[string]any{}
	if ctxStr, ok := args["context"].(string); ok && ctxStr != "" {
		if err := json.Unmarshal([]byte(ctxStr), &vars); err != nil {
			return "", nil, fmt.Errorf("context must be a JSON object: %w", err)
		}
	}
	return name, vars, nil
}

func (s *Server) registerResources() {
	// EXPOSE: arbor://views
	s.mcpServer.AddResource(mcp.NewResource("arbor://views", "Available Views",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(ListResponse{Views: s.engine.Names()})
		if err != nil {
			return nil, fmt.Errorf("failed to list views: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "arbor://views",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
