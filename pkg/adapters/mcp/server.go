package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/fsnt"
	"github.com/aretw0/fsnt/pkg/compose"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/aretw0/fsnt/pkg/ports"
	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Toolkit defines what the MCP server needs from the library facade.
type Toolkit interface {
	Store() ports.TransducerStore
	ComposeStored(ctx context.Context, req fsnt.ComposeRequest) (*fst.Transducer, error)
	Expand(ctx context.Context, name string, maxCycles int) ([]ops.Path, error)
}

// ComposeArgs are the arguments of the compose tool.
type ComposeArgs struct {
	Left           string   `json:"left"`
	Right          string   `json:"right"`
	Glue           []string `json:"glue"`
	Output         string   `json:"output,omitempty"`
	Strip          bool     `json:"strip,omitempty"`
	FlagsAsEpsilon *bool    `json:"flags_as_epsilon,omitempty"`
}

// ComposeResult reports a composition.
type ComposeResult struct {
	Output  string      `json:"output,omitempty" jsonschema_description:"Name the result was stored under"`
	Summary ops.Summary `json:"summary" jsonschema_description:"Size of the composed transducer"`
	Paths   []string    `json:"paths,omitempty" jsonschema_description:"Accepted paths, when the result was not stored"`
}

// ExpandArgs are the arguments of the expand tool.
type ExpandArgs struct {
	Name   string `json:"name"`
	Cycles *int   `json:"cycles,omitempty"`
}

// ExpandResult lists accepted paths, tapes joined by ':'.
type ExpandResult struct {
	Paths []string `json:"paths" jsonschema_description:"Accepted paths, tapes joined by ':'"`
}

// Server wraps the Toolkit and exposes it as an MCP Server.
type Server struct {
	kit       Toolkit
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(kit Toolkit) *Server {
	s := &Server{
		kit:       kit,
		mcpServer: server.NewMCPServer("fsnt-mcp", strings.TrimSpace(fsnt.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE. It stops when ctx is done.
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
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "could not stop server gracefully")
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
	// TOOL: list_transducers
	s.mcpServer.AddTool(mcp.NewTool("list_transducers",
		mcp.WithDescription("List the names of all stored transducers."),
	), s.handleList)

	// TOOL: compose
	composeTool := mcp.NewTool("compose",
		mcp.WithDescription("Compose two stored transducers over glued tape pairs."),
		mcp.WithString("left", mcp.Required(), mcp.Description("Name of the left transducer")),
		mcp.WithString("right", mcp.Required(), mcp.Description("Name of the right transducer")),
		mcp.WithArray("glue", mcp.Required(),
			mcp.Description("Glued tape pairs written left:right, e.g. surface:input"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("output", mcp.Description("Store the result under this name (optional)")),
		mcp.WithBoolean("strip", mcp.Description("Remove states that cannot reach a final state")),
		mcp.WithBoolean("flags_as_epsilon", mcp.Description("Let flag diacritics match like epsilon on glued tapes")),
		mcp.WithOutputSchema[ComposeResult](),
	)
	s.mcpServer.AddTool(composeTool, mcp.NewStructuredToolHandler(s.handleCompose))

	// TOOL: expand
	expandTool := mcp.NewTool("expand",
		mcp.WithDescription("List the paths accepted by a stored transducer."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the transducer")),
		mcp.WithNumber("cycles", mcp.Min(0), mcp.Description("How often each cycle may be followed (default 5)")),
		mcp.WithOutputSchema[ExpandResult](),
	)
	s.mcpServer.AddTool(expandTool, mcp.NewStructuredToolHandler(s.handleExpand))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.kit.Store().List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(map[string][]string{"transducers": names})
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleCompose(ctx context.Context, request mcp.CallToolRequest, args ComposeArgs) (ComposeResult, error) {
	req := fsnt.ComposeRequest{
		Left:           args.Left,
		Right:          args.Right,
		Output:         args.Output,
		Strip:          args.Strip,
		FlagsAsEpsilon: args.FlagsAsEpsilon,
	}
	for _, pair := range args.Glue {
		g, err := compose.ParseGlue(pair)
		if err != nil {
			return ComposeResult{}, errors.Wrap(err, "invalid glue")
		}
		req.Glue = append(req.Glue, g)
	}

	out, err := s.kit.ComposeStored(ctx, req)
	if err != nil {
		slog.Warn("MCP Compose failed", "error", err, "left", args.Left, "right", args.Right)
		return ComposeResult{}, errors.Wrap(err, "compose failed")
	}

	res := ComposeResult{Output: args.Output, Summary: ops.Summarize(out)}
	if args.Output == "" {
		paths, err := ops.Expand(ctx, out, ops.DefaultMaxCycles)
		if err != nil {
			return ComposeResult{}, errors.Wrap(err, "expand failed")
		}
		res.Paths = pathStrings(paths)
	}
	return res, nil
}

func (s *Server) handleExpand(ctx context.Context, request mcp.CallToolRequest, args ExpandArgs) (ExpandResult, error) {
	cycles := ops.DefaultMaxCycles
	if args.Cycles != nil {
		cycles = *args.Cycles
	}
	paths, err := s.kit.Expand(ctx, args.Name, cycles)
	if err != nil {
		return ExpandResult{}, errors.Wrap(err, "expand failed")
	}
	return ExpandResult{Paths: pathStrings(paths)}, nil
}

func pathStrings(paths []ops.Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

func (s *Server) registerResources() {
	// EXPOSE: fsnt://transducers
	s.mcpServer.AddResource(mcp.NewResource("fsnt://transducers", "Stored transducers",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.kit.Store().List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list transducers")
		}
		summaries := make(map[string]ops.Summary, len(names))
		for _, name := range names {
			t, err := s.kit.Store().Load(ctx, name)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to load %s", name)
			}
			summaries[name] = ops.Summarize(t)
		}
		jsonBytes, _ := json.Marshal(summaries)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "fsnt://transducers",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
