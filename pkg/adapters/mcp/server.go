package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/internal/presentation/graph"
	"github.com/aretw0/automata/pkg/definition"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/ports"
	"github.com/aretw0/automata/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const listURI = "automata://list"

// RunResponse mirrors the HTTP run body so clients see one shape across adapters.
type RunResponse struct {
	Verdict string        `json:"verdict,omitempty" jsonschema_description:"accept or reject; empty when the run failed"`
	Final   int           `json:"final" jsonschema_description:"State the run ended in"`
	Trace   []domain.Step `json:"trace" jsonschema_description:"Transitions taken, in order"`
	Error   string        `json:"error,omitempty" jsonschema_description:"Execution error, if any"`
}

// ValidateResponse reports whether a definition is well formed.
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Kind   string `json:"kind,omitempty"`
	States int    `json:"states,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ValidateArgs are the arguments of validate_definition.
type ValidateArgs struct {
	Definition string `json:"definition"`
	Format     string `json:"format"`
}

// RunArgs are the arguments of run_input. Either Name or Definition is set.
type RunArgs struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
	Format     string `json:"format"`
	Input      string `json:"input"`
}

// CompileArgs are the arguments of compile_regex.
type CompileArgs struct {
	Pattern string  `json:"pattern"`
	Input   *string `json:"input"`
}

// Server exposes automata operations as MCP tools.
type Server struct {
	loader    ports.DefinitionLoader
	opts      []automata.Option
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance over loader.
// opts apply to every machine the tools build.
func NewServer(loader ports.DefinitionLoader, opts ...automata.Option) *Server {
	s := &Server{
		loader:    loader,
		opts:      opts,
		mcpServer: server.NewMCPServer("automata-mcp", strings.TrimSpace(automata.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
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

		slog.Info("Shutdown signal received, shutting down MCP server")
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
	validateTool := mcp.NewTool("validate_definition",
		mcp.WithDescription("Check a JSON or YAML automaton definition against its structural invariants."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("The definition document")),
		mcp.WithString("format", mcp.Description("json (default) or yaml")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	runTool := mcp.NewTool("run_input",
		mcp.WithDescription("Run an input string through a stored automaton or an inline definition."),
		mcp.WithString("input", mcp.Required(), mcp.Description("The sentence to process")),
		mcp.WithString("name", mcp.Description("Name of a stored automaton")),
		mcp.WithString("definition", mcp.Description("Inline definition, used when name is empty")),
		mcp.WithString("format", mcp.Description("Format of the inline definition: json (default) or yaml")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	compileTool := mcp.NewTool("compile_regex",
		mcp.WithDescription("Compile a pattern of literals with postfix '|', '*' and '+' into a definition, optionally running an input."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("The pattern, e.g. a*b")),
		mcp.WithString("input", mcp.Description("Optional sentence to run through the compiled automaton")),
	)
	s.mcpServer.AddTool(compileTool, s.handleCompile)

	s.mcpServer.AddTool(mcp.NewTool("list_automata",
		mcp.WithDescription("List the names of stored automata."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.loader.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render a stored automaton as a Mermaid or DOT diagram."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of a stored automaton")),
		mcp.WithString("format", mcp.Description("mermaid (default) or dot")),
	), s.handleGraph)
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (ValidateResponse, error) {
	doc, err := parse(args.Definition, args.Format)
	if err != nil {
		return ValidateResponse{Error: err.Error()}, nil
	}
	m, err := automata.FromDocument(doc, s.opts...)
	if err != nil {
		return ValidateResponse{Error: err.Error()}, nil
	}
	return ValidateResponse{Valid: true, Kind: string(m.Kind()), States: m.Automaton().States()}, nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	var (
		doc *definition.Document
		err error
	)
	switch {
	case args.Name != "":
		doc, err = s.loader.Load(ctx, args.Name)
	case args.Definition != "":
		doc, err = parse(args.Definition, args.Format)
	default:
		err = errors.New("either name or definition is required")
	}
	if err != nil {
		return RunResponse{}, err
	}

	m, err := automata.FromDocument(doc, s.opts...)
	if err != nil {
		return RunResponse{}, fmt.Errorf("invalid definition: %w", err)
	}

	clean, err := runner.SanitizeInput(args.Input)
	if err != nil {
		slog.Warn("MCP Run: Input rejected", "error", err, "size", len(args.Input))
		return RunResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	res, err := m.Run(ctx, clean)
	return runResponse(res, err), nil
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args CompileArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	m, err := automata.Compile(args.Pattern, s.opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc := definition.FromAutomaton(m.Automaton())
	doc.Name = args.Pattern
	out := map[string]any{"definition": doc}

	if args.Input != nil {
		res, err := m.Run(ctx, *args.Input)
		out["result"] = runResponse(res, err)
	}

	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := request.GetString("format", "mermaid")

	doc, err := s.loader.Load(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := automata.FromDocument(doc, s.opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch format {
	case "dot":
		return mcp.NewToolResultText(graph.GenerateDOT(m.Automaton())), nil
	case "mermaid":
		return mcp.NewToolResultText(graph.GenerateMermaid(m.Automaton(), nil)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(listURI, "Stored Automata",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.loader.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list automata: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      listURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func parse(text, format string) (*definition.Document, error) {
	if format == "" {
		format = string(definition.FormatJSON)
	}
	return definition.Parse([]byte(text), definition.Format(format))
}

func runResponse(res *domain.Result, err error) RunResponse {
	resp := RunResponse{Trace: []domain.Step{}}
	if res != nil {
		resp.Final = res.Final
		resp.Trace = res.Trace
	}
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Verdict = strings.ToLower(res.Verdict.String())
	return resp
}
