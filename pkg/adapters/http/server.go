package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/internal/compiler"
	"github.com/aretw0/automata/internal/presentation/graph"
	"github.com/aretw0/automata/pkg/definition"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/observability"
	"github.com/aretw0/automata/pkg/ports"
	"github.com/aretw0/automata/pkg/runner"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// maxBodySize bounds request bodies; definitions are small tables.
const maxBodySize = 1 << 20

// Server serves the automata API over a definition store.
type Server struct {
	Store  ports.DefinitionStore
	Logger *slog.Logger

	machineOpts []automata.Option
	hooks       domain.LifecycleHooks
	registry    *prometheus.Registry
	spec        *openapi3.T
}

// ServerOption defines a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMachineOptions applies opts to every machine the server builds.
func WithMachineOptions(opts ...automata.Option) ServerOption {
	return func(s *Server) {
		s.machineOpts = append(s.machineOpts, opts...)
	}
}

// WithLifecycleHooks attaches hooks to every run. Metrics hooks, when enabled,
// are combined with them.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ServerOption {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithMetrics records run metrics into reg and serves them on /metrics.
func WithMetrics(reg *prometheus.Registry) ServerOption {
	return func(s *Server) {
		s.registry = reg
	}
}

// NewServer loads the embedded OpenAPI document and builds the server.
func NewServer(store ports.DefinitionStore, opts ...ServerOption) (*Server, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}

	s := &Server{
		Store:  store,
		Logger: slog.Default(),
		spec:   spec,
	}
	for _, opt := range opts {
		opt(s)
	}

	hooks := s.hooks
	if s.registry != nil {
		metrics := observability.NewMetrics(s.registry)
		hooks = observability.Combine(hooks, metrics.Hooks())
	}
	s.machineOpts = append(s.machineOpts, automata.WithLifecycleHooks(hooks))
	return s, nil
}

// NewHandler creates a new HTTP handler for the store.
func NewHandler(store ports.DefinitionStore, opts ...ServerOption) (http.Handler, error) {
	s, err := NewServer(store, opts...)
	if err != nil {
		return nil, err
	}
	return s.Routes(), nil
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/validate", s.Validate)
	r.Post("/run", s.Run)
	r.Post("/compile", s.Compile)
	r.Get("/automata", s.ListAutomata)
	r.Route("/automata/{name}", func(r chi.Router) {
		r.Get("/", s.GetAutomaton)
		r.Put("/", s.PutAutomaton)
		r.Delete("/", s.DeleteAutomaton)
		r.Post("/run", s.RunAutomaton)
	})
	r.Get("/graph/{name}", s.GetGraph)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
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
    <title>Automata API Documentation</title>
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

// -- Wire types --

// ErrorBody describes a failure with a stable code.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResponse is the body of every run endpoint.
type RunResponse struct {
	Verdict *domain.Verdict `json:"verdict,omitempty"`
	Final   int             `json:"final"`
	Trace   []domain.Step   `json:"trace"`
	Error   *ErrorBody      `json:"error,omitempty"`
}

// ValidateResponse reports the outcome of validation.
type ValidateResponse struct {
	Valid  bool       `json:"valid"`
	Kind   string     `json:"kind,omitempty"`
	States int        `json:"states,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// CompileResponse carries a compiled definition and an optional run.
type CompileResponse struct {
	Definition *definition.Document `json:"definition"`
	Result     *RunResponse         `json:"result,omitempty"`
}

type runRequest struct {
	Definition *definition.Document `json:"definition"`
	Input      string               `json:"input"`
}

type compileRequest struct {
	Pattern string  `json:"pattern"`
	Input   *string `json:"input"`
}

type inputRequest struct {
	Input string `json:"input"`
}

// -- Handlers --

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "automata-http",
		"version":     strings.TrimSpace(automata.Version),
		"api_version": apiVersion,
	})
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var doc definition.Document
	if !s.decode(w, r, &doc) {
		return
	}

	m, err := s.machine(&doc)
	if err != nil {
		s.Logger.Debug("Validate: definition rejected", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Error: errorBody(err)})
		return
	}
	writeJSON(w, http.StatusOK, validResponse(m))
}

// Run handles the POST /run request.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body runRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Definition == nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: "definition is required"})
		return
	}

	m, err := s.machine(body.Definition)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, RunResponse{Trace: []domain.Step{}, Error: errorBody(err)})
		return
	}
	s.run(r.Context(), w, m, body.Input)
}

// Compile handles the POST /compile request.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var body compileRequest
	if !s.decode(w, r, &body) {
		return
	}

	m, err := automata.Compile(body.Pattern, s.machineOpts...)
	if err != nil {
		s.Logger.Debug("Compile: pattern rejected", "pattern", body.Pattern, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err))
		return
	}

	resp := CompileResponse{Definition: definition.FromAutomaton(m.Automaton())}
	resp.Definition.Name = body.Pattern
	if body.Input != nil {
		input, err := runner.SanitizeInput(*body.Input)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "invalid_input", Message: err.Error()})
			return
		}
		res, err := m.Run(r.Context(), input)
		resp.Result = runResponse(res, err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAutomata handles the GET /automata request.
func (s *Server) ListAutomata(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.Logger.Error("ListAutomata failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Code: "store_error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// GetAutomaton handles the GET /automata/{name} request.
func (s *Server) GetAutomaton(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// PutAutomaton handles the PUT /automata/{name} request.
// Only valid definitions are stored.
func (s *Server) PutAutomaton(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var doc definition.Document
	if !s.decode(w, r, &doc) {
		return
	}
	doc.Name = name

	m, err := s.machine(&doc)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Error: errorBody(err)})
		return
	}

	if err := s.Store.Save(r.Context(), name, &doc); err != nil {
		s.Logger.Error("PutAutomaton: save failed", "name", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Code: "store_error", Message: err.Error()})
		return
	}
	s.Logger.Info("Automaton stored", "name", name, "kind", m.Kind())
	writeJSON(w, http.StatusOK, validResponse(m))
}

// DeleteAutomaton handles the DELETE /automata/{name} request.
func (s *Server) DeleteAutomaton(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Store.Delete(r.Context(), name); err != nil {
		s.Logger.Error("DeleteAutomaton failed", "name", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Code: "store_error", Message: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunAutomaton handles the POST /automata/{name}/run request.
func (s *Server) RunAutomaton(w http.ResponseWriter, r *http.Request) {
	var body inputRequest
	if !s.decode(w, r, &body) {
		return
	}

	doc, ok := s.load(w, r)
	if !ok {
		return
	}

	m, err := s.machine(doc)
	if err != nil {
		// Stored definitions were valid when saved; a failure here means the
		// store was edited behind the server's back.
		s.Logger.Error("RunAutomaton: stored definition is invalid", "name", doc.Name, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, RunResponse{Trace: []domain.Step{}, Error: errorBody(err)})
		return
	}
	s.run(r.Context(), w, m, body.Input)
}

// GetGraph handles the GET /graph/{name} request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	format := "mermaid"
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: err.Error()})
		return
	}
	var input *string
	if err := runtime.BindQueryParameter("form", true, false, "input", r.URL.Query(), &input); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: err.Error()})
		return
	}

	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	m, err := s.machine(doc)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err))
		return
	}

	var out string
	switch format {
	case "dot":
		out = graph.GenerateDOT(m.Automaton())
	case "mermaid":
		var overlay *graph.GraphOverlay
		if input != nil {
			res, _ := m.Run(r.Context(), *input)
			overlay = graph.OverlayFromResult(res)
		}
		out = graph.GenerateMermaid(m.Automaton(), overlay)
	default:
		writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: fmt.Sprintf("unknown format %q", format)})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*definition.Document, bool) {
	name := chi.URLParam(r, "name")
	doc, err := s.Store.Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrDefinitionNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorBody{Code: "not_found", Message: err.Error()})
			return nil, false
		}
		s.Logger.Error("Store load failed", "name", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Code: "store_error", Message: err.Error()})
		return nil, false
	}
	return doc, true
}

func (s *Server) machine(doc *definition.Document) (*automata.Machine, error) {
	return automata.FromDocument(doc, s.machineOpts...)
}

func (s *Server) run(ctx context.Context, w http.ResponseWriter, m *automata.Machine, raw string) {
	input, err := runner.SanitizeInput(raw)
	if err != nil {
		s.Logger.Warn("Run: input rejected", "error", err, "size", len(raw))
		writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	res, err := m.Run(ctx, input)
	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, runResponse(res, err))
}

func runResponse(res *domain.Result, err error) *RunResponse {
	resp := &RunResponse{Trace: []domain.Step{}}
	if res != nil {
		resp.Final = res.Final
		resp.Trace = res.Trace
	}
	if err != nil {
		resp.Error = errorBody(err)
		return resp
	}
	v := res.Verdict
	resp.Verdict = &v
	return resp
}

func validResponse(m *automata.Machine) ValidateResponse {
	return ValidateResponse{
		Valid:  true,
		Kind:   string(m.Kind()),
		States: m.Automaton().States(),
	}
}

// errorBody classifies err with a stable code.
func errorBody(err error) *ErrorBody {
	code := "invalid_definition"
	switch {
	case errors.Is(err, domain.ErrExecution):
		code = observability.Reason(err)
	case errors.Is(err, domain.ErrShapeMismatch):
		code = "shape_mismatch"
	case errors.Is(err, domain.ErrInvalidStateReference):
		code = "invalid_state_reference"
	case isPatternError(err):
		code = "invalid_pattern"
	}
	return &ErrorBody{Code: code, Message: err.Error()}
}

func isPatternError(err error) bool {
	for _, target := range []error{
		compiler.ErrEmptyPattern,
		compiler.ErrReservedSymbol,
		compiler.ErrDanglingOperator,
		compiler.ErrUnknownLiteral,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
