package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/automata/pkg/adapters/memory"
	"github.com/aretw0/automata/pkg/definition"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endsInX = `{"name":"ends-in-x","alphabet":["x","y"],"start":1,"accept":[2],"transitions":[[2,1],[2,1]]}`

func newTestServer(t *testing.T, opts ...ServerOption) (*httptest.Server, *memory.Store) {
	t.Helper()

	var doc definition.Document
	require.NoError(t, json.Unmarshal([]byte(endsInX), &doc))
	store, err := memory.NewStore(&doc)
	require.NoError(t, err)

	opts = append([]ServerOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	handler, err := NewHandler(store, opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestServer_HealthAndInfo(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = do(t, http.MethodGet, ts.URL+"/info", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]string
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "automata-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.NotEmpty(t, info["version"])
}

func TestServer_Validate(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/validate", endsInX)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"valid":true,"kind":"deterministic","states":2}`, string(body))

	bad := `{"alphabet":["x","y"],"start":1,"accept":[2],"transitions":[[2,1],[2,1,1]]}`
	resp, body = do(t, http.MethodPost, ts.URL+"/validate", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var v ValidateResponse
	require.NoError(t, json.Unmarshal(body, &v))
	assert.False(t, v.Valid)
	require.NotNil(t, v.Error)
	assert.Equal(t, "shape_mismatch", v.Error.Code)
}

func TestServer_ValidateRejectsMalformedBody(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := do(t, http.MethodPost, ts.URL+"/validate", `{"alphabet":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/validate", `{"unknown":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Run(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/run", `{"definition":`+endsInX+`,"input":"yx"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run RunResponse
	require.NoError(t, json.Unmarshal(body, &run))
	require.NotNil(t, run.Verdict)
	assert.Equal(t, domain.Accept, *run.Verdict)
	assert.Equal(t, 2, run.Final)
	assert.Len(t, run.Trace, 2)
}

func TestServer_RunUnknownSymbolKeepsPartialTrace(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/run", `{"definition":`+endsInX+`,"input":"xz"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var run RunResponse
	require.NoError(t, json.Unmarshal(body, &run))
	assert.Nil(t, run.Verdict)
	require.NotNil(t, run.Error)
	assert.Equal(t, "unknown_symbol", run.Error.Code)
	assert.Contains(t, run.Error.Message, "character <z> does not have a transition from q2")
	assert.Len(t, run.Trace, 1)
}

func TestServer_RunRequiresDefinition(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := do(t, http.MethodPost, ts.URL+"/run", `{"input":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Compile(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/compile", `{"pattern":"a*b","input":"aab"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var c CompileResponse
	require.NoError(t, json.Unmarshal(body, &c))
	require.NotNil(t, c.Definition)
	assert.Equal(t, "a*b", c.Definition.Name)
	assert.Equal(t, 1, c.Definition.Start)
	require.NotNil(t, c.Result)
	require.NotNil(t, c.Result.Verdict)
	assert.Equal(t, domain.Accept, *c.Result.Verdict)

	resp, body = do(t, http.MethodPost, ts.URL+"/compile", `{"pattern":"*a"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var e ErrorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "invalid_pattern", e.Code)
}

func TestServer_StoreLifecycle(t *testing.T) {
	ts, store := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/automata", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["ends-in-x"]`, string(body))

	zeros := `{"alphabet":["0","1"],"start":1,"accept":[1],"transitions":[[1,2],[2,2]]}`
	resp, _ = do(t, http.MethodPut, ts.URL+"/automata/zeros", zeros)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := store.Load(t.Context(), "zeros")
	require.NoError(t, err)
	assert.Equal(t, "zeros", stored.Name)

	resp, body = do(t, http.MethodPost, ts.URL+"/automata/zeros/run", `{"input":"000"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"verdict":"accept"`)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/automata/zeros", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/automata/zeros", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"not_found"`)
}

func TestServer_PutRejectsInvalidDefinition(t *testing.T) {
	ts, store := newTestServer(t)

	bad := `{"alphabet":["x"],"start":3,"accept":[1],"transitions":[[1]]}`
	resp, body := do(t, http.MethodPut, ts.URL+"/automata/broken", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "invalid_state_reference")

	names, err := store.List(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"ends-in-x"}, names)
}

func TestServer_Graph(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/graph/ends-in-x", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), "graph LR"))

	resp, body = do(t, http.MethodGet, ts.URL+"/graph/ends-in-x?format=dot", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), "digraph finite_state_machine {"))

	resp, body = do(t, http.MethodGet, ts.URL+"/graph/ends-in-x?input=yx", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "class q2 current")

	resp, _ = do(t, http.MethodGet, ts.URL+"/graph/ends-in-x?format=svg", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/graph/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts, _ := newTestServer(t, WithMetrics(reg))

	resp, _ := do(t, http.MethodPost, ts.URL+"/automata/ends-in-x/run", `{"input":"x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.Contains(body, []byte(`automaton="ends-in-x"`)))
}

func TestServer_OpenAPIAndCORS(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "openapi: 3.0.3")

	resp, _ = do(t, http.MethodOptions, ts.URL+"/run", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
