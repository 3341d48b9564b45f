package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/automata/pkg/adapters/memory"
	"github.com/aretw0/automata/pkg/definition"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endsInX = `{"name":"ends-in-x","alphabet":["x","y"],"start":1,"accept":[2],"transitions":[[2,1],[2,1]]}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	doc, err := definition.Parse([]byte(endsInX), definition.FormatJSON)
	require.NoError(t, err)
	store, err := memory.NewStore(doc)
	require.NoError(t, err)
	return NewServer(store)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleValidate(ctx, mcp.CallToolRequest{}, ValidateArgs{Definition: endsInX})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, "deterministic", resp.Kind)
	assert.Equal(t, 2, resp.States)

	yamlDoc := "alphabet: [x]\nstart: 2\naccept: [1]\ntransitions:\n  - [1]\n"
	resp, err = s.handleValidate(ctx, mcp.CallToolRequest{}, ValidateArgs{Definition: yamlDoc, Format: "yaml"})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Error, "start")
}

func TestHandleRun(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleRun(ctx, mcp.CallToolRequest{}, RunArgs{Name: "ends-in-x", Input: "yx"})
	require.NoError(t, err)
	assert.Equal(t, "accept", resp.Verdict)
	assert.Equal(t, 2, resp.Final)
	assert.Len(t, resp.Trace, 2)

	resp, err = s.handleRun(ctx, mcp.CallToolRequest{}, RunArgs{Definition: endsInX, Input: "xq"})
	require.NoError(t, err)
	assert.Empty(t, resp.Verdict)
	assert.Contains(t, resp.Error, "character <q> does not have a transition from q2")
	assert.Len(t, resp.Trace, 1)

	_, err = s.handleRun(ctx, mcp.CallToolRequest{}, RunArgs{Input: "x"})
	assert.Error(t, err)

	_, err = s.handleRun(ctx, mcp.CallToolRequest{}, RunArgs{Name: "missing", Input: "x"})
	assert.Error(t, err)
}

func TestHandleCompile(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleCompile(context.Background(), callRequest(map[string]any{"pattern": "a*b", "input": "aab"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out struct {
		Definition definition.Document `json:"definition"`
		Result     RunResponse         `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "a*b", out.Definition.Name)
	assert.Equal(t, "accept", out.Result.Verdict)

	res, err = s.handleCompile(context.Background(), callRequest(map[string]any{"pattern": "+a"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleGraph(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleGraph(context.Background(), callRequest(map[string]any{"name": "ends-in-x", "format": "dot"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "digraph finite_state_machine")

	res, err = s.handleGraph(context.Background(), callRequest(map[string]any{"name": "ends-in-x"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "graph LR")

	res, err = s.handleGraph(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
