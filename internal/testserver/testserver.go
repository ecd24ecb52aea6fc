// Package testserver runs the full HTTP stack against an in-memory store for
// end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/subhstories/clientmanager/internal/domain/client"
	"github.com/subhstories/clientmanager/internal/mcp"
	"github.com/subhstories/clientmanager/internal/metrics"
	"github.com/subhstories/clientmanager/internal/sqlite"
	"github.com/subhstories/clientmanager/internal/transport"
)

type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Clients *client.Service
	Metrics *metrics.Recorder
	Token   string
}

// Response is a decoded JSON-RPC reply with the result left raw.
type Response struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data,omitempty"`
	} `json:"error,omitempty"`
}

// New starts a server backed by a fresh in-memory SQLite document.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)

	repo := sqlite.NewDocumentRepository(db, sqlite.DefaultDocument)
	recorder := metrics.NewRecorder()
	svc := client.NewService(repo, nil,
		client.WithOps(client.Ops{IDs: client.NewSequentialIDs(0)}),
		client.WithObserver(recorder))
	require.NoError(t, svc.Open(context.Background()))

	mcpServer := mcp.NewServer(mcp.Config{Clients: svc, Version: "test"})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	opts := transport.Options{MCP: mcpHandler, Metrics: recorder.Handler()}
	if token != "" {
		opts.Auth = transport.AuthMiddleware(transport.StaticToken(token))
	}
	server := httptest.NewServer(transport.NewServer(mcp.NewHandler(svc), opts))

	ts := &TestServer{
		Server:  server,
		DB:      db,
		Clients: svc,
		Metrics: recorder,
		Token:   token,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Call posts a JSON-RPC request to /rpc.
func (ts *TestServer) Call(t *testing.T, method string, params any) Response {
	t.Helper()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Decode unmarshals a successful result into v.
func (r Response) Decode(t *testing.T, v any) {
	t.Helper()
	require.Nil(t, r.Error, "unexpected error: %+v", r.Error)
	require.NoError(t, json.Unmarshal(r.Result, v))
}
