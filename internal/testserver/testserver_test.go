package testserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/subhstories/clientmanager/internal/domain/client"
	"github.com/subhstories/clientmanager/internal/mcp"
	"github.com/subhstories/clientmanager/internal/sqlite"
	"github.com/subhstories/clientmanager/internal/testserver"
)

func TestFunctional_ClientLifecycle(t *testing.T) {
	ts := testserver.New(t, "token")
	ctx := context.Background()

	var added mcp.ClientResponse
	ts.Call(t, "add_client", map[string]any{"name": "Acme", "email": "hello@acme.com"}).Decode(t, &added)
	require.Equal(t, "Acme", added.Client.Name)
	require.Empty(t, added.Client.Projects)

	var proj mcp.ProjectResponse
	ts.Call(t, "add_project", map[string]any{
		"client_id":     added.Client.ID,
		"title":         "Promo Video",
		"delivery_date": "2024-06-01",
	}).Decode(t, &proj)
	require.Equal(t, client.StatusPending, proj.Project.Status)

	for _, status := range []client.ProjectStatus{client.StatusInProgress, client.StatusCompleted} {
		var list mcp.ClientsResponse
		ts.Call(t, "update_project_status", map[string]any{
			"client_id":  added.Client.ID,
			"project_id": proj.Project.ID,
			"status":     status,
		}).Decode(t, &list)
		require.Equal(t, status, list.Clients[0].Projects[0].Status)
		require.Equal(t, "Promo Video", list.Clients[0].Projects[0].Title)
	}

	stored, err := sqlite.NewDocumentRepository(ts.DB, sqlite.DefaultDocument).Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, client.StatusCompleted, stored[0].Projects[0].Status)

	var list mcp.ClientsResponse
	ts.Call(t, "delete_project", map[string]any{"client_id": added.Client.ID, "project_id": proj.Project.ID}).Decode(t, &list)
	require.Empty(t, list.Clients[0].Projects)

	ts.Call(t, "delete_client", map[string]any{"id": added.Client.ID}).Decode(t, &list)
	require.Empty(t, list.Clients)

	// Deleting again is a no-op.
	ts.Call(t, "delete_client", map[string]any{"id": added.Client.ID}).Decode(t, &list)
	require.Empty(t, list.Clients)

	stored, err = sqlite.NewDocumentRepository(ts.DB, sqlite.DefaultDocument).Load(ctx)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestFunctional_Errors(t *testing.T) {
	ts := testserver.New(t, "")

	resp := ts.Call(t, "add_client", map[string]any{"name": ""})
	require.NotNil(t, resp.Error)
	require.Equal(t, "VALIDATION_FAILED", resp.Error.Data["code"])

	resp = ts.Call(t, "add_project", map[string]any{"client_id": 99, "title": "Orphan"})
	require.NotNil(t, resp.Error)
	require.Equal(t, "NOT_FOUND", resp.Error.Data["code"])

	require.Empty(t, ts.Clients.Clients())
}

func TestFunctional_Unauthorized(t *testing.T) {
	ts := testserver.New(t, "token")

	resp, err := http.Post(ts.Server.URL+"/rpc", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFunctional_Metrics(t *testing.T) {
	ts := testserver.New(t, "")
	ts.Call(t, "add_client", map[string]any{"name": "Acme"})

	resp, err := http.Get(ts.Server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Contains(t, string(body), `clientmanager_mutations_total{op="add_client",outcome="ok"} 1`)
	require.Contains(t, string(body), `clientmanager_saves_total{outcome="ok"}`)
}

func TestFunctional_StreamableMCP(t *testing.T) {
	ts := testserver.New(t, "")
	ctx := context.Background()

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := c.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.Server.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	result, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "add_client",
		Arguments: map[string]any{"name": "Acme"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var added mcp.ClientResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &added))
	require.Equal(t, "Acme", added.Client.Name)

	require.Len(t, ts.Clients.Clients(), 1)
}
