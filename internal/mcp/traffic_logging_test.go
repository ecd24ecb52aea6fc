package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func TestToolOutcome(t *testing.T) {
	apiErr := &APIError{Code: "NOT_FOUND", Message: "client 9"}
	payload, err := json.Marshal(apiErr)
	require.NoError(t, err)

	require.Equal(t, "ok", toolOutcome(&sdkmcp.CallToolResult{}, nil))
	require.Equal(t, "NOT_FOUND", toolOutcome(&sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(payload)}},
	}, nil))
	require.Equal(t, "tool_error", toolOutcome(&sdkmcp.CallToolResult{IsError: true}, nil))
	require.Equal(t, "protocol_error", toolOutcome(nil, errors.New("boom")))
	require.Equal(t, "NOT_FOUND", toolOutcome(nil, apiErr))
}

func TestToolName(t *testing.T) {
	require.Equal(t, "add_client", toolName(map[string]any{"name": "add_client", "arguments": map[string]any{}}))
	require.Equal(t, "", toolName(nil))
	require.Equal(t, "", toolName(func() {}))
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

func TestTrafficLogging_ToolCalls(t *testing.T) {
	var buf lockedBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	server := NewServer(Config{Clients: newFileService(t), Logger: logger})
	cs := connectTestClient(t, server)

	_, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "add_client",
		Arguments: map[string]any{"name": ""},
	})
	require.NoError(t, err)

	logged := buf.Bytes()
	var found bool
	for _, line := range bytes.Split(bytes.TrimSpace(logged), []byte("\n")) {
		var entry map[string]any
		if json.Unmarshal(line, &entry) != nil || entry["msg"] != "tool call" {
			continue
		}
		found = true
		require.Equal(t, "add_client", entry["tool"])
		require.Equal(t, "VALIDATION_FAILED", entry["outcome"])
	}
	require.True(t, found, "no tool call entry in %s", logged)
}
