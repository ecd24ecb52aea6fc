package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Outcome categories logged for tool calls.
const (
	outcomeOK       = "ok"
	outcomeProtocol = "protocol_error"
)

// trafficLoggingMiddleware logs one info line per tool call with the tool name,
// outcome and duration. At debug level it also logs every request and response payload.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil {
				return next(ctx, method, req)
			}
			debug := logger.Enabled(ctx, slog.LevelDebug)
			sessionID := safeSessionID(req)

			if debug {
				logger.Debug("mcp traffic", "direction", direction, "stage", "request", "method", method, "session_id", sessionID, "params", formatPayload(safeParams(req)))
			}

			start := time.Now()
			result, err := next(ctx, method, req)

			if method == "tools/call" {
				logger.Info("tool call",
					"tool", toolName(safeParams(req)),
					"outcome", toolOutcome(result, err),
					"elapsed", time.Since(start),
					"session_id", sessionID)
			}

			if debug && !strings.HasPrefix(method, "notifications/") {
				if err != nil {
					logger.Debug("mcp traffic", "direction", direction, "stage", "response", "method", method, "session_id", sessionID, "error", err)
				} else {
					logger.Debug("mcp traffic", "direction", direction, "stage", "response", "method", method, "session_id", sessionID, "result", formatPayload(result))
				}
			}

			return result, err
		}
	}
}

// toolName reads the tool name from call params without depending on their concrete type.
func toolName(params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	var call struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &call); err != nil {
		return ""
	}
	return call.Name
}

// toolOutcome is "ok", the API error code of a tool error, or "protocol_error".
func toolOutcome(result sdkmcp.Result, err error) string {
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr.Code
		}
		return outcomeProtocol
	}
	res, ok := result.(*sdkmcp.CallToolResult)
	if !ok || res == nil || !res.IsError {
		return outcomeOK
	}
	for _, content := range res.Content {
		text, ok := content.(*sdkmcp.TextContent)
		if !ok {
			continue
		}
		var apiErr APIError
		if json.Unmarshal([]byte(text.Text), &apiErr) == nil && apiErr.Code != "" {
			return apiErr.Code
		}
	}
	return "tool_error"
}

func safeSessionID(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	defer func() { recover() }()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) any {
	if req == nil {
		return nil
	}
	defer func() { recover() }()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
