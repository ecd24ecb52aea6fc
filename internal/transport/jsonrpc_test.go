package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/subhstories/clientmanager/internal/domain/client"
	"github.com/subhstories/clientmanager/internal/mcp"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"get_client","params":{"id":1},"id":1}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "get_client", req.Method)
	require.Equal(t, json.RawMessage(`{"id":1}`), req.Params)
}

func TestParseRequest_Invalid(t *testing.T) {
	_, err := ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0","id":1}`))
	require.ErrorIs(t, err, errInvalid)

	_, err = ParseRequest(bytes.NewBufferString(`{"jsonrpc":`))
	require.ErrorIs(t, err, errParse)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, ErrInvalidParams, "bad params", nil)

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrInvalidParams, resp.Error.Code)
	require.Equal(t, "bad params", resp.Error.Message)
}

func TestErrorFor(t *testing.T) {
	validation := mcp.MapError(fmt.Errorf("%w: name is required", client.ErrValidation))

	tests := []struct {
		name string
		err  error
		code int
		data any
	}{
		{name: "unknown method", err: fmt.Errorf("%w: drop_all", mcp.ErrMethodNotFound), code: ErrMethodNotFound},
		{name: "bad params", err: fmt.Errorf("%w: id", mcp.ErrInvalidParams), code: ErrInvalidParams},
		{name: "store error", err: validation, code: ErrApplication, data: validation},
		{name: "unexpected", err: errors.New("boom"), code: ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpcErr := ErrorFor(tt.err)
			require.Equal(t, tt.code, rpcErr.Code)
			if tt.data != nil {
				require.Equal(t, tt.data, rpcErr.Data)
			} else {
				require.Nil(t, rpcErr.Data)
			}
		})
	}

	require.Equal(t, "validation failed: name is required", ErrorFor(validation).Message)
	require.Equal(t, "internal error", ErrorFor(errors.New("disk on fire")).Message)
}
