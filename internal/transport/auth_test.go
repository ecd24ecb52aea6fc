package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticToken(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, StaticToken("secret").VerifyToken(ctx, "secret"))
	require.ErrorIs(t, StaticToken("secret").VerifyToken(ctx, "guess"), ErrUnauthorized)
	require.ErrorIs(t, StaticToken("").VerifyToken(ctx, ""), ErrUnauthorized)
}

func TestAuthMiddleware(t *testing.T) {
	handler := AuthMiddleware(StaticToken("token"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer token", want: http.StatusOK},
		{name: "wrong token", header: "Bearer other", want: http.StatusUnauthorized},
		{name: "missing", header: "", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}
