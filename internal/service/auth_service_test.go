package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer admin":
			_, _ = w.Write([]byte(`{"id": "a-1", "name": "Ana", "permissions": ["admin"], "enabled": true}`))
		case "Bearer disabled":
			_, _ = w.Write([]byte(`{"id": "c-9", "enabled": false}`))
		case "Bearer garbled":
			_, _ = w.Write([]byte(`{"id":`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	auth := NewAuthService(srv.URL+"/", time.Second)

	t.Run("Admin", func(t *testing.T) {
		user, err := auth.ValidateToken(context.Background(), "admin")
		require.NoError(t, err)
		assert.Equal(t, "a-1", user.ID)
		assert.True(t, user.IsAdmin())
	})

	t.Run("Rejected", func(t *testing.T) {
		_, err := auth.ValidateToken(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Disabled", func(t *testing.T) {
		_, err := auth.ValidateToken(context.Background(), "disabled")
		assert.ErrorIs(t, err, ErrUserDisabled)
	})

	t.Run("Malformed body", func(t *testing.T) {
		_, err := auth.ValidateToken(context.Background(), "garbled")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode current user")
	})

	t.Run("Unreachable", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()

		_, err := NewAuthService(dead.URL, time.Second).ValidateToken(context.Background(), "admin")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth request failed")
	})
}
