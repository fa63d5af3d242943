package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-pm/apiserver/internal/apierr"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *apierr.Error
		status int
	}{
		{apierr.BadRequest("bad"), http.StatusBadRequest},
		{apierr.Unauthorized("no"), http.StatusUnauthorized},
		{apierr.Forbidden("denied"), http.StatusForbidden},
		{apierr.NotFound("missing"), http.StatusNotFound},
		{apierr.Conflict("dup"), http.StatusConflict},
		{apierr.Unprocessable("invalid"), http.StatusUnprocessableEntity},
		{apierr.TooManyRequests("slow down"), http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode())
		assert.Equal(t, tc.err.Message(), tc.err.Error())
	}
}

func TestNewf(t *testing.T) {
	err := apierr.Newf(http.StatusForbidden, "Permission denied: %s is required", "board.delete")
	assert.Equal(t, "Permission denied: board.delete is required", err.Message())
}

func TestAs(t *testing.T) {
	t.Run("wrapped api error", func(t *testing.T) {
		wrapped := fmt.Errorf("load board: %w", apierr.NotFound("Board not found"))

		apiErr, ok := apierr.As(wrapped)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode())
	})

	t.Run("plain error", func(t *testing.T) {
		apiErr, ok := apierr.As(errors.New("boom"))
		assert.False(t, ok)
		assert.Nil(t, apiErr)
	})
}
