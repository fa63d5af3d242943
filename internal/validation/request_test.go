package validation_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestBodyStage(t *testing.T) {
	stage := validation.Body[validation.CreateBoard](validation.Default())

	t.Run("stores payload and restores body", func(t *testing.T) {
		body := `{"title":"Roadmap","description":"Q3 plans","type":"public"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/boards", strings.NewReader(body))

		next, err := stage(req)
		require.NoError(t, err)

		payload, ok := validation.BodyFrom[validation.CreateBoard](next.Context())
		require.True(t, ok)
		assert.Equal(t, "Roadmap", *payload.Title)

		raw, err := io.ReadAll(next.Body)
		require.NoError(t, err)
		assert.JSONEq(t, body, string(raw))

		_, ok = validation.BodyFrom[validation.UpdateBoard](next.Context())
		assert.False(t, ok, "payloads are keyed by schema type")
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/boards", strings.NewReader(`{"description":"x"}`))

		next, err := stage(req)
		assert.Nil(t, next)
		apiErr, ok := apierr.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode())
		assert.Equal(t, `Title is required. "description" length must be at least 3 characters long. "type" is required`, apiErr.Message())
	})
}

func TestBodyStageRejectsOversizedBody(t *testing.T) {
	v := validation.Default().WithMaxBodyBytes(64)
	stage := validation.Body[validation.CreateBoard](v)

	body := `{"title":"Roadmap","description":"` + strings.Repeat("d", 200) + `","type":"public"}`
	next, err := stage(httptest.NewRequest(http.MethodPost, "/v1/boards", strings.NewReader(body)))
	assert.Nil(t, next)
	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode())

	small := `{"title":"Roadmap","description":"Q3","type":"public"}`
	_, err = stage(httptest.NewRequest(http.MethodPost, "/v1/boards", strings.NewReader(small)))
	apiErr, ok = apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode(), "bodies under the limit are validated")

	assert.Equal(t, validation.DefaultMaxBodyBytes, int64(1<<20))
	assert.Same(t, validation.Default(), validation.Default().WithMaxBodyBytes(0))
}

func TestParamsStage(t *testing.T) {
	v := validation.Default()

	t.Run("uuid id", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/v1/boards/x", nil), "id", uuidID)

		next, err := validation.Params[validation.IDParams](v)(req)
		require.NoError(t, err)
		params, ok := validation.ParamsFrom[validation.IDParams](next.Context())
		require.True(t, ok)
		assert.Equal(t, uuidID, params.ID)
	})

	t.Run("object id rejected by uuid rule", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/v1/boards/x", nil), "id", objectID)

		_, err := validation.Params[validation.IDParams](v)(req)
		apiErr, ok := apierr.As(err)
		require.True(t, ok)
		assert.Equal(t, validation.UUIDMessage, apiErr.Message())
	})

	t.Run("column id uses object id rule", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/v1/cards/column/x", nil), "columnId", uuidID)

		_, err := validation.Params[validation.ColumnParams](v)(req)
		apiErr, ok := apierr.As(err)
		require.True(t, ok)
		assert.Equal(t, validation.ObjectIDMessage, apiErr.Message())
	})

	t.Run("missing param", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/v1/users/", nil))

		_, err := validation.Params[validation.UserParams](v)(req)
		apiErr, ok := apierr.As(err)
		require.True(t, ok)
		assert.Equal(t, `"userId" is required`, apiErr.Message())
	})
}
