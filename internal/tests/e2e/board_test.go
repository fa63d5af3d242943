//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Type  string `json:"type"`
	Token string `json:"token"`
}

type resource struct {
	ID string `json:"id"`
}

func call(t *testing.T, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, baseURL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func data[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(raw))
	return v
}

func register(t *testing.T) session {
	t.Helper()
	email := fmt.Sprintf("user_%d@example.com", time.Now().UnixNano())
	status, raw := call(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "testpass123!",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	s := data[session](t, raw)
	require.NotEmpty(t, s.Token)
	assert.Equal(t, "staff", s.Type)
	return s
}

func TestBoardListCardFlow(t *testing.T) {
	owner := register(t)
	stranger := register(t)

	status, raw := call(t, http.MethodPost, "/v1/boards", owner.Token, map[string]string{
		"title":       "Launch plan",
		"description": "Everything for the launch",
		"type":        "private",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	board := data[resource](t, raw)

	status, _ = call(t, http.MethodGet, "/v1/boards/"+board.ID, stranger.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw = call(t, http.MethodPost, "/v1/lists", owner.Token, map[string]string{
		"boardId": board.ID,
		"title":   "Backlog",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	list := data[resource](t, raw)

	status, raw = call(t, http.MethodPost, "/v1/cards", owner.Token, map[string]any{
		"boardId":        board.ID,
		"listId":         list.ID,
		"title":          "Write copy",
		"checklistItems": "draft",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	card := data[resource](t, raw)

	status, raw = call(t, http.MethodPatch, "/v1/cards/"+card.ID, owner.Token, map[string]any{
		"priority": "high",
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = call(t, http.MethodGet, "/v1/cards/board/"+board.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Len(t, data[[]resource](t, raw), 1)

	status, _ = call(t, http.MethodDelete, "/v1/boards/"+board.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, raw = call(t, http.MethodGet, "/v1/boards/"+board.ID, owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	var failure apiError
	require.NoError(t, json.Unmarshal(raw, &failure))
	assert.Equal(t, "Board not found", failure.Message)
}

func TestAdminRoutes(t *testing.T) {
	user := register(t)

	status, raw := call(t, http.MethodGet, "/v1/users", user.Token, nil)
	require.Equal(t, http.StatusForbidden, status, string(raw))

	require.NoError(t, promoteToAdmin(user.Email))

	status, raw = call(t, http.MethodGet, "/v1/users?limit=5", user.Token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = call(t, http.MethodGet, "/v1/roles", user.Token, nil)
	assert.Equal(t, http.StatusForbidden, status, string(raw))
}

func TestChangePassword(t *testing.T) {
	user := register(t)

	status, raw := call(t, http.MethodPut, "/v1/users/me/password", user.Token, map[string]string{
		"currentPassword": "wrong-password",
		"newPassword":     "newpass456!",
		"confirmPassword": "newpass456!",
	})
	require.Equal(t, http.StatusBadRequest, status, string(raw))

	status, raw = call(t, http.MethodPut, "/v1/users/me/password", user.Token, map[string]string{
		"currentPassword": "testpass123!",
		"newPassword":     "newpass456!",
		"confirmPassword": "newpass456!",
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, _ = call(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": "newpass456!",
	})
	assert.Equal(t, http.StatusOK, status)
}
