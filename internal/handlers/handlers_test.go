package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-pm/apiserver/internal/auth"
	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/store"
	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

type memoryBoards struct {
	mu     sync.Mutex
	boards map[string]types.Board
}

func newMemoryBoards() *memoryBoards {
	return &memoryBoards{boards: map[string]types.Board{}}
}

func (m *memoryBoards) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]types.Board, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var owned []types.Board
	for _, b := range m.boards {
		if b.OwnerID == ownerID {
			owned = append(owned, b)
		}
	}
	total := len(owned)
	if offset >= total {
		return []types.Board{}, total, nil
	}
	end := min(offset+limit, total)
	return owned[offset:end], total, nil
}

func (m *memoryBoards) Get(_ context.Context, id string) (types.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return types.Board{}, store.ErrNotFound
	}
	return b, nil
}

func (m *memoryBoards) Create(_ context.Context, b types.Board) (types.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	m.boards[b.ID] = b
	return b, nil
}

func (m *memoryBoards) Update(_ context.Context, b types.Board) (types.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[b.ID]; !ok {
		return types.Board{}, store.ErrNotFound
	}
	m.boards[b.ID] = b
	return b, nil
}

func (m *memoryBoards) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.boards, id)
	return nil
}

type memoryMembers struct {
	mu    sync.Mutex
	roles map[string]map[string]string
}

func newMemoryMembers() *memoryMembers {
	return &memoryMembers{roles: map[string]map[string]string{}}
}

func (m *memoryMembers) List(_ context.Context, resourceID string) ([]types.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.Member{}
	for id, role := range m.roles[resourceID] {
		out = append(out, types.Member{UserID: id, Role: role})
	}
	return out, nil
}

func (m *memoryMembers) Get(_ context.Context, resourceID, userID string) (types.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[resourceID][userID]
	if !ok {
		return types.Member{}, store.ErrNotFound
	}
	return types.Member{UserID: userID, Role: role}, nil
}

func (m *memoryMembers) Add(ctx context.Context, resourceID, userID, role string) (types.Member, error) {
	added, _ := m.AddIfMissing(ctx, resourceID, userID, role)
	if !added {
		return types.Member{}, store.ErrConflict
	}
	return m.Get(ctx, resourceID, userID)
}

func (m *memoryMembers) AddIfMissing(_ context.Context, resourceID, userID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[resourceID][userID]; ok {
		return false, nil
	}
	if m.roles[resourceID] == nil {
		m.roles[resourceID] = map[string]string{}
	}
	m.roles[resourceID][userID] = role
	return true, nil
}

func (m *memoryMembers) UpdateRole(_ context.Context, resourceID, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[resourceID][userID]; !ok {
		return store.ErrNotFound
	}
	m.roles[resourceID][userID] = role
	return nil
}

func (m *memoryMembers) Remove(_ context.Context, resourceID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[resourceID][userID]; !ok {
		return store.ErrNotFound
	}
	delete(m.roles[resourceID], userID)
	return nil
}

type boardFixture struct {
	router  http.Handler
	tokens  *auth.Tokens
	boards  *memoryBoards
	members *memoryMembers
}

func newBoardFixture(t *testing.T) boardFixture {
	t.Helper()
	tokens, err := auth.NewTokens("handler-secret", time.Hour)
	require.NoError(t, err)

	boards := newMemoryBoards()
	members := newMemoryMembers()
	guards := Guards{
		Validator: validation.Default(),
		Verify:    middleware.VerifyToken(tokens),
	}

	router := chi.NewRouter()
	router.Route("/v1/boards", func(r chi.Router) {
		BoardRouter(r, services.NewBoardService(boards, members, nil), services.NewBoardMemberService(members, boards), guards)
	})
	return boardFixture{router: router, tokens: tokens, boards: boards, members: members}
}

func (f boardFixture) do(t *testing.T, method, path, userID, payload string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if payload == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := f.tokens.Issue(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type failure struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	Status(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[envelope[any]](t, rec)
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "APIs V1 is working", body.Message)
}

func TestBoardLifecycle(t *testing.T) {
	f := newBoardFixture(t)
	owner := uuid.NewString()

	rec := f.do(t, http.MethodPost, "/v1/boards", owner, `{"title":"Roadmap","description":"Q3 plans","type":"private"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[envelope[types.Board]](t, rec)
	assert.Equal(t, "Board created successfully", created.Message)
	assert.Equal(t, owner, created.Data.OwnerID)

	path := "/v1/boards/" + created.Data.ID

	rec = f.do(t, http.MethodPatch, path, owner, `{"title":"Roadmap 2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[envelope[types.Board]](t, rec)
	assert.Equal(t, "Roadmap 2", updated.Data.Title)
	assert.Equal(t, "Q3 plans", updated.Data.Description)

	rec = f.do(t, http.MethodGet, "/v1/boards?page=1&limit=5", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[envelope[struct {
		Items []types.Board `json:"items"`
		Page  int           `json:"page"`
		Limit int           `json:"limit"`
		Total int           `json:"total"`
	}]](t, rec)
	assert.Equal(t, 1, page.Data.Total)
	assert.Equal(t, 5, page.Data.Limit)

	rec = f.do(t, http.MethodDelete, path, owner, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, path, owner, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Board not found", decode[failure](t, rec).Message)
}

func TestBoardCreateValidation(t *testing.T) {
	f := newBoardFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/boards", uuid.NewString(), `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, `Title is required. "description" is required. "type" is required`, decode[failure](t, rec).Message)
	assert.Empty(t, f.boards.boards)
}

func TestBoardOwnership(t *testing.T) {
	f := newBoardFixture(t)
	owner, other := uuid.NewString(), uuid.NewString()
	board, err := f.boards.Create(context.Background(), types.Board{Title: "Roadmap", OwnerID: owner, Type: "private"})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/v1/boards/"+board.ID, owner, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/boards/"+board.ID, other, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied: you can only access your own resources", decode[failure](t, rec).Message)

	rec = f.do(t, http.MethodDelete, "/v1/boards/"+board.ID, other, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, f.boards.boards, board.ID)
}

func TestBoardParamsCheckedBeforeToken(t *testing.T) {
	f := newBoardFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/boards/not-a-uuid", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/boards/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token is required", decode[failure](t, rec).Message)
}

func TestBoardMembers(t *testing.T) {
	f := newBoardFixture(t)
	owner, teammate, other := uuid.NewString(), uuid.NewString(), uuid.NewString()

	rec := f.do(t, http.MethodPost, "/v1/boards", owner, `{"title":"Roadmap","description":"Q3 plans","type":"private"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := "/v1/boards/" + decode[envelope[types.Board]](t, rec).Data.ID + "/members"

	rec = f.do(t, http.MethodPost, path, owner, `{"memberId":"`+teammate+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decode[envelope[types.Member]](t, rec)
	assert.Equal(t, types.MemberRoleMember, added.Data.Role)

	rec = f.do(t, http.MethodGet, path, owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[envelope[[]types.Member]](t, rec).Data, 2)

	rec = f.do(t, http.MethodPut, path+"/"+teammate, owner, `{"role":"owner"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, `"role" must be one of [admin, member, viewer]`, decode[failure](t, rec).Message)

	rec = f.do(t, http.MethodDelete, path+"/"+owner, owner, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The owner membership cannot be changed", decode[failure](t, rec).Message)

	rec = f.do(t, http.MethodPost, path, other, `{"memberId":"`+other+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, path+"/"+teammate, owner, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query               string
		page, limit, offset int
		wantErr             bool
	}{
		{"", 1, 10, 0, false},
		{"page=3&limit=20", 3, 20, 40, false},
		{"page=2&per_page=5", 2, 5, 5, false},
		{"limit=500", 1, 100, 0, false},
		{"page=0", 0, 0, 0, true},
		{"limit=abc", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			page, limit, offset, err := parsePagination(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{tt.page, tt.limit, tt.offset}, []int{page, limit, offset})
		})
	}
}
