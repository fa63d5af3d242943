package services

import (
	"bytes"
	"context"
	"io"

	"github.com/taskboard-pm/apiserver/internal/storage"
	"github.com/taskboard-pm/apiserver/internal/store"
	"github.com/taskboard-pm/apiserver/types"
)

type fakeUsers struct {
	byID     map[string]types.User
	created  []types.User
	roles    map[string][]string
	createFn func(types.User) error
}

func newFakeUsers(users ...types.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]types.User{}, roles: map[string][]string{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (types.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUsers) List(context.Context, int, int) ([]types.User, int, error) {
	var out []types.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeUsers) Create(_ context.Context, u types.User) (types.User, error) {
	if f.createFn != nil {
		if err := f.createFn(u); err != nil {
			return types.User{}, err
		}
	}
	u.ID = "new-user"
	f.byID[u.ID] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = hash
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) UpdateAvatar(_ context.Context, id, avatar string) error {
	u, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Avatar = avatar
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) SetRoles(_ context.Context, userID string, roleIDs []string) error {
	if _, ok := f.byID[userID]; !ok {
		return store.ErrNotFound
	}
	f.roles[userID] = roleIDs
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string) (string, error) { return "token-" + userID, nil }

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(context.Context) error {
	f.calls++
	return nil
}

type memoryObjects struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryObjects) EnsureBucket(context.Context) error { return nil }

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryObjects) Get(_ context.Context, key string) (storage.Object, error) {
	data, ok := m.objects[key]
	if !ok {
		return storage.Object{}, storage.ErrObjectNotFound
	}
	return storage.Object{Body: io.NopCloser(bytes.NewReader(data)), ContentType: m.types[key], Size: int64(len(data))}, nil
}

func (m *memoryObjects) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryObjects) Close() error { return nil }

type recordedEvents struct {
	activities []types.Activity
}

func (r *recordedEvents) Publish(_ context.Context, a types.Activity) {
	r.activities = append(r.activities, a)
}

type fakeBoards struct {
	boards  map[string]types.Board
	deleted []string
}

func (f *fakeBoards) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]types.Board, int, error) {
	var out []types.Board
	for _, b := range f.boards {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (f *fakeBoards) Get(_ context.Context, id string) (types.Board, error) {
	b, ok := f.boards[id]
	if !ok {
		return types.Board{}, store.ErrNotFound
	}
	return b, nil
}

func (f *fakeBoards) Create(_ context.Context, b types.Board) (types.Board, error) {
	b.ID = "b-new"
	f.boards[b.ID] = b
	return b, nil
}

func (f *fakeBoards) Update(_ context.Context, b types.Board) (types.Board, error) {
	f.boards[b.ID] = b
	return b, nil
}

func (f *fakeBoards) Delete(_ context.Context, id string) error {
	if _, ok := f.boards[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.boards, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCards struct {
	cards   map[string]types.Card
	reorder []string
}

func (f *fakeCards) Get(_ context.Context, id string) (types.Card, error) {
	c, ok := f.cards[id]
	if !ok {
		return types.Card{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeCards) ListByBoard(context.Context, string) ([]types.Card, error)  { return nil, nil }
func (f *fakeCards) ListByColumn(context.Context, string) ([]types.Card, error) { return nil, nil }

func (f *fakeCards) Create(_ context.Context, c types.Card) (types.Card, error) {
	c.ID = "c-new"
	f.cards[c.ID] = c
	return c, nil
}

func (f *fakeCards) Update(_ context.Context, c types.Card) (types.Card, error) {
	f.cards[c.ID] = c
	return c, nil
}

func (f *fakeCards) Delete(_ context.Context, id string) error {
	delete(f.cards, id)
	return nil
}

func (f *fakeCards) Reorder(_ context.Context, _ string, ids []string) (int64, error) {
	f.reorder = ids
	return int64(len(ids)), nil
}

type fakeMembers struct {
	roles map[string]map[string]string
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{roles: map[string]map[string]string{}}
}

func (f *fakeMembers) List(_ context.Context, resourceID string) ([]types.Member, error) {
	var out []types.Member
	for id, role := range f.roles[resourceID] {
		out = append(out, types.Member{UserID: id, Role: role})
	}
	return out, nil
}

func (f *fakeMembers) Get(_ context.Context, resourceID, userID string) (types.Member, error) {
	role, ok := f.roles[resourceID][userID]
	if !ok {
		return types.Member{}, store.ErrNotFound
	}
	return types.Member{UserID: userID, Role: role}, nil
}

func (f *fakeMembers) Add(ctx context.Context, resourceID, userID, role string) (types.Member, error) {
	if _, ok := f.roles[resourceID][userID]; ok {
		return types.Member{}, store.ErrConflict
	}
	f.set(resourceID, userID, role)
	return f.Get(ctx, resourceID, userID)
}

func (f *fakeMembers) AddIfMissing(_ context.Context, resourceID, userID, role string) (bool, error) {
	if _, ok := f.roles[resourceID][userID]; ok {
		return false, nil
	}
	f.set(resourceID, userID, role)
	return true, nil
}

func (f *fakeMembers) UpdateRole(_ context.Context, resourceID, userID, role string) error {
	if _, ok := f.roles[resourceID][userID]; !ok {
		return store.ErrNotFound
	}
	f.set(resourceID, userID, role)
	return nil
}

func (f *fakeMembers) Remove(_ context.Context, resourceID, userID string) error {
	if _, ok := f.roles[resourceID][userID]; !ok {
		return store.ErrNotFound
	}
	delete(f.roles[resourceID], userID)
	return nil
}

func (f *fakeMembers) set(resourceID, userID, role string) {
	if f.roles[resourceID] == nil {
		f.roles[resourceID] = map[string]string{}
	}
	f.roles[resourceID][userID] = role
}

type fakeTimers struct {
	timers  map[string]types.CardTimer
	entries map[string][]types.TimeEntry
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{timers: map[string]types.CardTimer{}, entries: map[string][]types.TimeEntry{}}
}

func (f *fakeTimers) Timer(_ context.Context, cardID string) (types.CardTimer, error) {
	timer := f.timers[cardID]
	timer.CardID = cardID
	return timer, nil
}

func (f *fakeTimers) Apply(ctx context.Context, cardID string, transition store.TimerTransition) (types.TimeEntry, error) {
	timer, _ := f.Timer(ctx, cardID)
	entry, next, err := transition(timer)
	if err != nil {
		return types.TimeEntry{}, err
	}
	entry.CardID = cardID
	f.timers[cardID] = next
	f.entries[cardID] = append([]types.TimeEntry{entry}, f.entries[cardID]...)
	return entry, nil
}

func (f *fakeTimers) History(_ context.Context, cardID string) ([]types.TimeEntry, error) {
	return f.entries[cardID], nil
}

func (f *fakeTimers) Reset(_ context.Context, cardID string) error {
	f.timers[cardID] = types.CardTimer{CardID: cardID}
	return nil
}
