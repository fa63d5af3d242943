package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

func TestBoardService_CreatePublishes(t *testing.T) {
	repo := &fakeBoards{boards: map[string]types.Board{}}
	members := newFakeMembers()
	events := &recordedEvents{}
	svc := NewBoardService(repo, members, events)

	board, err := svc.Create(context.Background(), "u1", validation.CreateBoard{
		Title: ptr("Roadmap"), Description: ptr("Q3 plan"), Type: ptr("private"),
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", board.OwnerID)

	require.Len(t, events.activities, 1)
	assert.Equal(t, types.ActivityBoardCreated, events.activities[0].Kind)
	assert.Equal(t, board.ID, events.activities[0].BoardID)
	assert.Equal(t, "u1", events.activities[0].ActorID)
	assert.Equal(t, types.MemberRoleOwner, members.roles[board.ID]["u1"])
}

func TestBoardService_UpdateMergesPresentFields(t *testing.T) {
	repo := &fakeBoards{boards: map[string]types.Board{
		"b1": {ID: "b1", Title: "Roadmap", Description: "Q3 plan", Type: "private", OwnerID: "u1"},
	}}
	svc := NewBoardService(repo, nil, nil)

	board, err := svc.Update(context.Background(), "u1", "b1", validation.UpdateBoard{Title: ptr("Roadmap v2")})
	require.NoError(t, err)
	assert.Equal(t, "Roadmap v2", board.Title)
	assert.Equal(t, "Q3 plan", board.Description)
	assert.Equal(t, "private", board.Type)
}

func TestBoardService_OwnerAndMissing(t *testing.T) {
	repo := &fakeBoards{boards: map[string]types.Board{"b1": {ID: "b1", OwnerID: "u1"}}}
	svc := NewBoardService(repo, nil, nil)

	owner, err := svc.Owner(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	_, err = svc.Owner(context.Background(), "b2")
	assertAPIError(t, err, http.StatusNotFound, "Board not found")

	err = svc.Delete(context.Background(), "u1", "b2")
	assertAPIError(t, err, http.StatusNotFound, "Board not found")
}

func TestCardService_CreateDefaultsStatus(t *testing.T) {
	repo := &fakeCards{cards: map[string]types.Card{}}
	members := newFakeMembers()
	events := &recordedEvents{}
	svc := NewCardService(repo, members, events)

	in := validation.CreateCard{
		BoardID:        ptr("b1"),
		ListID:         ptr("l1"),
		Title:          ptr("Ship it"),
		DueDate:        "2026-05-01",
		ChecklistItems: validation.StringOrList{Items: []string{"a", "", "b"}, IsList: true},
	}
	card, err := svc.Create(context.Background(), "u1", in)
	require.NoError(t, err)

	assert.Equal(t, validation.CardStatusTodo, card.Status)
	assert.Equal(t, "u1", card.CreatedBy)
	require.NotNil(t, card.DueDate)
	assert.Equal(t, 2026, card.DueDate.Year())
	assert.Equal(t, []string{"a", "b"}, card.ChecklistItems)
	require.Len(t, events.activities, 1)
	assert.Equal(t, "b1", events.activities[0].BoardID)
	assert.Equal(t, types.MemberRoleMember, members.roles[card.ID]["u1"])
}

func TestCardService_UpdateKeepsAbsentFields(t *testing.T) {
	repo := &fakeCards{cards: map[string]types.Card{
		"c1": {ID: "c1", BoardID: "b1", Title: "Ship it", Priority: "low", Assignees: []string{"x"}},
	}}
	svc := NewCardService(repo, nil, nil)

	card, err := svc.Update(context.Background(), "u1", "c1", validation.UpdateCard{
		Order:   ptr(3),
		DueDate: ptr("2026-05-01T10:00:00Z"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, card.Position)
	assert.Equal(t, "low", card.Priority)
	assert.Equal(t, []string{"x"}, card.Assignees)
	require.NotNil(t, card.DueDate)
	assert.Equal(t, 10, card.DueDate.Hour())

	_, err = svc.Update(context.Background(), "u1", "missing", validation.UpdateCard{})
	assertAPIError(t, err, http.StatusNotFound, "Card not found")
}

func TestCardService_Reorder(t *testing.T) {
	repo := &fakeCards{cards: map[string]types.Card{}}
	svc := NewCardService(repo, nil, nil)

	n, err := svc.Reorder(context.Background(), "col", validation.UpdateCardOrder{CardOrderIDs: []string{"a", "b"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, repo.reorder)
}
