package services

import (
	"context"

	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

// BoardRepository defines persistence operations for boards.
type BoardRepository interface {
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]types.Board, int, error)
	Get(ctx context.Context, id string) (types.Board, error)
	Create(ctx context.Context, board types.Board) (types.Board, error)
	Update(ctx context.Context, board types.Board) (types.Board, error)
	Delete(ctx context.Context, id string) error
}

// ActivityPublisher announces committed board changes.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity types.Activity)
}

// MemberEnroller adds a user to a board or card unless already present.
type MemberEnroller interface {
	AddIfMissing(ctx context.Context, resourceID, userID, role string) (bool, error)
}

// BoardService encapsulates board use-cases.
type BoardService struct {
	repo    BoardRepository
	members MemberEnroller
	events  ActivityPublisher
}

// NewBoardService builds the service. members and events may be nil.
func NewBoardService(repo BoardRepository, members MemberEnroller, events ActivityPublisher) *BoardService {
	return &BoardService{repo: repo, members: members, events: events}
}

func (s *BoardService) List(ctx context.Context, ownerID string, offset, limit int) ([]types.Board, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.repo.ListByOwner(ctx, ownerID, offset, limit)
}

func (s *BoardService) Get(ctx context.Context, id string) (types.Board, error) {
	board, err := s.repo.Get(ctx, id)
	return board, boardResource.translate(err)
}

// Owner returns the id of the user owning the board.
func (s *BoardService) Owner(ctx context.Context, id string) (string, error) {
	board, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return board.OwnerID, nil
}

func (s *BoardService) Create(ctx context.Context, actorID string, in validation.CreateBoard) (types.Board, error) {
	board, err := s.repo.Create(ctx, types.Board{
		Title:       *in.Title,
		Description: *in.Description,
		Type:        *in.Type,
		OwnerID:     actorID,
	})
	if err != nil {
		return types.Board{}, boardResource.translate(err)
	}
	if s.members != nil {
		if _, err := s.members.AddIfMissing(ctx, board.ID, actorID, types.MemberRoleOwner); err != nil {
			return types.Board{}, memberResource.translate(err)
		}
	}
	s.publish(ctx, types.ActivityBoardCreated, board.ID, actorID)
	return board, nil
}

// Update applies the fields present in the payload.
func (s *BoardService) Update(ctx context.Context, actorID, id string, in validation.UpdateBoard) (types.Board, error) {
	board, err := s.Get(ctx, id)
	if err != nil {
		return types.Board{}, err
	}
	if in.Title != nil {
		board.Title = *in.Title
	}
	if in.Description != nil {
		board.Description = *in.Description
	}
	if in.Type != nil {
		board.Type = *in.Type
	}

	board, err = s.repo.Update(ctx, board)
	if err != nil {
		return types.Board{}, boardResource.translate(err)
	}
	s.publish(ctx, types.ActivityBoardUpdated, board.ID, actorID)
	return board, nil
}

func (s *BoardService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return boardResource.translate(err)
	}
	s.publish(ctx, types.ActivityBoardDeleted, id, actorID)
	return nil
}

func (s *BoardService) publish(ctx context.Context, kind, boardID, actorID string) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, types.Activity{Kind: kind, BoardID: boardID, ResourceID: boardID, ActorID: actorID})
}
