package services

import (
	"context"

	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

// ListRepository defines persistence operations for board lists.
type ListRepository interface {
	ListByBoard(ctx context.Context, boardID string) ([]types.List, error)
	Get(ctx context.Context, id string) (types.List, error)
	Create(ctx context.Context, list types.List) (types.List, error)
	Update(ctx context.Context, list types.List) (types.List, error)
	Delete(ctx context.Context, id string) error
}

// ListService encapsulates list use-cases.
type ListService struct {
	repo   ListRepository
	events ActivityPublisher
}

func NewListService(repo ListRepository, events ActivityPublisher) *ListService {
	return &ListService{repo: repo, events: events}
}

func (s *ListService) ListByBoard(ctx context.Context, boardID string) ([]types.List, error) {
	return s.repo.ListByBoard(ctx, boardID)
}

func (s *ListService) Get(ctx context.Context, id string) (types.List, error) {
	list, err := s.repo.Get(ctx, id)
	return list, listResource.translate(err)
}

func (s *ListService) Create(ctx context.Context, actorID string, in validation.CreateList) (types.List, error) {
	list := types.List{BoardID: *in.BoardID, Title: *in.Title}
	if in.Color != nil {
		list.Color = *in.Color
	}

	list, err := s.repo.Create(ctx, list)
	if err != nil {
		return types.List{}, listResource.translate(err)
	}
	s.publish(ctx, types.ActivityListCreated, list, actorID)
	return list, nil
}

// Replace applies a PUT payload. The card order is always overwritten.
func (s *ListService) Replace(ctx context.Context, actorID, id string, in validation.UpdateList) (types.List, error) {
	return s.modify(ctx, actorID, id, func(list *types.List) {
		if in.BoardID != nil {
			list.BoardID = *in.BoardID
		}
		if in.Title != nil {
			list.Title = *in.Title
		}
		if in.Archived != nil {
			list.Archived = *in.Archived
		}
		if in.Color != nil {
			list.Color = *in.Color
		}
		list.CardOrderIDs = in.CardOrderIDs
	})
}

func (s *ListService) Patch(ctx context.Context, actorID, id string, in validation.UpdateListPartial) (types.List, error) {
	return s.modify(ctx, actorID, id, func(list *types.List) {
		if in.Title != nil {
			list.Title = *in.Title
		}
		if in.Archived != nil {
			list.Archived = *in.Archived
		}
	})
}

// Reorder replaces the card order of a list.
func (s *ListService) Reorder(ctx context.Context, actorID, id string, in validation.ReorderList) (types.List, error) {
	return s.modify(ctx, actorID, id, func(list *types.List) {
		list.CardOrderIDs = in.CardOrderIDs
	})
}

func (s *ListService) modify(ctx context.Context, actorID, id string, apply func(*types.List)) (types.List, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		return types.List{}, err
	}
	apply(&list)
	if list.CardOrderIDs == nil {
		list.CardOrderIDs = []string{}
	}

	list, err = s.repo.Update(ctx, list)
	if err != nil {
		return types.List{}, listResource.translate(err)
	}
	s.publish(ctx, types.ActivityListUpdated, list, actorID)
	return list, nil
}

func (s *ListService) Delete(ctx context.Context, actorID, id string) error {
	list, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return listResource.translate(err)
	}
	s.publish(ctx, types.ActivityListDeleted, list, actorID)
	return nil
}

func (s *ListService) publish(ctx context.Context, kind string, list types.List, actorID string) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, types.Activity{Kind: kind, BoardID: list.BoardID, ResourceID: list.ID, ActorID: actorID})
}
