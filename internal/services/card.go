package services

import (
	"context"
	"time"

	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

// CardRepository defines persistence operations for cards.
type CardRepository interface {
	Get(ctx context.Context, id string) (types.Card, error)
	ListByBoard(ctx context.Context, boardID string) ([]types.Card, error)
	ListByColumn(ctx context.Context, columnID string) ([]types.Card, error)
	Create(ctx context.Context, card types.Card) (types.Card, error)
	Update(ctx context.Context, card types.Card) (types.Card, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, columnID string, ids []string) (int64, error)
}

// CardService encapsulates card use-cases.
type CardService struct {
	repo    CardRepository
	members MemberEnroller
	events  ActivityPublisher
}

// NewCardService builds the service. members and events may be nil.
func NewCardService(repo CardRepository, members MemberEnroller, events ActivityPublisher) *CardService {
	return &CardService{repo: repo, members: members, events: events}
}

func (s *CardService) Get(ctx context.Context, id string) (types.Card, error) {
	card, err := s.repo.Get(ctx, id)
	return card, cardResource.translate(err)
}

func (s *CardService) ListByBoard(ctx context.Context, boardID string) ([]types.Card, error) {
	return s.repo.ListByBoard(ctx, boardID)
}

func (s *CardService) ListByColumn(ctx context.Context, columnID string) ([]types.Card, error) {
	return s.repo.ListByColumn(ctx, columnID)
}

func (s *CardService) Create(ctx context.Context, actorID string, in validation.CreateCard) (types.Card, error) {
	card := types.Card{
		BoardID:        *in.BoardID,
		ListID:         *in.ListID,
		Title:          *in.Title,
		Description:    in.Description,
		Status:         validation.CardStatusTodo,
		DueDate:        dateValue(in.DueDate),
		StartDate:      dateValue(in.StartDate),
		EndDate:        dateValue(in.EndDate),
		ChecklistItems: in.ChecklistItems.Values(),
		Members:        in.Members,
		Dependencies:   in.Dependencies,
		CreatedBy:      actorID,
	}
	if in.Type != nil {
		card.Type = *in.Type
	}
	if in.Status != nil {
		card.Status = *in.Status
	}

	card, err := s.repo.Create(ctx, card)
	if err != nil {
		return types.Card{}, cardResource.translate(err)
	}
	if s.members != nil {
		if _, err := s.members.AddIfMissing(ctx, card.ID, actorID, types.MemberRoleMember); err != nil {
			return types.Card{}, memberResource.translate(err)
		}
	}
	s.publish(ctx, types.ActivityCardCreated, card, actorID)
	return card, nil
}

// Update applies the fields present in the payload. PUT and PATCH share it.
func (s *CardService) Update(ctx context.Context, actorID, id string, in validation.UpdateCard) (types.Card, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return types.Card{}, err
	}
	if in.Title != nil {
		card.Title = *in.Title
	}
	if in.Description != nil {
		card.Description = *in.Description
	}
	if in.ColumnID != nil {
		card.ColumnID = *in.ColumnID
	}
	if in.Order != nil {
		card.Position = *in.Order
	}
	if in.Priority != nil {
		card.Priority = *in.Priority
	}
	if in.DueDate != nil {
		if due, ok := validation.ParseDate(*in.DueDate); ok {
			card.DueDate = &due
		}
	}
	if in.Assignees != nil {
		card.Assignees = in.Assignees
	}

	card, err = s.repo.Update(ctx, card)
	if err != nil {
		return types.Card{}, cardResource.translate(err)
	}
	s.publish(ctx, types.ActivityCardUpdated, card, actorID)
	return card, nil
}

// Reorder assigns positions to the cards of a column in the given order and
// returns how many cards moved.
func (s *CardService) Reorder(ctx context.Context, columnID string, in validation.UpdateCardOrder) (int64, error) {
	return s.repo.Reorder(ctx, columnID, in.CardOrderIDs)
}

func (s *CardService) Delete(ctx context.Context, actorID, id string) error {
	card, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return cardResource.translate(err)
	}
	s.publish(ctx, types.ActivityCardDeleted, card, actorID)
	return nil
}

func (s *CardService) publish(ctx context.Context, kind string, card types.Card, actorID string) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, types.Activity{Kind: kind, BoardID: card.BoardID, ResourceID: card.ID, ActorID: actorID})
}

func dateValue(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, ok := validation.ParseDateValue(s)
	if !ok {
		return nil
	}
	return &t
}
