package services

import (
	"context"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

// MemberRepository defines persistence operations for the members of one kind of resource.
type MemberRepository interface {
	List(ctx context.Context, resourceID string) ([]types.Member, error)
	Get(ctx context.Context, resourceID, userID string) (types.Member, error)
	Add(ctx context.Context, resourceID, userID, role string) (types.Member, error)
	AddIfMissing(ctx context.Context, resourceID, userID, role string) (bool, error)
	UpdateRole(ctx context.Context, resourceID, userID, role string) error
	Remove(ctx context.Context, resourceID, userID string) error
}

// MemberService manages who takes part in a board or a card.
type MemberService struct {
	repo   MemberRepository
	exists func(ctx context.Context, id string) error
}

// NewBoardMemberService manages board members.
func NewBoardMemberService(repo MemberRepository, boards BoardRepository) *MemberService {
	return &MemberService{repo: repo, exists: func(ctx context.Context, id string) error {
		_, err := boards.Get(ctx, id)
		return boardResource.translate(err)
	}}
}

// NewCardMemberService manages card members.
func NewCardMemberService(repo MemberRepository, cards CardRepository) *MemberService {
	return &MemberService{repo: repo, exists: func(ctx context.Context, id string) error {
		_, err := cards.Get(ctx, id)
		return cardResource.translate(err)
	}}
}

func (s *MemberService) List(ctx context.Context, resourceID string) ([]types.Member, error) {
	if err := s.exists(ctx, resourceID); err != nil {
		return nil, err
	}
	members, err := s.repo.List(ctx, resourceID)
	return members, memberResource.translate(err)
}

func (s *MemberService) Add(ctx context.Context, resourceID string, in validation.AddMember) (types.Member, error) {
	if err := s.exists(ctx, resourceID); err != nil {
		return types.Member{}, err
	}
	role := types.MemberRoleMember
	if in.Role != nil {
		role = *in.Role
	}
	member, err := s.repo.Add(ctx, resourceID, *in.MemberID, role)
	return member, memberResource.translate(err)
}

func (s *MemberService) UpdateRole(ctx context.Context, resourceID, userID string, in validation.UpdateMemberRole) (types.Member, error) {
	member, err := s.changeable(ctx, resourceID, userID)
	if err != nil {
		return types.Member{}, err
	}
	if err := s.repo.UpdateRole(ctx, resourceID, userID, *in.Role); err != nil {
		return types.Member{}, memberResource.translate(err)
	}
	member.Role = *in.Role
	return member, nil
}

func (s *MemberService) Remove(ctx context.Context, resourceID, userID string) error {
	if _, err := s.changeable(ctx, resourceID, userID); err != nil {
		return err
	}
	return memberResource.translate(s.repo.Remove(ctx, resourceID, userID))
}

// changeable loads a membership and refuses to touch the owner's.
func (s *MemberService) changeable(ctx context.Context, resourceID, userID string) (types.Member, error) {
	if err := s.exists(ctx, resourceID); err != nil {
		return types.Member{}, err
	}
	member, err := s.repo.Get(ctx, resourceID, userID)
	if err != nil {
		return types.Member{}, memberResource.translate(err)
	}
	if member.Role == types.MemberRoleOwner {
		return types.Member{}, apierr.BadRequest("The owner membership cannot be changed")
	}
	return member, nil
}
