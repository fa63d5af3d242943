package services

import (
	"context"

	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

type RoleRepository interface {
	List(ctx context.Context) ([]types.Role, error)
	Get(ctx context.Context, id string) (types.Role, error)
	Create(ctx context.Context, role types.Role) (types.Role, error)
	Update(ctx context.Context, role types.Role) (types.Role, error)
	Delete(ctx context.Context, id string) error
	SetPermissions(ctx context.Context, roleID string, permissionIDs []string) error
}

type PermissionRepository interface {
	List(ctx context.Context) ([]types.Permission, error)
	Get(ctx context.Context, id string) (types.Permission, error)
	Create(ctx context.Context, permission types.Permission) (types.Permission, error)
	Update(ctx context.Context, permission types.Permission) (types.Permission, error)
	Delete(ctx context.Context, id string) error
}

// RoleService manages roles and the permissions they grant. Changes that
// alter grants invalidate the permission cache.
type RoleService struct {
	repo        RoleRepository
	invalidator CacheInvalidator
}

func NewRoleService(repo RoleRepository, invalidator CacheInvalidator) *RoleService {
	return &RoleService{repo: repo, invalidator: invalidator}
}

func (s *RoleService) List(ctx context.Context) ([]types.Role, error) {
	return s.repo.List(ctx)
}

func (s *RoleService) Get(ctx context.Context, id string) (types.Role, error) {
	role, err := s.repo.Get(ctx, id)
	return role, roleResource.translate(err)
}

func (s *RoleService) Create(ctx context.Context, in validation.CreateRole) (types.Role, error) {
	role, err := s.repo.Create(ctx, types.Role{Name: *in.Name, Description: in.Description})
	return role, roleResource.translate(err)
}

func (s *RoleService) Update(ctx context.Context, id string, in validation.UpdateRole) (types.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return types.Role{}, err
	}
	assign(&role.Name, in.Name)
	assign(&role.Description, in.Description)

	role, err = s.repo.Update(ctx, role)
	return role, roleResource.translate(err)
}

func (s *RoleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return roleResource.translate(err)
	}
	invalidate(ctx, s.invalidator)
	return nil
}

// AssignPermissions replaces the permissions of a role and returns the updated role.
func (s *RoleService) AssignPermissions(ctx context.Context, id string, in validation.AssignPermissions) (types.Role, error) {
	if err := s.repo.SetPermissions(ctx, id, in.PermissionIDs); err != nil {
		return types.Role{}, roleResource.translate(err)
	}
	invalidate(ctx, s.invalidator)
	return s.Get(ctx, id)
}

// PermissionService manages permission definitions.
type PermissionService struct {
	repo        PermissionRepository
	invalidator CacheInvalidator
}

func NewPermissionService(repo PermissionRepository, invalidator CacheInvalidator) *PermissionService {
	return &PermissionService{repo: repo, invalidator: invalidator}
}

func (s *PermissionService) List(ctx context.Context) ([]types.Permission, error) {
	return s.repo.List(ctx)
}

func (s *PermissionService) Get(ctx context.Context, id string) (types.Permission, error) {
	permission, err := s.repo.Get(ctx, id)
	return permission, permissionResource.translate(err)
}

func (s *PermissionService) Create(ctx context.Context, in validation.CreatePermission) (types.Permission, error) {
	permission, err := s.repo.Create(ctx, types.Permission{Name: *in.Name, Description: in.Description})
	return permission, permissionResource.translate(err)
}

// Update renames or re-describes a permission. Renaming changes which checks
// it satisfies, so the cache is invalidated.
func (s *PermissionService) Update(ctx context.Context, id string, in validation.UpdatePermission) (types.Permission, error) {
	permission, err := s.Get(ctx, id)
	if err != nil {
		return types.Permission{}, err
	}
	assign(&permission.Name, in.Name)
	assign(&permission.Description, in.Description)

	permission, err = s.repo.Update(ctx, permission)
	if err != nil {
		return types.Permission{}, permissionResource.translate(err)
	}
	if in.Name != nil {
		invalidate(ctx, s.invalidator)
	}
	return permission, nil
}

func (s *PermissionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return permissionResource.translate(err)
	}
	invalidate(ctx, s.invalidator)
	return nil
}
