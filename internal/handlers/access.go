package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

// Permission names guarding access management.
const (
	PermissionRoleManage       = "role.manage"
	PermissionPermissionManage = "permission.manage"
)

// AccessHandler serves role and permission management.
type AccessHandler struct {
	roles       *services.RoleService
	permissions *services.PermissionService
}

func NewAccessHandler(roles *services.RoleService, permissions *services.PermissionService) *AccessHandler {
	return &AccessHandler{roles: roles, permissions: permissions}
}

// RoleRouter registers role routes on the given router.
func RoleRouter(r chi.Router, h *AccessHandler, g Guards) {
	v := g.Validator
	idParams := validation.Params[validation.IDParams](v)

	r.Use(middleware.Pipeline(g.Verify, middleware.Authorize(g.Permission(PermissionRoleManage))))
	r.Method(http.MethodGet, "/", middleware.Handle(h.ListRoles))
	r.With(middleware.Pipeline(validation.Body[validation.CreateRole](v))).
		Method(http.MethodPost, "/", middleware.Handle(h.CreateRole))

	r.Route("/{id}", func(r chi.Router) {
		r.With(middleware.Pipeline(idParams)).
			Method(http.MethodGet, "/", middleware.Handle(h.GetRole))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.UpdateRole](v))).
			Method(http.MethodPut, "/", middleware.Handle(h.UpdateRole))
		r.With(middleware.Pipeline(idParams)).
			Method(http.MethodDelete, "/", middleware.Handle(h.DeleteRole))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.AssignPermissions](v))).
			Method(http.MethodPut, "/permissions", middleware.Handle(h.AssignPermissions))
	})
}

// PermissionRouter registers permission routes on the given router.
func PermissionRouter(r chi.Router, h *AccessHandler, g Guards) {
	v := g.Validator
	idParams := validation.Params[validation.IDParams](v)

	r.Use(middleware.Pipeline(g.Verify, middleware.Authorize(g.Permission(PermissionPermissionManage))))
	r.Method(http.MethodGet, "/", middleware.Handle(h.ListPermissions))
	r.With(middleware.Pipeline(validation.Body[validation.CreatePermission](v))).
		Method(http.MethodPost, "/", middleware.Handle(h.CreatePermission))

	r.Route("/{id}", func(r chi.Router) {
		r.With(middleware.Pipeline(idParams)).
			Method(http.MethodGet, "/", middleware.Handle(h.GetPermission))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.UpdatePermission](v))).
			Method(http.MethodPut, "/", middleware.Handle(h.UpdatePermission))
		r.With(middleware.Pipeline(idParams)).
			Method(http.MethodDelete, "/", middleware.Handle(h.DeletePermission))
	})
}

func (h *AccessHandler) ListRoles(w http.ResponseWriter, r *http.Request) error {
	roles, err := h.roles.List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Roles retrieved successfully", roles)
	return nil
}

func (h *AccessHandler) GetRole(w http.ResponseWriter, r *http.Request) error {
	role, err := h.roles.Get(r.Context(), params[validation.IDParams](r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Role retrieved successfully", role)
	return nil
}

func (h *AccessHandler) CreateRole(w http.ResponseWriter, r *http.Request) error {
	role, err := h.roles.Create(r.Context(), body[validation.CreateRole](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "Role created successfully", role)
	return nil
}

func (h *AccessHandler) UpdateRole(w http.ResponseWriter, r *http.Request) error {
	role, err := h.roles.Update(r.Context(), params[validation.IDParams](r).ID, body[validation.UpdateRole](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Role updated successfully", role)
	return nil
}

func (h *AccessHandler) DeleteRole(w http.ResponseWriter, r *http.Request) error {
	if err := h.roles.Delete(r.Context(), params[validation.IDParams](r).ID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Role deleted successfully", nil)
	return nil
}

// AssignPermissions replaces the permission set of a role.
func (h *AccessHandler) AssignPermissions(w http.ResponseWriter, r *http.Request) error {
	role, err := h.roles.AssignPermissions(r.Context(), params[validation.IDParams](r).ID, body[validation.AssignPermissions](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Permissions assigned successfully", role)
	return nil
}

func (h *AccessHandler) ListPermissions(w http.ResponseWriter, r *http.Request) error {
	permissions, err := h.permissions.List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Permissions retrieved successfully", permissions)
	return nil
}

func (h *AccessHandler) GetPermission(w http.ResponseWriter, r *http.Request) error {
	permission, err := h.permissions.Get(r.Context(), params[validation.IDParams](r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Permission retrieved successfully", permission)
	return nil
}

func (h *AccessHandler) CreatePermission(w http.ResponseWriter, r *http.Request) error {
	permission, err := h.permissions.Create(r.Context(), body[validation.CreatePermission](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "Permission created successfully", permission)
	return nil
}

func (h *AccessHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) error {
	permission, err := h.permissions.Update(r.Context(), params[validation.IDParams](r).ID, body[validation.UpdatePermission](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Permission updated successfully", permission)
	return nil
}

func (h *AccessHandler) DeletePermission(w http.ResponseWriter, r *http.Request) error {
	if err := h.permissions.Delete(r.Context(), params[validation.IDParams](r).ID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Permission deleted successfully", nil)
	return nil
}
