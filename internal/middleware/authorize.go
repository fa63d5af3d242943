package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/auth"
	"github.com/taskboard-pm/apiserver/internal/store"
	"github.com/taskboard-pm/apiserver/types"
)

// Policy decides whether the verified caller may proceed. It returns nil to
// allow the request or the error to respond with.
type Policy func(r *http.Request, id auth.Identity) error

// UserFinder loads users for the admin policy.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (types.User, error)
}

// PermissionChecker answers named permission checks.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, name string) (bool, error)
}

// Authorize runs policies in order against the identity attached by
// VerifyToken. The first denial ends the request.
func Authorize(policies ...Policy) Stage {
	return func(r *http.Request) (*http.Request, error) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			return r, apierr.Unauthorized("Access token is required")
		}
		for _, policy := range policies {
			if err := policy(r, id); err != nil {
				return r, err
			}
		}
		return r, nil
	}
}

// RequireOwnership allows the caller only when it is the user returned by
// owner. Errors from owner are passed through.
func RequireOwnership(owner func(r *http.Request) (string, error)) Policy {
	return func(r *http.Request, id auth.Identity) error {
		ownerID, err := owner(r)
		if err != nil {
			return err
		}
		if ownerID != id.UserID {
			return apierr.Forbidden("Access denied: you can only access your own resources")
		}
		return nil
	}
}

// PathParam reads the owning user id straight from a path segment.
func PathParam(name string) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		return chi.URLParam(r, name), nil
	}
}

// RequireAdmin allows callers whose account type is admin.
func RequireAdmin(users UserFinder) Policy {
	return func(r *http.Request, id auth.Identity) error {
		user, err := users.GetByID(r.Context(), id.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apierr.NotFound("User not found")
			}
			return err
		}
		if !user.IsAdmin() {
			return apierr.Forbidden("Admin access required")
		}
		return nil
	}
}

// RequirePermission allows callers holding the named permission through a
// role or a direct grant.
func RequirePermission(checker PermissionChecker, name string) Policy {
	return func(r *http.Request, id auth.Identity) error {
		ok, err := checker.HasPermission(r.Context(), id.UserID, name)
		if err != nil {
			return fmt.Errorf("check permission %s: %w", name, err)
		}
		if !ok {
			return apierr.Forbidden(fmt.Sprintf("Permission denied: %s is required", name))
		}
		return nil
	}
}
