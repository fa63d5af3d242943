package services

import (
	"errors"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/store"
)

// resource names the client-facing messages for one kind of record.
type resource struct {
	notFound  string
	conflict  string
	reference string
}

var (
	userResource       = resource{notFound: "User not found", conflict: "Email already exists", reference: "Role not found"}
	boardResource      = resource{notFound: "Board not found"}
	listResource       = resource{notFound: "List not found", reference: "Board not found"}
	cardResource       = resource{notFound: "Card not found", reference: "Board or list not found"}
	companyResource    = resource{notFound: "Company not found"}
	departmentResource = resource{notFound: "Department not found", reference: "Company not found"}
	roleResource       = resource{notFound: "Role not found", conflict: "Role name already exists", reference: "Permission not found"}
	permissionResource = resource{notFound: "Permission not found", conflict: "Permission name already exists"}
	memberResource     = resource{notFound: "Member not found", conflict: "User is already a member", reference: "User not found"}
	timerResource      = resource{notFound: "Card not found", reference: "Card not found"}
)

// translate maps store sentinels to API errors. Anything else is returned unchanged.
func (r resource) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apierr.NotFound(r.notFound)
	case errors.Is(err, store.ErrConflict) && r.conflict != "":
		return apierr.Conflict(r.conflict)
	case errors.Is(err, store.ErrInvalidReference) && r.reference != "":
		return apierr.NotFound(r.reference)
	}
	return err
}
