package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

// MemberHandler serves the members of the board or card named by {id}.
type MemberHandler struct {
	members *services.MemberService
}

func NewMemberHandler(members *services.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// MemberRouter registers member routes below a resource route that binds {id}.
// guards run after the token check.
func MemberRouter(r chi.Router, members *services.MemberService, g Guards, guards ...middleware.Stage) {
	h := NewMemberHandler(members)
	v := g.Validator
	stages := func(first ...middleware.Stage) func(http.Handler) http.Handler {
		all := append(first, g.Verify)
		return middleware.Pipeline(append(all, guards...)...)
	}
	idParams := validation.Params[validation.IDParams](v)
	memberParams := validation.Params[validation.MemberParams](v)

	r.With(stages(idParams)).
		Method(http.MethodGet, "/", middleware.Handle(h.List))
	r.With(stages(idParams, validation.Body[validation.AddMember](v))).
		Method(http.MethodPost, "/", middleware.Handle(h.Add))
	r.With(stages(memberParams, validation.Body[validation.UpdateMemberRole](v))).
		Method(http.MethodPut, "/{userId}", middleware.Handle(h.UpdateRole))
	r.With(stages(memberParams)).
		Method(http.MethodDelete, "/{userId}", middleware.Handle(h.Remove))
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) error {
	members, err := h.members.List(r.Context(), params[validation.IDParams](r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Members fetched successfully", members)
	return nil
}

func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) error {
	member, err := h.members.Add(r.Context(), params[validation.IDParams](r).ID, body[validation.AddMember](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "Member added successfully", member)
	return nil
}

func (h *MemberHandler) UpdateRole(w http.ResponseWriter, r *http.Request) error {
	p := params[validation.MemberParams](r)
	member, err := h.members.UpdateRole(r.Context(), p.ID, p.UserID, body[validation.UpdateMemberRole](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Member role updated successfully", member)
	return nil
}

func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) error {
	p := params[validation.MemberParams](r)
	if err := h.members.Remove(r.Context(), p.ID, p.UserID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Member removed successfully", nil)
	return nil
}
