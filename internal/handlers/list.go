package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

type ListHandler struct {
	lists *services.ListService
}

func NewListHandler(lists *services.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

// ListRouter registers list routes on the given router.
func ListRouter(r chi.Router, lists *services.ListService, g Guards) {
	h := NewListHandler(lists)
	v := g.Validator
	idParams := validation.Params[validation.IDParams](v)

	r.Use(middleware.Pipeline(g.Verify))

	r.With(middleware.Pipeline(validation.Body[validation.CreateList](v))).
		Method(http.MethodPost, "/", middleware.Handle(h.Create))
	r.With(middleware.Pipeline(validation.Params[validation.BoardParams](v))).
		Method(http.MethodGet, "/board/{boardId}", middleware.Handle(h.ListByBoard))

	r.Route("/{id}", func(r chi.Router) {
		r.With(middleware.Pipeline(idParams)).
			Method(http.MethodGet, "/", middleware.Handle(h.Get))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.UpdateList](v))).
			Method(http.MethodPut, "/", middleware.Handle(h.Replace))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.UpdateListPartial](v))).
			Method(http.MethodPatch, "/", middleware.Handle(h.Patch))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.ReorderList](v))).
			Method(http.MethodPatch, "/reorder", middleware.Handle(h.Reorder))
		r.With(middleware.Pipeline(idParams)).
			Method(http.MethodDelete, "/", middleware.Handle(h.Delete))
	})
}

func (h *ListHandler) ListByBoard(w http.ResponseWriter, r *http.Request) error {
	lists, err := h.lists.ListByBoard(r.Context(), params[validation.BoardParams](r).BoardID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Lists by board fetched successfully", lists)
	return nil
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) error {
	list, err := h.lists.Get(r.Context(), params[validation.IDParams](r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "List detail fetched successfully", list)
	return nil
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	list, err := h.lists.Create(r.Context(), userID, body[validation.CreateList](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "List created successfully", list)
	return nil
}

// Replace overwrites a list. A missing cardOrderIds clears the card order.
func (h *ListHandler) Replace(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	list, err := h.lists.Replace(r.Context(), userID, params[validation.IDParams](r).ID, body[validation.UpdateList](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "List updated successfully", list)
	return nil
}

func (h *ListHandler) Patch(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	list, err := h.lists.Patch(r.Context(), userID, params[validation.IDParams](r).ID, body[validation.UpdateListPartial](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "List updated successfully", list)
	return nil
}

func (h *ListHandler) Reorder(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	list, err := h.lists.Reorder(r.Context(), userID, params[validation.IDParams](r).ID, body[validation.ReorderList](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Card order updated successfully", list)
	return nil
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	if err := h.lists.Delete(r.Context(), userID, params[validation.IDParams](r).ID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "List deleted successfully", nil)
	return nil
}
