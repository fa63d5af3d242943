package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

// BoardHandler serves board endpoints. Boards are visible to their owner only.
type BoardHandler struct {
	boards *services.BoardService
}

func NewBoardHandler(boards *services.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// BoardRouter registers board routes on the given router. Member routes are
// registered when members is non-nil and are limited to the board owner.
func BoardRouter(r chi.Router, boards *services.BoardService, members *services.MemberService, g Guards) {
	h := NewBoardHandler(boards)
	idParams := validation.Params[validation.IDParams](g.Validator)
	owner := middleware.Authorize(middleware.RequireOwnership(h.owner))

	r.With(middleware.Pipeline(g.Verify)).
		Method(http.MethodGet, "/", middleware.Handle(h.List))
	r.With(middleware.Pipeline(g.Verify, validation.Body[validation.CreateBoard](g.Validator))).
		Method(http.MethodPost, "/", middleware.Handle(h.Create))

	r.Route("/{id}", func(r chi.Router) {
		r.With(middleware.Pipeline(idParams, g.Verify, owner)).
			Method(http.MethodGet, "/", middleware.Handle(h.Get))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.UpdateBoard](g.Validator), g.Verify, owner)).
			Method(http.MethodPut, "/", middleware.Handle(h.Update))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.UpdateBoard](g.Validator), g.Verify, owner)).
			Method(http.MethodPatch, "/", middleware.Handle(h.Update))
		r.With(middleware.Pipeline(idParams, g.Verify, owner)).
			Method(http.MethodDelete, "/", middleware.Handle(h.Delete))
		if members != nil {
			r.Route("/members", func(r chi.Router) {
				MemberRouter(r, members, g, owner)
			})
		}
	})
}

func (h *BoardHandler) owner(r *http.Request) (string, error) {
	return h.boards.Owner(r.Context(), chi.URLParam(r, "id"))
}

// List returns the caller's boards, most recently updated first.
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		return err
	}

	boards, total, err := h.boards.List(r.Context(), userID, offset, limit)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Board list fetched successfully", PageResponse{
		Items: boards,
		Page:  page,
		Limit: limit,
		Total: total,
	})
	return nil
}

func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) error {
	board, err := h.boards.Get(r.Context(), params[validation.IDParams](r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Board detail fetched successfully", board)
	return nil
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	board, err := h.boards.Create(r.Context(), userID, body[validation.CreateBoard](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "Board created successfully", board)
	return nil
}

func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	id := params[validation.IDParams](r).ID
	board, err := h.boards.Update(r.Context(), userID, id, body[validation.UpdateBoard](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Board updated successfully", board)
	return nil
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	if err := h.boards.Delete(r.Context(), userID, params[validation.IDParams](r).ID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Board deleted successfully", nil)
	return nil
}
