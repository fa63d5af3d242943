package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

type CardHandler struct {
	cards *services.CardService
}

func NewCardHandler(cards *services.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

// CardRouter registers card routes. Input is validated before the token so
// malformed requests are rejected without a lookup.
func CardRouter(r chi.Router, cards *services.CardService, members *services.MemberService, g Guards) {
	h := NewCardHandler(cards)
	v := g.Validator
	idParams := validation.Params[validation.IDParams](v)
	columnParams := validation.Params[validation.ColumnParams](v)

	r.With(middleware.Pipeline(validation.Body[validation.CreateCard](v), g.Verify)).
		Method(http.MethodPost, "/", middleware.Handle(h.Create))
	r.With(middleware.Pipeline(validation.Params[validation.BoardParams](v), g.Verify)).
		Method(http.MethodGet, "/board/{boardId}", middleware.Handle(h.ListByBoard))
	r.With(middleware.Pipeline(columnParams, g.Verify)).
		Method(http.MethodGet, "/column/{columnId}", middleware.Handle(h.ListByColumn))
	r.With(middleware.Pipeline(columnParams, validation.Body[validation.UpdateCardOrder](v), g.Verify)).
		Method(http.MethodPatch, "/column/{columnId}/order", middleware.Handle(h.Reorder))

	r.Route("/{id}", func(r chi.Router) {
		r.With(middleware.Pipeline(idParams, g.Verify)).
			Method(http.MethodGet, "/", middleware.Handle(h.Get))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.UpdateCard](v), g.Verify)).
			Method(http.MethodPut, "/", middleware.Handle(h.Update))
		r.With(middleware.Pipeline(idParams, validation.Body[validation.UpdateCardPartial](v), g.Verify)).
			Method(http.MethodPatch, "/", middleware.Handle(h.Patch))
		r.With(middleware.Pipeline(idParams, g.Verify)).
			Method(http.MethodDelete, "/", middleware.Handle(h.Delete))
		if members != nil {
			r.Route("/members", func(r chi.Router) {
				MemberRouter(r, members, g)
			})
		}
	})
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) error {
	card, err := h.cards.Get(r.Context(), params[validation.IDParams](r).ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Card fetched successfully", card)
	return nil
}

func (h *CardHandler) ListByBoard(w http.ResponseWriter, r *http.Request) error {
	cards, err := h.cards.ListByBoard(r.Context(), params[validation.BoardParams](r).BoardID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Cards fetched successfully", cards)
	return nil
}

func (h *CardHandler) ListByColumn(w http.ResponseWriter, r *http.Request) error {
	cards, err := h.cards.ListByColumn(r.Context(), params[validation.ColumnParams](r).ColumnID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Cards fetched successfully", cards)
	return nil
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	card, err := h.cards.Create(r.Context(), userID, body[validation.CreateCard](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "Card created successfully", card)
	return nil
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) error {
	return h.update(w, r, body[validation.UpdateCard](r))
}

func (h *CardHandler) Patch(w http.ResponseWriter, r *http.Request) error {
	return h.update(w, r, validation.UpdateCard(body[validation.UpdateCardPartial](r)))
}

func (h *CardHandler) update(w http.ResponseWriter, r *http.Request, in validation.UpdateCard) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	card, err := h.cards.Update(r.Context(), userID, params[validation.IDParams](r).ID, in)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Card updated successfully", card)
	return nil
}

// Reorder sets card positions in a column to the order of cardOrderIds.
func (h *CardHandler) Reorder(w http.ResponseWriter, r *http.Request) error {
	columnID := params[validation.ColumnParams](r).ColumnID
	updated, err := h.cards.Reorder(r.Context(), columnID, body[validation.UpdateCardOrder](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Card order updated successfully", map[string]any{
		"columnId": columnID,
		"updated":  updated,
	})
	return nil
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	if err := h.cards.Delete(r.Context(), userID, params[validation.IDParams](r).ID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Card deleted successfully", nil)
	return nil
}
