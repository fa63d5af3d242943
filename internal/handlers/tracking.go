package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

type TrackingHandler struct {
	tracking *services.TimeTrackingService
}

func NewTrackingHandler(tracking *services.TimeTrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking}
}

// TrackingRouter registers card time tracking routes.
func TrackingRouter(r chi.Router, tracking *services.TimeTrackingService, g Guards) {
	h := NewTrackingHandler(tracking)
	cardParams := validation.Params[validation.CardParams](g.Validator)

	r.With(middleware.Pipeline(validation.Body[validation.TrackTime](g.Validator), g.Verify)).
		Method(http.MethodPost, "/", middleware.Handle(h.Track))
	r.Route("/{cardId}", func(r chi.Router) {
		r.With(middleware.Pipeline(cardParams, g.Verify)).
			Method(http.MethodGet, "/history", middleware.Handle(h.History))
		r.With(middleware.Pipeline(cardParams, g.Verify)).
			Method(http.MethodGet, "/summary", middleware.Handle(h.Summary))
		r.With(middleware.Pipeline(cardParams, g.Verify)).
			Method(http.MethodPost, "/reset", middleware.Handle(h.Reset))
	})
}

func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	entry, err := h.tracking.Track(r.Context(), userID, body[validation.TrackTime](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "Time tracked successfully", entry)
	return nil
}

func (h *TrackingHandler) History(w http.ResponseWriter, r *http.Request) error {
	history, err := h.tracking.History(r.Context(), params[validation.CardParams](r).CardID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Time tracking history fetched successfully", history)
	return nil
}

func (h *TrackingHandler) Summary(w http.ResponseWriter, r *http.Request) error {
	summary, err := h.tracking.Summary(r.Context(), params[validation.CardParams](r).CardID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Time tracking summary fetched successfully", summary)
	return nil
}

func (h *TrackingHandler) Reset(w http.ResponseWriter, r *http.Request) error {
	if err := h.tracking.Reset(r.Context(), params[validation.CardParams](r).CardID); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Time tracking reset successfully", nil)
	return nil
}
