package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

// AuthHandler provides registration and login endpoints.
type AuthHandler struct {
	users *services.UserService
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// AuthRouter registers auth routes on the given router. limit guards login
// against credential stuffing.
func AuthRouter(r chi.Router, users *services.UserService, g Guards, limit middleware.Stage) {
	h := NewAuthHandler(users)

	r.With(middleware.Pipeline(validation.Body[validation.RegisterUser](g.Validator))).
		Method(http.MethodPost, "/register", middleware.Handle(h.Register))
	r.With(middleware.Pipeline(limit, validation.Body[validation.Login](g.Validator))).
		Method(http.MethodPost, "/login", middleware.Handle(h.Login))
}

// Register creates a new staff account and returns it with an access token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) error {
	session, err := h.users.Register(r.Context(), body[validation.RegisterUser](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, "User created successfully", session)
	return nil
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	session, err := h.users.Login(r.Context(), body[validation.Login](r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Login successfully", session)
	return nil
}
