package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/logger"
	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/services"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

const (
	formFieldAvatar    = "avatar"
	maxMultipartMemory = 1 << 20
)

// UserHandler serves account, avatar and role assignment endpoints.
type UserHandler struct {
	users          *services.UserService
	maxAvatarBytes int64
}

func NewUserHandler(users *services.UserService, maxAvatarBytes int64) *UserHandler {
	return &UserHandler{users: users, maxAvatarBytes: maxAvatarBytes}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, users *services.UserService, g Guards, maxAvatarBytes int64) {
	h := NewUserHandler(users, maxAvatarBytes)
	self := middleware.Authorize(middleware.RequireOwnership(middleware.PathParam("userId")))
	userParams := validation.Params[validation.UserParams](g.Validator)

	r.With(middleware.Pipeline(g.Verify, middleware.Authorize(g.Admin))).
		Method(http.MethodGet, "/", middleware.Handle(h.List))

	r.Route("/me", func(r chi.Router) {
		r.Use(middleware.Pipeline(g.Verify))
		r.Method(http.MethodGet, "/", middleware.Handle(h.Me))
		r.With(middleware.Pipeline(validation.Body[validation.ChangePassword](g.Validator))).
			Method(http.MethodPut, "/password", middleware.Handle(h.ChangePassword))
		r.Method(http.MethodPut, "/avatar", middleware.Handle(h.UploadAvatar))
	})

	r.Route("/{userId}", func(r chi.Router) {
		r.With(middleware.Pipeline(userParams, g.Verify, self)).
			Method(http.MethodGet, "/", middleware.Handle(h.Get))
		r.With(middleware.Pipeline(userParams, g.Verify, self)).
			Method(http.MethodGet, "/avatar", middleware.Handle(h.Avatar))
		r.With(middleware.Pipeline(
			userParams,
			validation.Body[validation.AssignRoles](g.Validator),
			g.Verify,
			middleware.Authorize(g.Admin),
		)).Method(http.MethodPut, "/roles", middleware.Handle(h.AssignRoles))
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) error {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		return err
	}

	users, total, err := h.users.List(r.Context(), offset, limit)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Users retrieved successfully", PageResponse{
		Items: users,
		Page:  page,
		Limit: limit,
		Total: total,
	})
	return nil
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) error {
	id, err := callerID(r)
	if err != nil {
		return err
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "User fetched successfully", user)
	return nil
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, err := h.users.Get(r.Context(), params[validation.UserParams](r).UserID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "User retrieved successfully", user)
	return nil
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) error {
	id, err := callerID(r)
	if err != nil {
		return err
	}
	if err := h.users.ChangePassword(r.Context(), id, body[validation.ChangePassword](r)); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Password changed successfully", nil)
	return nil
}

// UploadAvatar accepts a multipart form with a single "avatar" file.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) error {
	id, err := callerID(r)
	if err != nil {
		return err
	}

	if h.maxAvatarBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxAvatarBytes)
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierr.New(http.StatusRequestEntityTooLarge, "Avatar exceeds the upload limit")
		}
		return apierr.BadRequest("Invalid multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(formFieldAvatar)
	if err != nil {
		return apierr.BadRequest("Avatar file is required")
	}
	defer file.Close()

	user, err := h.users.SetAvatar(r.Context(), id, file, header.Size)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "User updated successfully", user)
	return nil
}

// Avatar streams the stored avatar image.
func (h *UserHandler) Avatar(w http.ResponseWriter, r *http.Request) error {
	obj, err := h.users.OpenAvatar(r.Context(), params[validation.UserParams](r).UserID)
	if err != nil {
		return err
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		logger.Log(r.Context()).Warn(r.Context(), "avatar stream interrupted", zap.Error(err))
	}
	return nil
}

func (h *UserHandler) AssignRoles(w http.ResponseWriter, r *http.Request) error {
	userID := params[validation.UserParams](r).UserID
	if err := h.users.AssignRoles(r.Context(), userID, body[validation.AssignRoles](r)); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, "Roles assigned successfully", nil)
	return nil
}
