package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/auth"
	"github.com/taskboard-pm/apiserver/internal/middleware"
	"github.com/taskboard-pm/apiserver/internal/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Guards bundles the pipeline stages and policies shared by every router.
type Guards struct {
	Validator  *validation.Validator
	Verify     middleware.Stage
	Admin      middleware.Policy
	Permission func(name string) middleware.Policy
}

// Envelope wraps every successful response body.
type Envelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PageResponse is the data of a paginated listing.
type PageResponse struct {
	Items any `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Code:    status,
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func parsePagination(r *http.Request) (page, limit, offset int, err error) {
	page = defaultPage
	limit = defaultLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, 0, apierr.BadRequest("Invalid page")
		}
	}

	rawLimit := strings.TrimSpace(r.URL.Query().Get("limit"))
	if rawLimit == "" {
		rawLimit = strings.TrimSpace(r.URL.Query().Get("per_page"))
	}
	if rawLimit != "" {
		limit, err = strconv.Atoi(rawLimit)
		if err != nil || limit < 1 {
			return 0, 0, 0, apierr.BadRequest("Invalid limit")
		}
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	offset = (page - 1) * limit
	return page, limit, offset, nil
}

// callerID returns the id of the verified caller.
func callerID(r *http.Request) (string, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok || id.UserID == "" {
		return "", apierr.Unauthorized("Access token is required")
	}
	return id.UserID, nil
}

func body[T any](r *http.Request) T {
	payload, _ := validation.BodyFrom[T](r.Context())
	return payload
}

func params[T any](r *http.Request) T {
	p, _ := validation.ParamsFrom[T](r.Context())
	return p
}
