package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/logger"
)

const internalErrorMessage = "Internal Server Error"

var errPanic = errors.New("panic while handling request")

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// HandlerFunc is an HTTP handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.Handler. A returned error is rendered by WriteError;
// on success fn has already written the response.
func Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteError(w, r, err)
		}
	})
}

// WriteError is the single place errors become responses. An *apierr.Error is
// rendered with its own status and message; anything else becomes a 500 and
// the original error is logged.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	log := logger.Log(ctx).With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	body := errorBody{StatusCode: http.StatusInternalServerError, Message: internalErrorMessage}
	if apiErr, ok := apierr.As(err); ok {
		body = errorBody{StatusCode: apiErr.StatusCode(), Message: apiErr.Message()}
	}

	if body.StatusCode >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", zap.Int("status", body.StatusCode), zap.Error(err))
	} else {
		log.Debug(ctx, "request rejected", zap.Int("status", body.StatusCode), zap.String("reason", body.Message))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.StatusCode)
	_ = json.NewEncoder(w).Encode(body)
}
