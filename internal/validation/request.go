package validation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard-pm/apiserver/internal/apierr"
)

type bodyKey[T any] struct{}

type paramsKey[T any] struct{}

// Body returns a pipeline stage that validates the JSON body against schema T.
// On success the typed payload is stored in the request context and the raw
// body is restored so downstream handlers see the request unchanged. Bodies
// over the validator's size limit are rejected with 413 before decoding.
func Body[T any](v *Validator) func(*http.Request) (*http.Request, error) {
	return func(r *http.Request) (*http.Request, error) {
		data, err := readBody(r, v.maxBodyBytes)
		if err != nil {
			return nil, err
		}

		var payload T
		if err := v.DecodeJSON(data, &payload); err != nil {
			return nil, err
		}
		return r.WithContext(context.WithValue(r.Context(), bodyKey[T]{}, payload)), nil
	}
}

// BodyFrom returns the payload stored by Body[T].
func BodyFrom[T any](ctx context.Context) (T, bool) {
	payload, ok := ctx.Value(bodyKey[T]{}).(T)
	return payload, ok
}

// Params returns a pipeline stage that validates chi path parameters against schema T.
func Params[T any](v *Validator) func(*http.Request) (*http.Request, error) {
	return func(r *http.Request) (*http.Request, error) {
		var params T
		lookup := func(name string) string { return chi.URLParam(r, name) }
		if err := v.DecodeParams(lookup, &params); err != nil {
			return nil, err
		}
		return r.WithContext(context.WithValue(r.Context(), paramsKey[T]{}, params)), nil
	}
}

// ParamsFrom returns the parameters stored by Params[T].
func ParamsFrom[T any](ctx context.Context) (T, bool) {
	params, ok := ctx.Value(paramsKey[T]{}).(T)
	return params, ok
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, limit))
	_ = r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apierr.New(http.StatusRequestEntityTooLarge, "Request body too large")
		}
		return nil, apierr.BadRequest("Unable to read request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}
