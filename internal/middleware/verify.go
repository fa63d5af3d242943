package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/auth"
)

// Verifier checks an access token and returns the identity it carries.
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// VerifyToken authenticates the bearer token of a request and attaches the
// resulting identity to its context.
func VerifyToken(verifier Verifier) Stage {
	return func(r *http.Request) (*http.Request, error) {
		header := r.Header.Get("Authorization")
		if header == "" {
			return r, apierr.Unauthorized("Access token is required")
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return r, apierr.Unauthorized("Invalid authorization header format")
		}

		identity, err := verifier.Verify(parts[1])
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return r, apierr.Unauthorized("Token has expired")
		case errors.Is(err, auth.ErrInvalidToken):
			return r, apierr.Unauthorized("Invalid token")
		case err != nil:
			return r, err
		}

		return r.WithContext(auth.WithIdentity(r.Context(), identity)), nil
	}
}
