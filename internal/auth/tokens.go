package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimUserID is the JWT claim carrying the authenticated user id.
const ClaimUserID = "userId"

const DefaultTokenTTL = 14 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Tokens)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(t *Tokens) { t.now = now }
}

func NewTokens(secret string, ttl time.Duration, opts ...Option) (*Tokens, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	t := &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue signs a token for userID.
func (t *Tokens) Issue(userID string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		ClaimUserID: userID,
		"iat":       now.Unix(),
		"exp":       now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the signature and expiry of a token and returns its identity.
// Malformed, tampered or unverifiable tokens yield ErrInvalidToken and expired
// ones ErrTokenExpired; any other failure is returned as is.
func (t *Tokens) Verify(tokenString string) (Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		default:
			return Identity{}, err
		}
	}

	userID, _ := claims[ClaimUserID].(string)
	if strings.TrimSpace(userID) == "" {
		return Identity{}, fmt.Errorf("%w: missing %s claim", ErrInvalidToken, ClaimUserID)
	}
	return Identity{UserID: userID, Claims: claims}, nil
}
