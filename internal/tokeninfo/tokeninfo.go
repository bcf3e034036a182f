// Package tokeninfo reads the claims of a JWT access token without
// verifying it. The client never holds the signing key, so the result is
// for display only and must not drive authorization decisions.
package tokeninfo

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrEmptyToken indicates that there is no token to inspect.
	ErrEmptyToken = errors.New("token is empty")
	// ErrMalformedToken indicates that the token is not a decodable JWT.
	ErrMalformedToken = errors.New("token is not a valid JWT")
)

// Info holds the registered claims of a token.
type Info struct {
	// Algorithm is the signing algorithm from the token header.
	Algorithm string
	// Subject is the "sub" claim, if present.
	Subject string
	// IssuedAt is the "iat" claim, or the zero time.
	IssuedAt time.Time
	// ExpiresAt is the "exp" claim, or the zero time.
	ExpiresAt time.Time
	// Claims holds every claim of the payload.
	Claims jwt.MapClaims
}

// Inspect decodes token without checking its signature.
func Inspect(token string) (*Info, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	claims := jwt.MapClaims{}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	info := &Info{
		Algorithm: parsed.Method.Alg(),
		Claims:    claims,
	}

	if info.Subject, err = claims.GetSubject(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	if issuedAt != nil {
		info.IssuedAt = issuedAt.Time
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	if expiresAt != nil {
		info.ExpiresAt = expiresAt.Time
	}

	return info, nil
}

// HasExpiry reports whether the token carries an "exp" claim.
func (i *Info) HasExpiry() bool {
	return !i.ExpiresAt.IsZero()
}

// IsExpired reports whether the token has expired at now.
// A token without expiry never expires.
func (i *Info) IsExpired(now time.Time) bool {
	return i.HasExpiry() && !now.Before(i.ExpiresAt)
}

// StringClaim returns a string claim such as "id" or "rol".
func (i *Info) StringClaim(name string) (string, bool) {
	value, ok := i.Claims[name].(string)

	return value, ok
}
