package state

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal for one role. Whether the session
// is valid is derived from the principal and token, never stored separately.
type Identity[P any] struct {
	Tracker
	Principal *P
	Token     string
}

// IsAuthenticated reports whether the identity holds a principal and a token
// that has not expired.
func (i Identity[P]) IsAuthenticated() bool {
	return i.AuthenticatedAt(time.Now())
}

// AuthenticatedAt is IsAuthenticated evaluated at now. Tokens that are not
// JWTs, or JWTs without an exp claim, count by presence alone.
func (i Identity[P]) AuthenticatedAt(now time.Time) bool {
	if i.Principal == nil || strings.TrimSpace(i.Token) == "" {
		return false
	}
	exp, ok := TokenExpiry(i.Token)
	if !ok {
		return true
	}
	return now.Before(exp)
}

func (i Identity[P]) Reset() Identity[P] {
	i.Tracker = Tracker{}
	return i
}

// SignIn returns an identity holding principal and token.
func (i Identity[P]) SignIn(principal P, token string) Identity[P] {
	i.Principal = &principal
	i.Token = token
	return i
}

// SignOut clears both principal and token.
func (i Identity[P]) SignOut() Identity[P] {
	i.Principal = nil
	i.Token = ""
	return i
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The client never holds the signing key; the backend remains the authority.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
