// Package token derives and resolves per-user calendar feed tokens.
//
// A token is a pure function of (user id, server secret): it is never
// stored and stays valid as long as the secret is unchanged. Knowing a
// token grants read access to exactly one user's feed, so the secret
// must be treated like any other credential.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
)

// Length is the number of hex characters in a calendar token.
const Length = 32

// ErrNoSecret indicates a missing or empty feed secret. This is a
// configuration fault: it must surface as a server error at the
// boundary, never as an invalid-token response.
var ErrNoSecret = errors.New("feed secret is not configured")

// Derive computes the calendar token for a user: the first 32 hex
// characters of SHA-256("<userID>-<secret>-calendar").
func Derive(userID int64, secret string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d-%s-calendar", userID, secret)))
	return hex.EncodeToString(sum[:])[:Length], nil
}

// Valid reports whether s has the shape of a calendar token: exactly 32
// lowercase hex characters. Callers use it to reject garbage before
// fetching the user list.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Authority resolves tokens back to user ids by recomputation.
type Authority struct {
	secret   string
	maxUsers int
}

// NewAuthority creates a token authority. It fails on an empty secret
// so the misconfiguration is caught at startup, not per request.
func NewAuthority(secret string, maxUsers int) (*Authority, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	return &Authority{secret: secret, maxUsers: maxUsers}, nil
}

// Derive computes the token for a user under the authority's secret.
func (a *Authority) Derive(userID int64) string {
	// The secret was checked at construction; Derive cannot fail here.
	t, _ := Derive(userID, a.secret)
	return t
}

// Resolve maps a token back to a user id by recomputing each
// candidate's token and comparing. Malformed tokens are rejected
// without looking at the candidate list. The scan is linear and
// bounded by maxUsers; resolution past that cap needs a lookup index,
// which this deliberately does not maintain.
func (a *Authority) Resolve(tok string, users []domain.User) (int64, bool) {
	if !Valid(tok) {
		return 0, false
	}

	candidates := users
	if a.maxUsers > 0 && len(candidates) > a.maxUsers {
		candidates = candidates[:a.maxUsers]
	}

	for _, u := range candidates {
		if a.Derive(u.ID) == tok {
			return u.ID, true
		}
	}

	return 0, false
}
