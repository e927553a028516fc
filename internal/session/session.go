// Package session carries the authenticated caller through a request as
// an explicit value instead of process-wide state.
package session

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
)

const contextKey = "session"

const (
	ProviderPassword = "password"
	ProviderFirebase = "firebase"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Session struct {
	UID      string `json:"uid"`
	Username string `json:"username,omitempty"`
	Provider string `json:"provider"`
}

// Verifier turns a bearer token into a Session.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

// Chain tries each verifier in order and returns the first success.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, token string) (*Session, error) {
	for _, v := range c {
		if v == nil {
			continue
		}
		if s, err := v.Verify(ctx, token); err == nil {
			return s, nil
		}
	}
	return nil, ErrInvalidToken
}

func Set(c echo.Context, s *Session) {
	c.Set(contextKey, s)
}

func From(c echo.Context) (*Session, bool) {
	s, ok := c.Get(contextKey).(*Session)
	return s, ok && s != nil
}

// UID returns the caller's id, or "" for anonymous requests.
func UID(c echo.Context) string {
	if s, ok := From(c); ok {
		return s.UID
	}
	return ""
}
