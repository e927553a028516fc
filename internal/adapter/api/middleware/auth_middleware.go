package middleware

import (
	"github.com/labstack/echo/v4"

	"foodstore/internal/session"
	"foodstore/pkg/errors"
	"foodstore/pkg/response"
	"foodstore/pkg/utils"
)

type AuthMiddleware struct {
	verifier session.Verifier
}

func NewAuthMiddleware(verifier session.Verifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		token, ok := utils.BearerToken(header)
		if !ok {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		s, err := m.verifier.Verify(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		session.Set(c, s)
		return next(c)
	}
}

// Optional attaches a session when a valid bearer token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := utils.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return next(c)
		}

		if s, err := m.verifier.Verify(c.Request().Context(), token); err == nil {
			session.Set(c, s)
		}
		return next(c)
	}
}
