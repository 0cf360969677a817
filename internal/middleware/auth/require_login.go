// Package auth holds the access guard: the single checkpoint that turns a
// bearer token into a request identity. Handlers must only ever trust the
// identity the guard attaches, never client-supplied fields.
package auth

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacthub/internal/apperr"
	"github.com/contacthub/contacthub/internal/token"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"

	bearerPrefix = "Bearer "
)

type Guard struct {
	Tokens *token.Service
}

// RequireLogin rejects the request unless it carries a valid bearer access
// token. Expired tokens fail with a distinct code so clients know a silent
// refresh is worth attempting.
func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return apperr.ErrAccessTokenMissing
		}
		raw := strings.TrimPrefix(header, bearerPrefix)
		if raw == "" {
			return apperr.ErrAccessTokenMissing
		}

		claims, err := g.Tokens.VerifyAccess(raw)
		if err != nil {
			if errors.Is(err, apperr.ErrTokenExpired) {
				return apperr.ErrAccessTokenExpired
			}
			return apperr.ErrAccessTokenMissing.WithMessage("Invalid access token")
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		return next(c)
	}
}

// Identity returns the guard-attached user id and role.
func Identity(c echo.Context) (uint, string, error) {
	userID, ok := c.Get(ctxUserID).(uint)
	if !ok {
		return 0, "", apperr.ErrUnauthorized
	}
	role, ok := c.Get(ctxRole).(string)
	if !ok {
		return 0, "", apperr.ErrUnauthorized
	}
	return userID, role, nil
}
