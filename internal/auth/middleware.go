package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/letspunt/adpage/internal/apperr"
)

const identityKey = "auth.identity"

// RequireToken rejects requests without a valid bearer token and stores the
// caller Identity on the echo context.
func RequireToken(m *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return apperr.NewUnauthorized("missing bearer token")
			}

			id, err := m.Parse(strings.TrimSpace(raw))
			if err != nil {
				return apperr.NewUnauthorized("invalid or expired token")
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireToken.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return apperr.NewUnauthorized("missing bearer token")
			}
			if !id.IsAdmin {
				return apperr.NewForbidden("admin access required")
			}
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// WithIdentity attaches id to c. Used by tests and trusted internal callers.
func WithIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}
