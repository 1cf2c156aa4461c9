package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
)

// HeaderSessionToken carries the session id for callers that do not keep cookies.
const HeaderSessionToken = "X-Session-Token"

const sessionIDKey = "session_id"

// SessionToken copies the session id from the cookie, or failing that the
// X-Session-Token header, into the echo context. It never rejects.
func SessionToken(cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if ck, err := c.Cookie(cookieName); err == nil {
				token = ck.Value
			}
			if token == "" {
				token = c.Request().Header.Get(HeaderSessionToken)
			}
			c.Set(sessionIDKey, token)
			return next(c)
		}
	}
}

// SessionID returns the id stored by SessionToken, or "".
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}

// Authenticate restores the session and rejects unless it yields an active
// principal. The principal is attached to the request context for handlers
// and later middleware.
func Authenticate(authz ports.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := authz.RequireAuthenticated(c.Request().Context(), SessionID(c))
			if err != nil {
				return err
			}
			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}
