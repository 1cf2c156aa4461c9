package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medqueue/clinic-auth/internal/api/middleware"
	"github.com/medqueue/clinic-auth/internal/core/domain"
)

// SessionCookie describes how the session id is handed to browsers.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
	// Sliding re-issues the cookie on every authenticated request so the
	// browser expiry follows the server-side TTL refresh.
	Sliding bool
}

// Slide must run after middleware.Authenticate. It re-issues the cookie only
// for sessions that arrived in it; header callers manage their own token.
func (sc SessionCookie) Slide() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sc.Sliding {
				if _, ok := domain.PrincipalFrom(c.Request().Context()); ok {
					if ck, err := c.Cookie(sc.Name); err == nil && ck.Value == middleware.SessionID(c) {
						sc.set(c, ck.Value)
					}
				}
			}
			return next(c)
		}
	}
}

func (sc SessionCookie) set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sc.TTL.Seconds()),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sc SessionCookie) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
