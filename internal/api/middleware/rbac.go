package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/pkg/metrics"
)

// RequireRole enforces the role hierarchy on a principal already attached
// by Authenticate. Administrators always pass.
func RequireRole(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := domain.PrincipalFrom(c.Request().Context())
			if err := domain.CheckRole(p, min); err != nil {
				return deny(err)
			}
			return next(c)
		}
	}
}

// SelfOrAdmin allows the request when the path parameter param names the
// caller's own id, or the caller is an administrator.
func SelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			target, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil || target <= 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
			}
			p, _ := domain.PrincipalFrom(c.Request().Context())
			if err := domain.CheckSelfOrAdmin(p, target); err != nil {
				return deny(err)
			}
			return next(c)
		}
	}
}

func deny(err error) error {
	metrics.AuthorizationDenialsTotal.WithLabelValues(domain.Reason(err)).Inc()
	return err
}
