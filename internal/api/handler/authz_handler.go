package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medqueue/clinic-auth/internal/api/middleware"
	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
)

// AuthzHandler exposes authorization decisions and principal lookups to
// other services in the clinic.
type AuthzHandler struct {
	directory ports.PrincipalDirectory
}

func NewAuthzHandler(directory ports.PrincipalDirectory) *AuthzHandler {
	return &AuthzHandler{directory: directory}
}

// CheckRole answers whether the session satisfies a minimum role.
//
// @Summary      Check minimum role
// @Tags         authz
// @Security     SessionToken
// @Param        role  path  string  true  "Minimum role"  Enums(user, receptionist, doctor, admin)
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /v1/authz/roles/{role} [get]
func (h *AuthzHandler) CheckRole(c echo.Context) error {
	min, err := domain.ParseRole(c.Param("role"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return middleware.RequireRole(min)(granted)(c)
}

func granted(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// GetPrincipal returns a principal record. Users may read only themselves.
//
// @Summary      Get a principal
// @Tags         authz
// @Produce      json
// @Security     SessionToken
// @Param        kind  path      string  true  "Principal kind"  Enums(admin, user)
// @Param        id    path      int     true  "Principal id"
// @Success      200   {object}  principalResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/principals/{kind}/{id} [get]
func (h *AuthzHandler) GetPrincipal(c echo.Context) error {
	kind, err := domain.ParsePrincipalKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	caller, _ := domain.PrincipalFrom(c.Request().Context())
	if kind == domain.KindAdmin && caller != nil && caller.Kind() != domain.KindAdmin {
		return domain.ErrInsufficientRole
	}

	p, err := h.directory.Lookup(c.Request().Context(), kind, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalResponse(p))
}
