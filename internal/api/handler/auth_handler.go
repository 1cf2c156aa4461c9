package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medqueue/clinic-auth/internal/api/middleware"
	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      SessionCookie
}

func NewAuthHandler(authService ports.AuthService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login authenticates by email and password and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookie.set(c, res.SessionID)
	return c.JSON(http.StatusOK, loginResponse{
		Principal: toPrincipalResponse(res.Principal),
		Session: sessionResponse{
			Token:     res.SessionID,
			ExpiresIn: int64(h.cookie.TTL.Seconds()),
		},
	})
}

// Logout destroys the caller's session, if any, and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      200
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sid := middleware.SessionID(c); sid != "" {
		h.authService.Logout(c.Request().Context(), sid)
	}
	h.cookie.clear(c)
	return c.NoContent(http.StatusOK)
}

// Me returns the principal behind the current session.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     SessionToken
// @Success      200  {object}  principalResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, toPrincipalResponse(p))
}
