package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workshophub/portal/internal/api/metrics"
	"github.com/workshophub/portal/internal/api/middleware"
	"github.com/workshophub/portal/internal/core/ports"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	login ports.LoginService
}

func NewAuthHandler(login ports.LoginService) *AuthHandler {
	return &AuthHandler{login: login}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Landing string `json:"landing"`
}

// Login authenticates the visitor and establishes a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	landing, err := h.login.Login(c.Request().Context(), middleware.SessionIDFrom(c), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Landing: landing})
}

// Logout destroys the visitor's session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.login.Logout(c.Request().Context(), middleware.SessionIDFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
