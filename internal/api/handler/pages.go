package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workshophub/portal/internal/core/domain"
)

// Renderer draws a page for a route. Concrete page content (workshop lists,
// dashboards, blog) is supplied by the deployment; the portal only decides
// whether the page may be shown.
type Renderer interface {
	Render(c echo.Context, route domain.RouteDescriptor) error
}

// PageHandler serves the navigable pages of the route table through a
// Renderer.
type PageHandler struct {
	renderer Renderer
}

func NewPageHandler(renderer Renderer) *PageHandler {
	if renderer == nil {
		renderer = placeholderRenderer{}
	}
	return &PageHandler{renderer: renderer}
}

// Page returns the handler serving one route of the table.
func (h *PageHandler) Page(route domain.RouteDescriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.renderer.Render(c, route)
	}
}

type pageResponse struct {
	Page string `json:"page"`
	Path string `json:"path"`
}

// placeholderRenderer identifies the page without any content. Deployments
// replace it with real views.
type placeholderRenderer struct{}

func (placeholderRenderer) Render(c echo.Context, route domain.RouteDescriptor) error {
	return c.JSON(http.StatusOK, pageResponse{Page: route.Name, Path: route.Path})
}

type loginPromptResponse struct {
	Message string `json:"message"`
	Accept  string `json:"accept"`
	Decline string `json:"decline"`
	From    string `json:"from,omitempty"`
}

// LoginPrompt is the blocking confirmation an unauthenticated visitor sees
// before a gated page: accept navigates to the login page, decline goes
// home. Nothing of the protected page is rendered here.
//
// @Summary      Login confirmation prompt
// @Tags         pages
// @Produce      json
// @Param        from  query     string  false  "Path that required login"
// @Success      200   {object}  loginPromptResponse
// @Router       /loginprompt [get]
func (h *PageHandler) LoginPrompt(c echo.Context) error {
	return c.JSON(http.StatusOK, loginPromptResponse{
		Message: "login required",
		Accept:  "/login",
		Decline: "/",
		From:    c.QueryParam("from"),
	})
}
