package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/workshophub/portal/internal/api/metrics"
	"github.com/workshophub/portal/internal/core/domain"
)

// LoginPromptPath is where an unauthenticated visitor is sent to confirm
// they want to log in.
const LoginPromptPath = "/loginprompt"

// Gate enforces the access policy of one route. The decision itself is the
// pure domain.Decide; this wrapper only turns the decision into behavior:
// Allow renders the view, RequireLogin redirects to the login prompt,
// Forbidden never renders the protected view. Navigation happens as an
// effect after the decision, never inside it.
func Gate(route domain.RouteDescriptor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := domain.Decide(route, SessionFrom(c))
			metrics.AccessDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case domain.RequireLogin:
				from := url.QueryEscape(c.Request().URL.Path)
				return c.Redirect(http.StatusSeeOther, LoginPromptPath+"?from="+from)
			case domain.Forbidden:
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
