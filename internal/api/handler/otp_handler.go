package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workshophub/portal/internal/core/domain"
	"github.com/workshophub/portal/internal/core/ports"
)

// OtpHandler exposes one verification flow over HTTP. The same handler
// serves the password-reset and email-verification screens; the flow kind
// is fixed at construction.
type OtpHandler struct {
	flows ports.FlowService
	kind  domain.FlowKind
}

// NewResetHandler serves the forgot-password flow.
func NewResetHandler(flows ports.FlowService) *OtpHandler {
	return &OtpHandler{flows: flows, kind: domain.FlowReset}
}

// NewVerifyEmailHandler serves the email-verification flow.
func NewVerifyEmailHandler(flows ports.FlowService) *OtpHandler {
	return &OtpHandler{flows: flows, kind: domain.FlowVerifyEmail}
}

// Begin collects the identifier and requests a one-time code.
//
// @Summary      Start a verification flow
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      beginFlowRequest  true  "Identifier"
// @Success      201   {object}  flowResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reset [post]
func (h *OtpHandler) Begin(c echo.Context) error {
	var req beginFlowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	flow, err := h.flows.Begin(c.Request().Context(), h.kind, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, flowResponse{FlowID: flow.ID, Stage: string(flow.Stage)})
}

// EditCode applies one keystroke to the code: a digit fills the slot,
// an empty digit is Backspace.
//
// @Summary      Edit the one-time code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        flow  path      string        true  "Flow id"
// @Param        body  body      digitRequest  true  "Keystroke"
// @Success      200   {object}  codeStateResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reset/{flow}/code [put]
func (h *OtpHandler) EditCode(c echo.Context) error {
	var req digitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var (
		result ports.CodeEntryResult
		err    error
	)
	if req.Digit == "" {
		result, err = h.flows.EraseDigit(c.Request().Context(), c.Param("flow"), req.Slot)
	} else {
		result, err = h.flows.EnterDigit(c.Request().Context(), c.Param("flow"), req.Slot, rune(req.Digit[0]))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, codeStateResponse{Code: result.Code[:], Focus: result.Focus})
}

// SubmitCode advances the flow once all six digits are entered.
//
// @Summary      Submit the one-time code
// @Tags         verification
// @Produce      json
// @Param        flow  path      string  true  "Flow id"
// @Success      200   {object}  flowResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/reset/{flow}/code [post]
func (h *OtpHandler) SubmitCode(c echo.Context) error {
	flow, err := h.flows.SubmitCode(c.Request().Context(), c.Param("flow"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, flowResponse{FlowID: flow.ID, Stage: string(flow.Stage)})
}

// Resend requests another code without touching the stage or entered digits.
//
// @Summary      Resend the one-time code
// @Tags         verification
// @Produce      json
// @Param        flow  path  string  true  "Flow id"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reset/{flow}/resend [post]
func (h *OtpHandler) Resend(c echo.Context) error {
	if err := h.flows.Resend(c.Request().Context(), c.Param("flow")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitSecret finalizes a password reset and points the visitor at the
// login page.
//
// @Summary      Set the new password
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        flow  path      string         true  "Flow id"
// @Param        body  body      secretRequest  true  "New password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reset/{flow}/secret [post]
func (h *OtpHandler) SubmitSecret(c echo.Context) error {
	var req secretRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.flows.SubmitSecret(c.Request().Context(), c.Param("flow"), req.Password, req.PasswordConfirm)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: message, Redirect: "/login"})
}
