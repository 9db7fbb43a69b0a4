package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sportweather/sportweather-api/internal/core/domain/support"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// submitSupportTicket validates, quota-checks, and dispatches a contact form
// message. Quota is only spent when the dispatch succeeds.
func (s *Server) submitSupportTicket(c echo.Context) error {
	var ticket support.Ticket
	if err := c.Bind(&ticket); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	decision, err := s.supportSvc.Send(c.Request().Context(), &ticket)
	if err != nil {
		switch {
		case errors.Is(err, support.ErrQuotaExceeded):
			countQuotaDecision("support", false)
			return c.JSON(http.StatusTooManyRequests, decision)
		case errors.Is(err, support.ErrMissingName),
			errors.Is(err, support.ErrMissingEmail),
			errors.Is(err, support.ErrMissingSubject),
			errors.Is(err, support.ErrMissingMessage):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ports.ErrEmailNotConfigured):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "support email is not configured")
		default:
			return echo.NewHTTPError(http.StatusBadGateway, "failed to send support message")
		}
	}

	countQuotaDecision("support", true)
	return c.JSON(http.StatusOK, decision)
}

// getSupportQuota reports the remaining support messages for a sender email
func (s *Server) getSupportQuota(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email parameter is required")
	}

	decision := s.supportSvc.CanSend(c.Request().Context(), email)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"allowed":   decision.Allowed,
		"remaining": decision.Remaining,
		"reset_at":  decision.ResetAt,
		"message":   s.supportSvc.LimitInfo(c.Request().Context(), email),
	})
}
