package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sportweather/sportweather-api/internal/infrastructure/httpserver/helpers"
)

// getCityQuota reports the authenticated user's weekly city allowance
func (s *Server) getCityQuota(c echo.Context) error {
	u, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": s.cityAccessSvc.LimitInfo(c.Request().Context(), u.ID, u.Email),
	})
}
