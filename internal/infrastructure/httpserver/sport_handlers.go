package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sportweather/sportweather-api/internal/core/domain/sport"
)

// listSports returns the sport catalog with per-tolerance thresholds
func (s *Server) listSports(c echo.Context) error {
	catalog := sport.Catalog()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sports": catalog,
		"count":  len(catalog),
	})
}
