package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/domain/weather"
	"github.com/sportweather/sportweather-api/internal/infrastructure/httpserver/helpers"
)

type forecastRequest struct {
	Name              string  `json:"name"`
	Country           string  `json:"country"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	IsCurrentLocation bool    `json:"is_current_location"`
}

// getForecast returns the daily outlook and per-sport recommendations for a
// location. User-chosen cities are gated by the weekly city quota; current
// location lookups are always free.
func (s *Server) getForecast(c echo.Context) error {
	u, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	var req forecastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !req.IsCurrentLocation && req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "location name is required")
	}

	loc := weather.Location{
		Name:    req.Name,
		Lat:     req.Latitude,
		Lon:     req.Longitude,
		Country: req.Country,
	}

	outlook, err := s.forecastSvc.Outlook(c.Request().Context(), u, loc, req.IsCurrentLocation)
	if err != nil {
		if errors.Is(err, quota.ErrExceeded) {
			countQuotaDecision("city", false)
			return c.JSON(http.StatusTooManyRequests, outlook)
		}
		return echo.NewHTTPError(http.StatusBadGateway, "failed to fetch forecast")
	}

	if !req.IsCurrentLocation {
		countQuotaDecision("city", true)
	}
	return c.JSON(http.StatusOK, outlook)
}

// searchLocations returns place candidates for the query string
func (s *Server) searchLocations(c echo.Context) error {
	query := c.QueryParam("q")

	locations, err := s.forecastSvc.SearchLocations(c.Request().Context(), query)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "failed to search locations")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": locations,
		"count":   len(locations),
	})
}

// reverseGeocode resolves a display name for coordinates
func (s *Server) reverseGeocode(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lat parameter")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lon parameter")
	}

	name, err := s.forecastSvc.ReverseGeocode(c.Request().Context(), lat, lon)
	if err != nil {
		name = weather.UnknownPlaceName
	}

	return c.JSON(http.StatusOK, map[string]string{"name": name})
}
