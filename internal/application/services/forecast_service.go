package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/domain/sport"
	"github.com/sportweather/sportweather-api/internal/core/domain/user"
	"github.com/sportweather/sportweather-api/internal/core/domain/weather"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// ForecastService produces per-sport outlooks for a location. User-chosen
// locations pass through the city access quota; the detected current location
// is free. Forecast responses are cached briefly to spare the provider.
type ForecastService struct {
	provider   ports.WeatherProvider
	cityAccess ports.CityAccessService
	cache      ports.Cache
	cacheTTL   time.Duration
	logger     *logrus.Logger
}

func NewForecastService(provider ports.WeatherProvider, cityAccess ports.CityAccessService, cache ports.Cache, cacheTTL time.Duration, logger *logrus.Logger) *ForecastService {
	return &ForecastService{provider: provider, cityAccess: cityAccess, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Outlook fetches the forecast for loc and computes recommendations for the
// user's sports. The quota is checked before the provider call and the access
// recorded only after the fetch succeeds. Returns quota.ErrExceeded with the
// denial decision when the city cap is reached.
func (s *ForecastService) Outlook(ctx context.Context, usr *user.User, loc weather.Location, isCurrentLocation bool) (*ports.ForecastOutlook, error) {
	d := s.cityAccess.CanAccessCity(ctx, usr.ID, usr.Email, loc.Name, isCurrentLocation)
	if !d.Allowed {
		return &ports.ForecastOutlook{Location: loc, Quota: d}, quota.ErrExceeded
	}

	days, err := s.dailyForecast(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	if err := s.cityAccess.RecordCityAccess(ctx, usr.ID, usr.Email, loc.Name, loc.Lat, loc.Lon, isCurrentLocation); err != nil {
		// Quota under-counts; the user still gets their forecast.
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": usr.ID, "city": loc.Name}).WithError(err).Warn("forecast: city access not recorded")
		}
	}

	return &ports.ForecastOutlook{
		Location: loc,
		Days:     days,
		Sports:   sport.BuildOutlooks(usr.Sports, usr.Tolerance, days),
		Quota:    d,
	}, nil
}

// SearchLocations proxies the geocoder; failures surface as an empty list.
func (s *ForecastService) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	return s.provider.SearchLocations(ctx, query)
}

// ReverseGeocode resolves a display name for coordinates.
func (s *ForecastService) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	return s.provider.ReverseGeocode(ctx, lat, lon)
}

func (s *ForecastService) dailyForecast(ctx context.Context, lat, lon float64) ([]weather.Daily, error) {
	key := fmt.Sprintf("forecast:%.4f:%.4f", lat, lon)

	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var days []weather.Daily
			if err := json.Unmarshal(raw, &days); err == nil {
				return days, nil
			}
		}
	}

	days, err := s.provider.DailyForecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(days) > 0 {
		if raw, err := json.Marshal(days); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil && s.logger != nil {
				s.logger.WithError(err).Debug("forecast: cache write failed")
			}
		}
	}
	return days, nil
}
