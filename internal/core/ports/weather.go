package ports

import (
	"context"

	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/domain/sport"
	"github.com/sportweather/sportweather-api/internal/core/domain/user"
	"github.com/sportweather/sportweather-api/internal/core/domain/weather"
)

// WeatherProvider abstracts the forecast/geocoding service. It is best-effort:
// implementations degrade to empty results or a placeholder name rather than
// surfacing partial-response errors.
type WeatherProvider interface {
	DailyForecast(ctx context.Context, lat, lon float64) ([]weather.Daily, error)
	SearchLocations(ctx context.Context, query string) ([]weather.Location, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// ForecastOutlook bundles the forecast with per-sport recommendations and the
// quota decision that gated the lookup.
type ForecastOutlook struct {
	Location weather.Location `json:"location"`
	Days     []weather.Daily  `json:"days"`
	Sports   []sport.Outlook  `json:"sports"`
	Quota    quota.Decision   `json:"quota"`
}

// ForecastService produces sport outlooks for a location, enforcing the city
// access quota for user-chosen locations.
type ForecastService interface {
	Outlook(ctx context.Context, usr *user.User, loc weather.Location, isCurrentLocation bool) (*ForecastOutlook, error)
	SearchLocations(ctx context.Context, query string) ([]weather.Location, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}
