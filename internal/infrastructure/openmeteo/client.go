package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	config "github.com/sportweather/sportweather-api/configs"
	"github.com/sportweather/sportweather-api/internal/core/domain/weather"
	"github.com/sportweather/sportweather-api/internal/core/ports"
)

// Client talks to the Open-Meteo forecast and geocoding APIs and to Nominatim
// for reverse geocoding. The provider is best-effort: partial or empty
// responses degrade to empty results or a placeholder name, and every request
// carries the configured short timeout so a provider outage never stalls a
// user action.
type Client struct {
	forecastBaseURL  string
	geocodingBaseURL string
	reverseBaseURL   string
	httpClient       *http.Client
	logger           *logrus.Logger
}

// NewClient creates a provider client from config.
func NewClient(cfg *config.WeatherConfig, logger *logrus.Logger) ports.WeatherProvider {
	return &Client{
		forecastBaseURL:  strings.TrimRight(cfg.ForecastBaseURL, "/"),
		geocodingBaseURL: strings.TrimRight(cfg.GeocodingBaseURL, "/"),
		reverseBaseURL:   strings.TrimRight(cfg.ReverseBaseURL, "/"),
		httpClient:       &http.Client{Timeout: cfg.RequestTimeout},
		logger:           logger,
	}
}

type forecastResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		WindSpeedMax     []float64 `json:"windspeed_10m_max"`
		WeatherCode      []int     `json:"weathercode"`
	} `json:"daily"`
}

// DailyForecast returns the daily outlook for the coordinates. A response
// without daily data yields an empty slice, not an error.
func (c *Client) DailyForecast(ctx context.Context, lat, lon float64) ([]weather.Daily, error) {
	u := fmt.Sprintf("%s/forecast?latitude=%f&longitude=%f&daily=temperature_2m_max,precipitation_sum,windspeed_10m_max,weathercode&timezone=auto",
		c.forecastBaseURL, lat, lon)

	var resp forecastResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}

	days := make([]weather.Daily, 0, len(resp.Daily.Time))
	for i, date := range resp.Daily.Time {
		d := weather.Daily{Date: date, IsToday: i == 0}
		if i < len(resp.Daily.TemperatureMax) {
			d.MaxTemp = resp.Daily.TemperatureMax[i]
		}
		if i < len(resp.Daily.PrecipitationSum) {
			d.Rain = resp.Daily.PrecipitationSum[i]
		}
		if i < len(resp.Daily.WindSpeedMax) {
			d.MaxWind = resp.Daily.WindSpeedMax[i]
		}
		if i < len(resp.Daily.WeatherCode) {
			d.Code = resp.Daily.WeatherCode[i]
		}
		d.Description = weather.Describe(d.Code)
		days = append(days, d)
	}
	return days, nil
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// SearchLocations returns ranked place candidates for a free-text query.
// Queries shorter than two characters return an empty list without a request.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []weather.Location{}, nil
	}

	u := fmt.Sprintf("%s/search?name=%s&count=5&language=en&format=json", c.geocodingBaseURL, url.QueryEscape(query))

	var resp geocodingResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	locations := make([]weather.Location, 0, len(resp.Results))
	for _, r := range resp.Results {
		locations = append(locations, weather.Location{
			Name:    r.Name,
			Lat:     r.Latitude,
			Lon:     r.Longitude,
			Country: r.Country,
		})
	}
	return locations, nil
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
	} `json:"address"`
}

// ReverseGeocode resolves a display name for coordinates. Any failure falls
// back to the generic placeholder name instead of erroring.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	u := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f&zoom=10", c.reverseBaseURL, lat, lon)

	var resp reverseResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		if c.logger != nil {
			c.logger.WithError(err).Debug("reverse geocode failed, using placeholder")
		}
		return weather.UnknownPlaceName, nil
	}

	for _, name := range []string{resp.Address.City, resp.Address.Town, resp.Address.Village, resp.Address.State} {
		if name != "" {
			return name, nil
		}
	}
	return weather.UnknownPlaceName, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
