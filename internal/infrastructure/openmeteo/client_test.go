package openmeteo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/sportweather/sportweather-api/configs"
	"github.com/sportweather/sportweather-api/internal/core/domain/weather"
	"github.com/sportweather/sportweather-api/internal/core/ports"
	"github.com/sportweather/sportweather-api/internal/infrastructure/openmeteo"
)

func newTestClient(t *testing.T, handler http.Handler) (ports.WeatherProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.WeatherConfig{
		ForecastBaseURL:  srv.URL,
		GeocodingBaseURL: srv.URL,
		ReverseBaseURL:   srv.URL,
		RequestTimeout:   2 * time.Second,
	}
	return openmeteo.NewClient(cfg, nil), srv
}

func TestDailyForecast_ParsesDays(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"daily":{
			"time":["2025-06-01","2025-06-02"],
			"temperature_2m_max":[21.5,18.0],
			"precipitation_sum":[0,4.2],
			"windspeed_10m_max":[12.0,30.5],
			"weathercode":[1,61]
		}}`))
	}))

	days, err := client.DailyForecast(context.Background(), 40.4, -3.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("want 2 days, got %d", len(days))
	}
	if !days[0].IsToday || days[1].IsToday {
		t.Fatalf("only the first day is today")
	}
	if days[0].MaxTemp != 21.5 || days[1].Rain != 4.2 || days[1].Code != 61 {
		t.Fatalf("parsed values off: %+v", days)
	}
	if days[0].Description != "Mostly clear" || days[1].Description != "Light rain" {
		t.Fatalf("weather codes must carry their description: %+v", days)
	}
}

func TestDailyForecast_EmptyDailyIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))

	days, err := client.DailyForecast(context.Background(), 40.4, -3.7)
	if err != nil {
		t.Fatalf("missing daily block degrades to empty, got %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("want 0 days, got %d", len(days))
	}
}

func TestDailyForecast_ServerErrorSurfaces(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := client.DailyForecast(context.Background(), 40.4, -3.7); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestSearchLocations_ShortQuerySkipsRequest(t *testing.T) {
	requested := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))

	locations, err := client.SearchLocations(context.Background(), " m ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 0 {
		t.Fatalf("want empty result for a one-letter query")
	}
	if requested {
		t.Fatalf("queries under two characters must not hit the provider")
	}
}

func TestSearchLocations_MapsResults(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "madr" {
			t.Errorf("query not forwarded: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"name":"Madrid","latitude":40.4168,"longitude":-3.7038,"country":"Spain"},
			{"name":"Madridejos","latitude":39.47,"longitude":-3.53,"country":"Spain"}
		]}`))
	}))

	locations, err := client.SearchLocations(context.Background(), "madr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("want 2 candidates, got %d", len(locations))
	}
	if locations[0].Name != "Madrid" || locations[0].Country != "Spain" {
		t.Fatalf("mapping off: %+v", locations[0])
	}
}

func TestReverseGeocode_PrefersCityThenFallsBack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address":{"town":"Alcobendas","state":"Madrid"}}`))
	}))

	name, err := client.ReverseGeocode(context.Background(), 40.5, -3.6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Alcobendas" {
		t.Fatalf("want the town when no city is present, got %q", name)
	}
}

func TestReverseGeocode_FailureUsesPlaceholder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	name, err := client.ReverseGeocode(context.Background(), 40.5, -3.6)
	if err != nil {
		t.Fatalf("reverse geocoding never errors to the caller, got %v", err)
	}
	if name != weather.UnknownPlaceName {
		t.Fatalf("want %q, got %q", weather.UnknownPlaceName, name)
	}
}
