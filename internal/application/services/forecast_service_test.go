package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	impl "github.com/sportweather/sportweather-api/internal/application/services"
	"github.com/sportweather/sportweather-api/internal/core/domain/quota"
	"github.com/sportweather/sportweather-api/internal/core/domain/sport"
	"github.com/sportweather/sportweather-api/internal/core/domain/user"
	"github.com/sportweather/sportweather-api/internal/core/domain/weather"
)

type weatherProviderMock struct {
	DailyForecastFn   func(ctx context.Context, lat, lon float64) ([]weather.Daily, error)
	SearchLocationsFn func(ctx context.Context, query string) ([]weather.Location, error)
	ReverseGeocodeFn  func(ctx context.Context, lat, lon float64) (string, error)
}

func (m *weatherProviderMock) DailyForecast(ctx context.Context, lat, lon float64) ([]weather.Daily, error) {
	if m.DailyForecastFn != nil {
		return m.DailyForecastFn(ctx, lat, lon)
	}
	return nil, nil
}
func (m *weatherProviderMock) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	if m.SearchLocationsFn != nil {
		return m.SearchLocationsFn(ctx, query)
	}
	return nil, nil
}
func (m *weatherProviderMock) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if m.ReverseGeocodeFn != nil {
		return m.ReverseGeocodeFn(ctx, lat, lon)
	}
	return weather.UnknownPlaceName, nil
}

type cityAccessMock struct {
	CanAccessCityFn    func(ctx context.Context, subjectID uuid.UUID, email, cityName string, isCurrentLocation bool) quota.Decision
	RecordCityAccessFn func(ctx context.Context, subjectID uuid.UUID, email, cityName string, lat, lon float64, isCurrentLocation bool) error
	LimitInfoFn        func(ctx context.Context, subjectID uuid.UUID, email string) string
}

func (m *cityAccessMock) CanAccessCity(ctx context.Context, subjectID uuid.UUID, email, cityName string, isCurrentLocation bool) quota.Decision {
	if m.CanAccessCityFn != nil {
		return m.CanAccessCityFn(ctx, subjectID, email, cityName, isCurrentLocation)
	}
	return quota.Decision{Allowed: true}
}
func (m *cityAccessMock) RecordCityAccess(ctx context.Context, subjectID uuid.UUID, email, cityName string, lat, lon float64, isCurrentLocation bool) error {
	if m.RecordCityAccessFn != nil {
		return m.RecordCityAccessFn(ctx, subjectID, email, cityName, lat, lon, isCurrentLocation)
	}
	return nil
}
func (m *cityAccessMock) LimitInfo(ctx context.Context, subjectID uuid.UUID, email string) string {
	if m.LimitInfoFn != nil {
		return m.LimitInfoFn(ctx, subjectID, email)
	}
	return ""
}

func testUser() *user.User {
	return &user.User{
		ID:        uuid.New(),
		Email:     "ana@example.com",
		Sports:    []string{"running"},
		Tolerance: sport.ToleranceModerate,
	}
}

func TestOutlook_DeniedCityNeverReachesProvider(t *testing.T) {
	fetched := false
	provider := &weatherProviderMock{
		DailyForecastFn: func(ctx context.Context, lat, lon float64) ([]weather.Daily, error) {
			fetched = true
			return nil, nil
		},
	}
	cityAccess := &cityAccessMock{
		CanAccessCityFn: func(ctx context.Context, subjectID uuid.UUID, email, cityName string, isCurrentLocation bool) quota.Decision {
			return quota.Decision{Allowed: false, Message: "limit reached"}
		},
	}
	svc := impl.NewForecastService(provider, cityAccess, nil, 0, nil)

	outlook, err := svc.Outlook(context.Background(), testUser(), weather.Location{Name: "Madrid"}, false)
	if !errors.Is(err, quota.ErrExceeded) {
		t.Fatalf("expected quota exceeded, got %v", err)
	}
	if fetched {
		t.Fatalf("a denied lookup must not hit the provider")
	}
	if outlook == nil || outlook.Quota.Allowed {
		t.Fatalf("denial decision must be returned for the UI: %+v", outlook)
	}
}

func TestOutlook_RecordsOnlyAfterSuccessfulFetch(t *testing.T) {
	providerErr := fmt.Errorf("provider down")
	recorded := false
	provider := &weatherProviderMock{
		DailyForecastFn: func(ctx context.Context, lat, lon float64) ([]weather.Daily, error) {
			return nil, providerErr
		},
	}
	cityAccess := &cityAccessMock{
		RecordCityAccessFn: func(ctx context.Context, subjectID uuid.UUID, email, cityName string, lat, lon float64, isCurrentLocation bool) error {
			recorded = true
			return nil
		},
	}
	svc := impl.NewForecastService(provider, cityAccess, nil, 0, nil)

	if _, err := svc.Outlook(context.Background(), testUser(), weather.Location{Name: "Madrid"}, false); err == nil {
		t.Fatalf("expected fetch error")
	}
	if recorded {
		t.Fatalf("a failed fetch must not spend quota")
	}
}

func TestOutlook_BuildsSportRecommendations(t *testing.T) {
	days := []weather.Daily{
		{Date: "2025-06-01", MaxTemp: 20, MaxWind: 10, Rain: 0, IsToday: true},
		{Date: "2025-06-02", MaxTemp: 40, MaxWind: 50, Rain: 20},
	}
	provider := &weatherProviderMock{
		DailyForecastFn: func(ctx context.Context, lat, lon float64) ([]weather.Daily, error) {
			return days, nil
		},
	}
	recorded := false
	cityAccess := &cityAccessMock{
		RecordCityAccessFn: func(ctx context.Context, subjectID uuid.UUID, email, cityName string, lat, lon float64, isCurrentLocation bool) error {
			recorded = true
			return nil
		},
	}
	svc := impl.NewForecastService(provider, cityAccess, nil, 0, nil)

	outlook, err := svc.Outlook(context.Background(), testUser(), weather.Location{Name: "Madrid", Lat: 40.4, Lon: -3.7}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !recorded {
		t.Fatalf("successful lookups are recorded")
	}
	if len(outlook.Sports) != 1 {
		t.Fatalf("one outlook per selected sport, got %d", len(outlook.Sports))
	}
	got := outlook.Sports[0]
	if got.Statuses[0] != sport.StatusOptimal || got.Statuses[1] != sport.StatusLimited {
		t.Fatalf("unexpected statuses: %v", got.Statuses)
	}
}

func TestOutlook_CurrentLocationSkipsQuotaRecording(t *testing.T) {
	recorded := false
	cityAccess := &cityAccessMock{
		CanAccessCityFn: func(ctx context.Context, subjectID uuid.UUID, email, cityName string, isCurrentLocation bool) quota.Decision {
			if !isCurrentLocation {
				t.Errorf("current-location flag must be forwarded")
			}
			return quota.Decision{Allowed: true}
		},
		RecordCityAccessFn: func(ctx context.Context, subjectID uuid.UUID, email, cityName string, lat, lon float64, isCurrentLocation bool) error {
			if !isCurrentLocation {
				recorded = true
			}
			return nil
		},
	}
	provider := &weatherProviderMock{}
	svc := impl.NewForecastService(provider, cityAccess, nil, 0, nil)

	if _, err := svc.Outlook(context.Background(), testUser(), weather.Location{Name: "Your location"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recorded {
		t.Fatalf("current location lookups must not be metered")
	}
}
