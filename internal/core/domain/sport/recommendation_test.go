package sport_test

import (
	"testing"

	"github.com/sportweather/sportweather-api/internal/core/domain/sport"
	"github.com/sportweather/sportweather-api/internal/core/domain/weather"
)

func mustSport(t *testing.T, id string) sport.Sport {
	t.Helper()
	s, ok := sport.ByID(id)
	if !ok {
		t.Fatalf("catalog is missing %q", id)
	}
	return s
}

func TestRecommend_TrafficLight(t *testing.T) {
	// Running at moderate tolerance: 5..28 temp, wind <= 20, rain <= 1.
	running := mustSport(t, "running")

	cases := []struct {
		name string
		day  weather.Daily
		want sport.Status
	}{
		{"inside all thresholds", weather.Daily{MaxTemp: 20, MaxWind: 10, Rain: 0}, sport.StatusOptimal},
		{"at the upper temp bound", weather.Daily{MaxTemp: 28, MaxWind: 20, Rain: 1}, sport.StatusOptimal},
		{"temp slightly over", weather.Daily{MaxTemp: 31, MaxWind: 10, Rain: 0}, sport.StatusModerate},
		{"wind within 1.5x", weather.Daily{MaxTemp: 20, MaxWind: 28, Rain: 0}, sport.StatusModerate},
		{"rain within 2x+2", weather.Daily{MaxTemp: 20, MaxWind: 10, Rain: 3.5}, sport.StatusModerate},
		{"temp far over", weather.Daily{MaxTemp: 40, MaxWind: 10, Rain: 0}, sport.StatusLimited},
		{"storm wind", weather.Daily{MaxTemp: 20, MaxWind: 50, Rain: 0}, sport.StatusLimited},
		{"heavy rain", weather.Daily{MaxTemp: 20, MaxWind: 10, Rain: 10}, sport.StatusLimited},
		{"cold below near-band", weather.Daily{MaxTemp: -2, MaxWind: 5, Rain: 0}, sport.StatusLimited},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sport.Recommend(running, tc.day, sport.ToleranceModerate)
			if got != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRecommend_ToleranceWidensThresholds(t *testing.T) {
	running := mustSport(t, "running")
	hotDay := weather.Daily{MaxTemp: 30, MaxWind: 5, Rain: 0}

	if got := sport.Recommend(running, hotDay, sport.ToleranceLow); got != sport.StatusLimited {
		t.Fatalf("low tolerance on a 30C day: want limited, got %s", got)
	}
	if got := sport.Recommend(running, hotDay, sport.ToleranceHigh); got != sport.StatusOptimal {
		t.Fatalf("high tolerance on a 30C day: want optimal, got %s", got)
	}
}

func TestRecommend_UnknownToleranceFallsBackToModerate(t *testing.T) {
	running := mustSport(t, "running")
	day := weather.Daily{MaxTemp: 20, MaxWind: 10, Rain: 0}

	if got := sport.Recommend(running, day, sport.Tolerance("extreme")); got != sport.StatusOptimal {
		t.Fatalf("want the moderate classification, got %s", got)
	}
}

func TestBuildOutlooks_SkipsUnknownSports(t *testing.T) {
	days := []weather.Daily{
		{MaxTemp: 20, MaxWind: 10, Rain: 0},
		{MaxTemp: 35, MaxWind: 30, Rain: 5},
	}

	outlooks := sport.BuildOutlooks([]string{"running", "curling", "tennis"}, sport.ToleranceModerate, days)
	if len(outlooks) != 2 {
		t.Fatalf("unknown ids are dropped: want 2 outlooks, got %d", len(outlooks))
	}
	for _, o := range outlooks {
		if len(o.Statuses) != len(days) {
			t.Fatalf("one status per forecast day: want %d, got %d", len(days), len(o.Statuses))
		}
	}
}

func TestCatalog_TenSportsWithAllTolerances(t *testing.T) {
	catalog := sport.Catalog()
	if len(catalog) != 10 {
		t.Fatalf("want 10 sports, got %d", len(catalog))
	}
	for _, s := range catalog {
		for _, tol := range []sport.Tolerance{sport.ToleranceLow, sport.ToleranceModerate, sport.ToleranceHigh} {
			if _, ok := s.Thresholds[tol]; !ok {
				t.Fatalf("sport %s missing %s thresholds", s.ID, tol)
			}
		}
	}
}
