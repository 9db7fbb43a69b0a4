package sport

import (
	"github.com/sportweather/sportweather-api/internal/core/domain/weather"
)

// Status is the traffic-light recommendation for practicing a sport on a day.
type Status string

const (
	StatusOptimal  Status = "optimal"
	StatusModerate Status = "moderate"
	StatusLimited  Status = "limited"
)

// Label returns the display text for a status.
func (s Status) Label() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusModerate:
		return "Moderate"
	default:
		return "Limited"
	}
}

// Recommend classifies a day for a sport at the given tolerance. A day inside
// all thresholds is optimal; slight exceedances (temp within 5 degrees, wind
// within 1.5x, rain within 2x+2mm) are moderate; anything beyond is limited.
func Recommend(s Sport, day weather.Daily, tolerance Tolerance) Status {
	th, ok := s.Thresholds[tolerance]
	if !ok {
		th = s.Thresholds[ToleranceModerate]
	}

	tempOk := day.MaxTemp >= th.MinTemp && day.MaxTemp <= th.MaxTemp
	windOk := day.MaxWind <= th.MaxWind
	rainOk := day.Rain <= th.MaxRain
	if tempOk && windOk && rainOk {
		return StatusOptimal
	}

	tempNear := day.MaxTemp >= th.MinTemp-5 && day.MaxTemp <= th.MaxTemp+5
	windNear := day.MaxWind <= th.MaxWind*1.5
	rainNear := day.Rain <= th.MaxRain*2+2
	if tempNear && windNear && rainNear {
		return StatusModerate
	}

	return StatusLimited
}

// Outlook is the per-day recommendation series for one sport.
type Outlook struct {
	SportID  string   `json:"sport_id"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Statuses []Status `json:"statuses"`
}

// BuildOutlooks computes recommendations for the selected sports across the
// forecast days. Unknown sport ids are skipped.
func BuildOutlooks(sportIDs []string, tolerance Tolerance, days []weather.Daily) []Outlook {
	outlooks := make([]Outlook, 0, len(sportIDs))
	for _, id := range sportIDs {
		s, ok := ByID(id)
		if !ok {
			continue
		}
		statuses := make([]Status, len(days))
		for i, day := range days {
			statuses[i] = Recommend(s, day, tolerance)
		}
		outlooks = append(outlooks, Outlook{SportID: s.ID, Name: s.Name, Icon: s.Icon, Statuses: statuses})
	}
	return outlooks
}
