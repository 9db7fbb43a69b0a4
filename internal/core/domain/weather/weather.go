package weather

// Daily is a single day of forecast data, normalized from the provider schema.
type Daily struct {
	Date        string  `json:"date"`
	MaxTemp     float64 `json:"max_temp"`
	Rain        float64 `json:"rain"`
	MaxWind     float64 `json:"max_wind"`
	Code        int     `json:"code"`
	Description string  `json:"description"`
	IsToday     bool    `json:"is_today"`
}

// Location is a geocoded place candidate.
type Location struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country,omitempty"`
}

// UnknownPlaceName is returned when reverse geocoding cannot resolve a name.
const UnknownPlaceName = "Your location"

var codeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mostly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Light rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Light snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Light showers",
	81: "Moderate showers",
	82: "Violent showers",
	95: "Thunderstorm",
}

// Describe maps a WMO weather code to a short human-readable description.
func Describe(code int) string {
	if d, ok := codeDescriptions[code]; ok {
		return d
	}
	return "Variable conditions"
}
