package sport

// Tolerance is how much weather discomfort a user accepts before a sport
// stops being recommended.
type Tolerance string

const (
	ToleranceLow      Tolerance = "low"
	ToleranceModerate Tolerance = "moderate"
	ToleranceHigh     Tolerance = "high"
)

func (t Tolerance) IsValid() bool {
	switch t {
	case ToleranceLow, ToleranceModerate, ToleranceHigh:
		return true
	default:
		return false
	}
}

// Thresholds are the weather limits within which a sport is fully recommended.
type Thresholds struct {
	MinTemp float64 `json:"min_temp"`
	MaxTemp float64 `json:"max_temp"`
	MaxWind float64 `json:"max_wind"`
	MaxRain float64 `json:"max_rain"`
}

// Sport is a catalog entry with per-tolerance thresholds.
type Sport struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Icon       string                   `json:"icon"`
	Thresholds map[Tolerance]Thresholds `json:"thresholds"`
}

var catalog = []Sport{
	{
		ID: "running", Name: "Running", Icon: "🏃",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 12, MaxTemp: 22, MaxWind: 10, MaxRain: 0},
			ToleranceModerate: {MinTemp: 5, MaxTemp: 28, MaxWind: 20, MaxRain: 1},
			ToleranceHigh:     {MinTemp: -5, MaxTemp: 35, MaxWind: 40, MaxRain: 5},
		},
	},
	{
		ID: "cycling", Name: "Road Cycling", Icon: "🚴",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 15, MaxTemp: 25, MaxWind: 10, MaxRain: 0},
			ToleranceModerate: {MinTemp: 10, MaxTemp: 30, MaxWind: 25, MaxRain: 0},
			ToleranceHigh:     {MinTemp: 0, MaxTemp: 38, MaxWind: 45, MaxRain: 2},
		},
	},
	{
		ID: "tennis", Name: "Tennis", Icon: "🎾",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 15, MaxTemp: 26, MaxWind: 5, MaxRain: 0},
			ToleranceModerate: {MinTemp: 10, MaxTemp: 32, MaxWind: 15, MaxRain: 0},
			ToleranceHigh:     {MinTemp: 5, MaxTemp: 38, MaxWind: 30, MaxRain: 0},
		},
	},
	{
		ID: "calisthenics", Name: "Calisthenics", Icon: "💪",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 15, MaxTemp: 25, MaxWind: 15, MaxRain: 0},
			ToleranceModerate: {MinTemp: 10, MaxTemp: 30, MaxWind: 25, MaxRain: 1},
			ToleranceHigh:     {MinTemp: 0, MaxTemp: 38, MaxWind: 40, MaxRain: 5},
		},
	},
	{
		ID: "outdoor_yoga", Name: "Outdoor Yoga", Icon: "🧘",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 18, MaxTemp: 24, MaxWind: 5, MaxRain: 0},
			ToleranceModerate: {MinTemp: 15, MaxTemp: 28, MaxWind: 10, MaxRain: 0},
			ToleranceHigh:     {MinTemp: 10, MaxTemp: 32, MaxWind: 20, MaxRain: 1},
		},
	},
	{
		ID: "hiking", Name: "Hiking", Icon: "🥾",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 10, MaxTemp: 22, MaxWind: 15, MaxRain: 0},
			ToleranceModerate: {MinTemp: 5, MaxTemp: 28, MaxWind: 30, MaxRain: 2},
			ToleranceHigh:     {MinTemp: -10, MaxTemp: 35, MaxWind: 60, MaxRain: 10},
		},
	},
	{
		ID: "swimming", Name: "Open Water Swimming", Icon: "🏊",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 20, MaxTemp: 30, MaxWind: 10, MaxRain: 0},
			ToleranceModerate: {MinTemp: 16, MaxTemp: 32, MaxWind: 25, MaxRain: 2},
			ToleranceHigh:     {MinTemp: 12, MaxTemp: 38, MaxWind: 40, MaxRain: 5},
		},
	},
	{
		ID: "skateboarding", Name: "Skateboarding", Icon: "🛹",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 15, MaxTemp: 25, MaxWind: 10, MaxRain: 0},
			ToleranceModerate: {MinTemp: 10, MaxTemp: 30, MaxWind: 20, MaxRain: 0},
			ToleranceHigh:     {MinTemp: 5, MaxTemp: 35, MaxWind: 35, MaxRain: 0},
		},
	},
	{
		ID: "football", Name: "Football", Icon: "⚽",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 10, MaxTemp: 24, MaxWind: 15, MaxRain: 0},
			ToleranceModerate: {MinTemp: 5, MaxTemp: 30, MaxWind: 30, MaxRain: 5},
			ToleranceHigh:     {MinTemp: -5, MaxTemp: 35, MaxWind: 50, MaxRain: 15},
		},
	},
	{
		ID: "beach_volleyball", Name: "Beach Volleyball", Icon: "🏐",
		Thresholds: map[Tolerance]Thresholds{
			ToleranceLow:      {MinTemp: 20, MaxTemp: 28, MaxWind: 10, MaxRain: 0},
			ToleranceModerate: {MinTemp: 15, MaxTemp: 32, MaxWind: 20, MaxRain: 0},
			ToleranceHigh:     {MinTemp: 10, MaxTemp: 38, MaxWind: 40, MaxRain: 2},
		},
	},
}

// Catalog returns all supported sports.
func Catalog() []Sport {
	out := make([]Sport, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a catalog sport. ok is false for unknown ids.
func ByID(id string) (Sport, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Sport{}, false
}

// ValidIDs reports whether every id names a catalog sport.
func ValidIDs(ids []string) bool {
	for _, id := range ids {
		if _, ok := ByID(id); !ok {
			return false
		}
	}
	return true
}
