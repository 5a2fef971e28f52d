// Package weather turns provider forecasts into day-level outdoor guidance.
package weather

import "math"

// ForecastHorizonDays is the provider's maximum daily-forecast horizon.
// Requested dates beyond it are simply absent from the forecast map.
const ForecastHorizonDays = 16

// DailyForecast is one day of converted forecast data. All values are in
// user-facing units; provider-native units never leave the collector.
type DailyForecast struct {
	Date              string  `json:"date"`
	TempMinF          float64 `json:"tempMinF"`
	TempMaxF          float64 `json:"tempMaxF"`
	Description       string  `json:"description"`
	PrecipChance      float64 `json:"precipChance"`
	WindSpeedMPH      float64 `json:"windSpeedMph"`
	IsSuitableOutdoor bool    `json:"isSuitableOutdoor"`
}

// ForecastMap keys daily forecasts by civil date for O(1) joins with events.
type ForecastMap map[string]DailyForecast

// Result is the collector's only output shape; upstream failures ride in Err
// alongside an empty map.
type Result struct {
	City      string      `json:"city"`
	Forecasts ForecastMap `json:"forecasts"`
	Err       string      `json:"error,omitempty"`
}

// wmoDescriptions maps WMO weather codes to display text.
var wmoDescriptions = map[int]string{
	0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
	45: "Fog", 48: "Rime fog",
	51: "Light drizzle", 53: "Moderate drizzle", 55: "Dense drizzle",
	61: "Slight rain", 63: "Moderate rain", 65: "Heavy rain",
	71: "Slight snow", 73: "Moderate snow", 75: "Heavy snow",
	80: "Slight showers", 81: "Moderate showers", 82: "Violent showers",
	95: "Thunderstorm", 96: "Thunderstorm+hail", 99: "Thunderstorm+heavy hail",
}

// badWeatherCodes are the conditions that rule out outdoor plans outright.
var badWeatherCodes = map[int]struct{}{
	45: {}, 48: {}, 51: {}, 53: {}, 55: {}, 61: {}, 63: {}, 65: {},
	71: {}, 73: {}, 75: {}, 80: {}, 81: {}, 82: {}, 95: {}, 96: {}, 99: {},
}

// DescribeCode renders a WMO weather code as display text.
func DescribeCode(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

// CelsiusToFahrenheit converts and rounds to one decimal place.
func CelsiusToFahrenheit(c float64) float64 {
	return math.Round((c*9/5+32)*10) / 10
}

// KmhToMph converts and rounds to one decimal place.
func KmhToMph(kmh float64) float64 {
	return math.Round(kmh*0.621371*10) / 10
}

// SuitableOutdoor applies the three-condition rule: the weather code must not
// be in the bad set, precipitation must stay under 50%, and wind under 25 mph.
func SuitableOutdoor(code int, precipChance, windMph float64) bool {
	if _, bad := badWeatherCodes[code]; bad {
		return false
	}
	return precipChance < 50 && windMph < 25
}
