// Package openmeteo fetches daily forecasts from Open-Meteo, geocoding the
// place name first.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ritwiksharan/event-recommendor/internal/domain/weather"
	"github.com/ritwiksharan/event-recommendor/pkg/util"
)

const (
	defaultGeocodeBaseURL  = "https://geocoding-api.open-meteo.com"
	defaultForecastBaseURL = "https://api.open-meteo.com"
)

// Client resolves a city to coordinates and fetches its daily forecast.
type Client struct {
	geocodeBaseURL  string
	forecastBaseURL string
	httpClient      *http.Client
	now             func() time.Time
}

// NewClient builds an API client. Open-Meteo needs no API key.
func NewClient(geocodeBaseURL, forecastBaseURL string) *Client {
	if strings.TrimSpace(geocodeBaseURL) == "" {
		geocodeBaseURL = defaultGeocodeBaseURL
	}
	if strings.TrimSpace(forecastBaseURL) == "" {
		forecastBaseURL = defaultForecastBaseURL
	}
	return &Client{
		geocodeBaseURL:  strings.TrimRight(geocodeBaseURL, "/"),
		forecastBaseURL: strings.TrimRight(forecastBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// Forecast retrieves converted daily forecasts for the date range, clamped
// to the provider horizon. Dates beyond the horizon are absent from the map,
// which callers must read as "no forecast", not "bad weather".
func (c *Client) Forecast(ctx context.Context, city, countryCode string, start, end time.Time) (weather.ForecastMap, error) {
	lat, lon, err := c.geocode(ctx, city, countryCode)
	if err != nil {
		return nil, err
	}

	horizonEnd := c.now().AddDate(0, 0, weather.ForecastHorizonDays-1)
	if end.After(horizonEnd) {
		end = horizonEnd
	}
	if start.After(end) {
		return weather.ForecastMap{}, nil
	}

	body, err := c.fetchDaily(ctx, lat, lon, start, end)
	if err != nil {
		return nil, err
	}

	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	return normalizeDaily(raw.Daily), nil
}

func (c *Client) geocode(ctx context.Context, city, countryCode string) (float64, float64, error) {
	params := url.Values{}
	params.Set("name", city)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")
	if countryCode != "" {
		params.Set("countryCode", countryCode)
	}

	body, err := c.get(ctx, c.geocodeBaseURL+"/v1/search?"+params.Encode(), "geocode")
	if err != nil {
		return 0, 0, err
	}

	var raw geocodeResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, 0, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(raw.Results) == 0 {
		// Never fabricate coordinates for an unknown place.
		return 0, 0, fmt.Errorf("cannot geocode city %q", city)
	}
	return raw.Results[0].Latitude, raw.Results[0].Longitude, nil
}

func (c *Client) fetchDaily(ctx context.Context, lat, lon float64, start, end time.Time) ([]byte, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("daily", strings.Join([]string{
		"temperature_2m_max",
		"temperature_2m_min",
		"weathercode",
		"precipitation_probability_max",
		"windspeed_10m_max",
	}, ","))
	params.Set("start_date", util.DateKey(start))
	params.Set("end_date", util.DateKey(end))
	params.Set("timezone", "auto")
	params.Set("temperature_unit", "celsius")
	params.Set("windspeed_unit", "kmh")

	return c.get(ctx, c.forecastBaseURL+"/v1/forecast?"+params.Encode(), "forecast")
}

func (c *Client) get(ctx context.Context, endpoint, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%s request error: status=%d body=%s", name, resp.StatusCode, string(payload))
	}

	return io.ReadAll(resp.Body)
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Daily dailyColumns `json:"daily"`
}

// dailyColumns mirrors Open-Meteo's columnar daily payload.
type dailyColumns struct {
	Time         []string  `json:"time"`
	TempMax      []float64 `json:"temperature_2m_max"`
	TempMin      []float64 `json:"temperature_2m_min"`
	WeatherCode  []int     `json:"weathercode"`
	PrecipChance []float64 `json:"precipitation_probability_max"`
	WindMax      []float64 `json:"windspeed_10m_max"`
}

// normalizeDaily converts provider-native columns into the domain forecast
// map, converting units at ingestion. Columns shorter than the time axis are
// treated as zero to keep one bad field from dropping a day.
func normalizeDaily(d dailyColumns) weather.ForecastMap {
	out := make(weather.ForecastMap, len(d.Time))
	for i, date := range d.Time {
		if strings.TrimSpace(date) == "" {
			continue
		}
		code := intAt(d.WeatherCode, i)
		precip := floatAt(d.PrecipChance, i)
		windMph := weather.KmhToMph(floatAt(d.WindMax, i))

		out[date] = weather.DailyForecast{
			Date:              date,
			TempMinF:          weather.CelsiusToFahrenheit(floatAt(d.TempMin, i)),
			TempMaxF:          weather.CelsiusToFahrenheit(floatAt(d.TempMax, i)),
			Description:       weather.DescribeCode(code),
			PrecipChance:      precip,
			WindSpeedMPH:      windMph,
			IsSuitableOutdoor: weather.SuitableOutdoor(code, precip, windMph),
		}
	}
	return out
}

func floatAt(values []float64, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return values[i]
}

func intAt(values []int, i int) int {
	if i >= len(values) {
		return 0
	}
	return values[i]
}
