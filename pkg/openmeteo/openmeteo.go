// Package openmeteo fetches aviation-oriented weather from the Open-Meteo
// forecast API. No API key is required; wind speeds are requested in knots.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	geox "github.com/preflightai/preflight/pkg/geo"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	URL     string        `envconfig:"URL" split_words:"true" default:"https://api.open-meteo.com/v1/forecast"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("open-meteo url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid open-meteo url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Conditions is a normalized weather observation or forecast hour.
type Conditions struct {
	AirportCode          string  `json:"airport_code"`
	Timestamp            string  `json:"timestamp"`
	TemperatureC         float64 `json:"temperature_c"`
	WindSpeedKts         float64 `json:"wind_speed_kts"`
	WindDirectionDeg     float64 `json:"wind_direction_deg"`
	WindGustKts          float64 `json:"wind_gust_kts,omitempty"`
	VisibilityKm         float64 `json:"visibility_km"`
	CloudCoveragePercent float64 `json:"cloud_coverage_percent"`
	PrecipitationType    string  `json:"precipitation_type"`
	PrecipitationMm      float64 `json:"precipitation_mm"`
	PressureMb           float64 `json:"pressure_mb"`
	HumidityPercent      float64 `json:"humidity_percent"`
	DataSource           string  `json:"data_source"`
}

type forecastResponse struct {
	Current struct {
		TemperatureC     float64 `json:"temperature_2m"`
		Humidity         float64 `json:"relative_humidity_2m"`
		Precipitation    float64 `json:"precipitation"`
		WindSpeed        float64 `json:"wind_speed_10m"`
		WindDirection    float64 `json:"wind_direction_10m"`
		WindGusts        float64 `json:"wind_gusts_10m"`
		CloudCover       float64 `json:"cloud_cover"`
		SurfacePressure  float64 `json:"surface_pressure"`
		VisibilityMeters float64 `json:"visibility"`
	} `json:"current"`
	Hourly struct {
		Time             []string  `json:"time"`
		TemperatureC     []float64 `json:"temperature_2m"`
		Humidity         []float64 `json:"relative_humidity_2m"`
		Precipitation    []float64 `json:"precipitation"`
		WindSpeed        []float64 `json:"wind_speed_10m"`
		WindDirection    []float64 `json:"wind_direction_10m"`
		WindGusts        []float64 `json:"wind_gusts_10m"`
		CloudCover       []float64 `json:"cloud_cover"`
		SurfacePressure  []float64 `json:"surface_pressure"`
		VisibilityMeters []float64 `json:"visibility"`
	} `json:"hourly"`
}

// CurrentWeather returns current conditions at an airport.
func (c *Client) CurrentWeather(ctx context.Context, airportCode string) (*Conditions, error) {
	airport, err := geox.Lookup(airportCode)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(airport.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(airport.Longitude, 'f', 4, 64))
	query.Set("current", "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,wind_direction_10m,wind_gusts_10m,cloud_cover,surface_pressure,visibility")
	query.Set("wind_speed_unit", "kn")
	query.Set("temperature_unit", "celsius")

	var parsed forecastResponse
	if err := c.get(ctx, query, &parsed); err != nil {
		return nil, err
	}

	cur := parsed.Current
	cond := normalize(airport.Code, time.Now().UTC().Format(time.RFC3339),
		cur.TemperatureC, cur.WindSpeed, cur.WindDirection, cur.WindGusts,
		cur.VisibilityMeters, cur.CloudCover, cur.Precipitation, cur.SurfacePressure, cur.Humidity)
	return &cond, nil
}

// HourlyForecast returns up to hours of hourly forecasts for an airport.
func (c *Client) HourlyForecast(ctx context.Context, airportCode string, hours int) ([]Conditions, error) {
	airport, err := geox.Lookup(airportCode)
	if err != nil {
		return nil, err
	}
	if hours <= 0 {
		hours = 24
	}
	days := hours/24 + 1
	if days > 7 {
		days = 7
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(airport.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(airport.Longitude, 'f', 4, 64))
	query.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,wind_direction_10m,wind_gusts_10m,cloud_cover,surface_pressure,visibility")
	query.Set("wind_speed_unit", "kn")
	query.Set("temperature_unit", "celsius")
	query.Set("forecast_days", strconv.Itoa(days))

	var parsed forecastResponse
	if err := c.get(ctx, query, &parsed); err != nil {
		return nil, err
	}

	h := parsed.Hourly
	n := len(h.Time)
	if n > hours {
		n = hours
	}
	out := make([]Conditions, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, normalize(airport.Code, h.Time[i],
			at(h.TemperatureC, i, 15), at(h.WindSpeed, i, 0), at(h.WindDirection, i, 0),
			at(h.WindGusts, i, 0), at(h.VisibilityMeters, i, 10000), at(h.CloudCover, i, 0),
			at(h.Precipitation, i, 0), at(h.SurfacePressure, i, 1013), at(h.Humidity, i, 50)))
	}
	return out, nil
}

// Briefing is a comprehensive aviation weather picture for one airport.
type Briefing struct {
	AirportCode         string       `json:"airport_code"`
	BriefingTime        string       `json:"briefing_time"`
	CurrentConditions   *Conditions  `json:"current_conditions"`
	Forecast6h          []Conditions `json:"forecast_6h"`
	OperationalConcerns []string     `json:"operational_concerns"`
	RiskLevel           string       `json:"risk_level"`
}

// AviationBriefing combines current conditions with short-range trends into
// operational concerns and a coarse risk level.
func (c *Client) AviationBriefing(ctx context.Context, airportCode string) (*Briefing, error) {
	current, err := c.CurrentWeather(ctx, airportCode)
	if err != nil {
		return nil, err
	}
	forecast6h, err := c.HourlyForecast(ctx, airportCode, 6)
	if err != nil {
		return nil, err
	}

	var concerns []string
	if current.WindSpeedKts > 25 {
		concerns = append(concerns, "HIGH_WINDS")
	}
	if current.WindGustKts > 35 {
		concerns = append(concerns, "SEVERE_GUSTS")
	}
	if current.VisibilityKm < 5 {
		concerns = append(concerns, "LOW_VISIBILITY")
	}
	if current.PrecipitationMm > 2 {
		concerns = append(concerns, "HEAVY_PRECIPITATION")
	}
	if len(forecast6h) >= 2 {
		first, last := forecast6h[0], forecast6h[len(forecast6h)-1]
		if last.WindSpeedKts > first.WindSpeedKts*1.5 {
			concerns = append(concerns, "WIND_INCREASING")
		}
		if last.VisibilityKm < first.VisibilityKm*0.7 {
			concerns = append(concerns, "VISIBILITY_DETERIORATING")
		}
		for _, f := range forecast6h {
			if f.PrecipitationMm > 0.5 {
				concerns = append(concerns, "PRECIPITATION_EXPECTED")
				break
			}
		}
	}

	return &Briefing{
		AirportCode:         current.AirportCode,
		BriefingTime:        time.Now().UTC().Format(time.RFC3339),
		CurrentConditions:   current,
		Forecast6h:          forecast6h,
		OperationalConcerns: concerns,
		RiskLevel:           riskLevel(concerns),
	}, nil
}

func (c *Client) get(ctx context.Context, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute forecast request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read forecast response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("open-meteo http status=%d body=%s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode forecast response: %w", err)
	}
	return nil
}

func normalize(code, timestamp string, tempC, windKts, windDir, gustKts, visibilityM, cloud, precipMm, pressure, humidity float64) Conditions {
	visibilityKm := 10.0
	if visibilityM > 0 {
		visibilityKm = visibilityM / 1000
	}

	precipType := "NONE"
	if precipMm > 0 {
		switch {
		case tempC < 2:
			precipType = "SNOW"
		case tempC < 10:
			precipType = "SLEET"
		default:
			precipType = "RAIN"
		}
	}

	return Conditions{
		AirportCode:          code,
		Timestamp:            timestamp,
		TemperatureC:         tempC,
		WindSpeedKts:         round2(windKts),
		WindDirectionDeg:     windDir,
		WindGustKts:          round2(gustKts),
		VisibilityKm:         round2(visibilityKm),
		CloudCoveragePercent: cloud,
		PrecipitationType:    precipType,
		PrecipitationMm:      round2(precipMm),
		PressureMb:           pressure,
		HumidityPercent:      humidity,
		DataSource:           "OPEN_METEO",
	}
}

func riskLevel(concerns []string) string {
	if len(concerns) == 0 {
		return "LOW"
	}
	for _, c := range concerns {
		switch c {
		case "SEVERE_GUSTS", "LOW_VISIBILITY", "HEAVY_PRECIPITATION":
			return "HIGH"
		}
	}
	if len(concerns) >= 3 {
		return "MODERATE"
	}
	return "LOW"
}

func at(values []float64, i int, fallback float64) float64 {
	if i < len(values) {
		return values[i]
	}
	return fallback
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
