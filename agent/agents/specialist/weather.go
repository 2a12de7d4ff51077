package specialist

import (
	"context"
	"errors"
	"fmt"
	"math"

	contractx "github.com/preflightai/preflight/agent/contract"
	toolx "github.com/preflightai/preflight/agent/tool"
	openmeteox "github.com/preflightai/preflight/pkg/openmeteo"
)

// NewWeather builds the weather specialist around an Open-Meteo client.
func NewWeather(ctx context.Context, reasoner contractx.Reasoner, systemPrompt string, weather *openmeteox.Client) (*Agent, error) {
	if weather == nil {
		return nil, fmt.Errorf("%w: weather specialist needs a weather client", contractx.ErrValidation)
	}

	registry := toolx.NewRegistry()

	registry.MustRegister(
		"get_current_weather",
		"Get current weather conditions at an airport",
		func(ctx context.Context, params map[string]any) (any, error) {
			code := stringParam(params, "airport_code")
			if code == "" {
				return nil, errors.New("airport_code is required")
			}
			return weather.CurrentWeather(ctx, code)
		},
		map[string]toolx.Param{
			"airport_code": {Type: "string", Description: "IATA airport code (e.g., 'DXB', 'LHR')", Required: true},
		},
	)

	registry.MustRegister(
		"get_forecast",
		"Get hourly weather forecast for airport",
		func(ctx context.Context, params map[string]any) (any, error) {
			code := stringParam(params, "airport_code")
			if code == "" {
				return nil, errors.New("airport_code is required")
			}
			return weather.HourlyForecast(ctx, code, intParam(params, "hours", 24))
		},
		map[string]toolx.Param{
			"airport_code": {Type: "string", Required: true},
			"hours":        {Type: "integer", Default: 24},
		},
	)

	registry.MustRegister(
		"get_aviation_briefing",
		"Get comprehensive aviation weather briefing",
		func(ctx context.Context, params map[string]any) (any, error) {
			code := stringParam(params, "airport_code")
			if code == "" {
				return nil, errors.New("airport_code is required")
			}
			return weather.AviationBriefing(ctx, code)
		},
		map[string]toolx.Param{
			"airport_code": {Type: "string", Required: true},
		},
	)

	registry.MustRegister(
		"analyze_weather_trends",
		"Analyze weather data and calculate risk scores",
		func(ctx context.Context, params map[string]any) (any, error) {
			data, ok := params["weather_data"].(map[string]any)
			if !ok {
				return nil, errors.New("weather_data object is required")
			}
			return scoreWeatherRisk(data), nil
		},
		map[string]toolx.Param{
			"weather_data": {Type: "object", Required: true},
		},
	)

	return New(ctx, Options{
		Name:         "WeatherSpecialist",
		Type:         contractx.AgentTypeWeather,
		Role:         "Aviation Meteorologist",
		SystemPrompt: systemPrompt,
		Reasoner:     reasoner,
		Registry:     registry,
	})
}

// weatherRiskScores correlates observed conditions with delay contribution.
type weatherRiskScores struct {
	RiskScores struct {
		Wind          float64 `json:"wind"`
		Visibility    float64 `json:"visibility"`
		Precipitation float64 `json:"precipitation"`
		Overall       float64 `json:"overall"`
	} `json:"risk_scores"`
	DelayContribution float64 `json:"delay_contribution"`
	Severity          string  `json:"severity"`
}

func scoreWeatherRisk(data map[string]any) weatherRiskScores {
	wind := floatParam(data, "wind_speed_kts", 0)
	visibility := floatParam(data, "visibility_km", 10)
	precip := floatParam(data, "precipitation_mm", 0)

	// >30kts wind is the high-risk ceiling; visibility degrades below 10km.
	windRisk := clamp01(wind / 30)
	visibilityRisk := clamp01((10 - visibility) / 10)
	precipRisk := clamp01(precip / 10)
	overall := (windRisk + visibilityRisk + precipRisk) / 3

	var out weatherRiskScores
	out.RiskScores.Wind = round2(windRisk)
	out.RiskScores.Visibility = round2(visibilityRisk)
	out.RiskScores.Precipitation = round2(precipRisk)
	out.RiskScores.Overall = round2(overall)
	// weather contributes at most 30% of overall delay probability
	out.DelayContribution = round2(overall * 0.3)
	switch {
	case overall > 0.7:
		out.Severity = string(contractx.RiskHigh)
	case overall > 0.4:
		out.Severity = string(contractx.RiskModerate)
	default:
		out.Severity = string(contractx.RiskLow)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
