package specialist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	contractx "github.com/preflightai/preflight/agent/contract"
	toolx "github.com/preflightai/preflight/agent/tool"
	aviationstackx "github.com/preflightai/preflight/pkg/aviationstack"
	flighthistx "github.com/preflightai/preflight/store/flighthist"
)

// NewFlight builds the flight operations specialist. The store is optional:
// when present, route history is served from the local database and the
// AviationStack API is only the fallback.
func NewFlight(ctx context.Context, reasoner contractx.Reasoner, systemPrompt string, flights *aviationstackx.Client, store *flighthistx.Store) (*Agent, error) {
	if flights == nil {
		return nil, fmt.Errorf("%w: flight specialist needs a flight tracking client", contractx.ErrValidation)
	}

	registry := toolx.NewRegistry()

	registry.MustRegister(
		"get_route_history",
		"Get historical flight data for a route",
		func(ctx context.Context, params map[string]any) (any, error) {
			origin := stringParam(params, "origin")
			destination := stringParam(params, "destination")
			if origin == "" || destination == "" {
				return nil, errors.New("origin and destination are required")
			}
			days := intParam(params, "days", 30)

			if store != nil {
				records, err := store.RouteHistory(ctx, origin, destination, days)
				if err == nil {
					return records, nil
				}
				if !errors.Is(err, flighthistx.ErrNoHistory) {
					return nil, err
				}
			}

			history, err := flights.RouteHistory(ctx, origin, destination, 100)
			if err != nil {
				return nil, err
			}
			if len(history) == 0 {
				return nil, errors.New("no route history found")
			}
			return history, nil
		},
		map[string]toolx.Param{
			"origin":      {Type: "string", Required: true},
			"destination": {Type: "string", Required: true},
			"days":        {Type: "integer", Default: 30},
		},
	)

	registry.MustRegister(
		"calculate_route_stats",
		"Calculate statistical metrics for route performance",
		func(ctx context.Context, params map[string]any) (any, error) {
			history, err := routeDataParam(params)
			if err != nil {
				return nil, err
			}
			return aviationstackx.CalculateRouteStatistics(history), nil
		},
		map[string]toolx.Param{
			"route_data": {Type: "array", Required: true},
		},
	)

	registry.MustRegister(
		"analyze_temporal_patterns",
		"Identify day-of-week and time-of-day delay patterns",
		func(ctx context.Context, params map[string]any) (any, error) {
			history, err := routeDataParam(params)
			if err != nil {
				return nil, err
			}
			return analyzeTemporalPatterns(history), nil
		},
		map[string]toolx.Param{
			"route_data": {Type: "array", Required: true},
		},
	)

	registry.MustRegister(
		"get_real_time_flights",
		"Get current real-time flight status",
		func(ctx context.Context, params map[string]any) (any, error) {
			q := aviationstackx.Query{
				FlightIATA: stringParam(params, "flight_iata"),
				DepIATA:    stringParam(params, "dep_iata"),
				Limit:      10,
			}
			if q.FlightIATA == "" && q.DepIATA == "" {
				return nil, errors.New("flight_iata or dep_iata is required")
			}
			found, err := flights.Flights(ctx, q)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				return nil, errors.New("no flights found")
			}
			return found, nil
		},
		map[string]toolx.Param{
			"flight_iata": {Type: "string"},
			"dep_iata":    {Type: "string"},
		},
	)

	return New(ctx, Options{
		Name:         "FlightSpecialist",
		Type:         contractx.AgentTypeFlight,
		Role:         "Aviation Operations Analyst",
		SystemPrompt: systemPrompt,
		Reasoner:     reasoner,
		Registry:     registry,
	})
}

func routeDataParam(params map[string]any) ([]aviationstackx.Flight, error) {
	raw, ok := params["route_data"]
	if !ok || raw == nil {
		return nil, errors.New("no data provided")
	}
	var history []aviationstackx.Flight
	if err := decodeParam(raw, &history); err != nil {
		return nil, fmt.Errorf("route_data is not a flight list: %w", err)
	}
	if len(history) == 0 {
		return nil, errors.New("no data provided")
	}
	return history, nil
}

// temporalPatterns surfaces which weekdays and departure hours run late.
type temporalPatterns struct {
	DayOfWeekPatterns  map[string]float64 `json:"day_of_week_patterns"`
	HourOfDayPatterns  map[string]float64 `json:"hour_of_day_patterns"`
	WorstDay           string             `json:"worst_day,omitempty"`
	WorstHour          string             `json:"worst_hour,omitempty"`
	TemporalRiskFactor float64            `json:"temporal_risk_factor"`
}

func analyzeTemporalPatterns(history []aviationstackx.Flight) temporalPatterns {
	daySums := make(map[string][2]float64)
	hourSums := make(map[string][2]float64)

	for _, f := range history {
		if f.DelayMinutes == nil || f.DepScheduled == "" {
			continue
		}
		dt, err := time.Parse(time.RFC3339, f.DepScheduled)
		if err != nil {
			continue
		}
		delay := float64(*f.DelayMinutes)

		day := dt.Weekday().String()
		s := daySums[day]
		daySums[day] = [2]float64{s[0] + delay, s[1] + 1}

		hour := strconv.Itoa(dt.Hour())
		s = hourSums[hour]
		hourSums[hour] = [2]float64{s[0] + delay, s[1] + 1}
	}

	out := temporalPatterns{
		DayOfWeekPatterns:  make(map[string]float64, len(daySums)),
		HourOfDayPatterns:  make(map[string]float64, len(hourSums)),
		TemporalRiskFactor: 0.05,
	}

	worstDayAvg := 0.0
	for day, s := range daySums {
		avg := s[0] / s[1]
		out.DayOfWeekPatterns[day] = avg
		if out.WorstDay == "" || avg > worstDayAvg {
			out.WorstDay = day
			worstDayAvg = avg
		}
	}
	worstHourAvg := 0.0
	for hour, s := range hourSums {
		avg := s[0] / s[1]
		out.HourOfDayPatterns[hour] = avg
		if out.WorstHour == "" || avg > worstHourAvg {
			out.WorstHour = hour
			worstHourAvg = avg
		}
	}

	if out.WorstDay != "" || out.WorstHour != "" {
		out.TemporalRiskFactor = 0.15
	}
	return out
}
