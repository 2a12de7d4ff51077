package specialist

import (
	"context"
	"errors"

	contractx "github.com/preflightai/preflight/agent/contract"
	toolx "github.com/preflightai/preflight/agent/tool"
	geox "github.com/preflightai/preflight/pkg/geo"
)

// NewLocation builds the geography specialist. Its tools are backed by the
// static airport reference table, so it takes no external clients.
func NewLocation(ctx context.Context, reasoner contractx.Reasoner, systemPrompt string) (*Agent, error) {
	registry := toolx.NewRegistry()

	registry.MustRegister(
		"get_airport_location",
		"Get airport coordinates, timezone, and location data",
		func(ctx context.Context, params map[string]any) (any, error) {
			code := stringParam(params, "airport_code")
			if code == "" {
				return nil, errors.New("airport_code is required")
			}
			return geox.Lookup(code)
		},
		map[string]toolx.Param{
			"airport_code": {Type: "string", Required: true},
		},
	)

	registry.MustRegister(
		"calculate_route_distance",
		"Calculate distance and estimated duration between airports",
		func(ctx context.Context, params map[string]any) (any, error) {
			origin := stringParam(params, "origin")
			destination := stringParam(params, "destination")
			if origin == "" || destination == "" {
				return nil, errors.New("origin and destination are required")
			}
			return geox.Distance(origin, destination)
		},
		map[string]toolx.Param{
			"origin":      {Type: "string", Required: true},
			"destination": {Type: "string", Required: true},
		},
	)

	registry.MustRegister(
		"get_nearby_airports",
		"Find alternate airports within radius",
		func(ctx context.Context, params map[string]any) (any, error) {
			lat := floatParam(params, "latitude", 0)
			lon := floatParam(params, "longitude", 0)
			radius := floatParam(params, "radius_km", 100)
			nearby := geox.Nearby(lat, lon, radius)
			if len(nearby) == 0 {
				return nil, errors.New("no airports within radius")
			}
			return nearby, nil
		},
		map[string]toolx.Param{
			"latitude":  {Type: "number", Required: true},
			"longitude": {Type: "number", Required: true},
			"radius_km": {Type: "number", Default: 100},
		},
	)

	registry.MustRegister(
		"analyze_timezone_impact",
		"Assess timezone difference impact on crew and operations",
		func(ctx context.Context, params map[string]any) (any, error) {
			origin := stringParam(params, "origin")
			destination := stringParam(params, "destination")
			if origin == "" || destination == "" {
				return nil, errors.New("origin and destination are required")
			}
			impact, err := geox.AnalyzeTimezoneImpact(origin, destination)
			if err != nil {
				// unknown airports degrade to minimal impact instead of failing
				return geox.TimezoneImpact{
					RiskLevel:      string(contractx.RiskLow),
					FatigueFactor:  0.02,
					Recommendation: "Standard operations",
				}, nil
			}
			return impact, nil
		},
		map[string]toolx.Param{
			"origin":      {Type: "string", Required: true},
			"destination": {Type: "string", Required: true},
		},
	)

	return New(ctx, Options{
		Name:         "LocationSpecialist",
		Type:         contractx.AgentTypeLocation,
		Role:         "Aviation Geographer",
		SystemPrompt: systemPrompt,
		Reasoner:     reasoner,
		Registry:     registry,
	})
}
