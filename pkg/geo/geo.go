// Package geo answers the location specialist's questions from a static
// airport reference table: coordinates, great-circle distances, alternates
// within range, and timezone impact on crew operations.
package geo

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	earthRadiusKm = 6371.0
	// Rough cruise average used for duration estimates.
	cruiseSpeedKmh = 800.0
)

var ErrUnknownAirport = errors.New("airport not found in reference table")

// Lookup resolves an IATA code against the reference table.
func Lookup(code string) (Airport, error) {
	airport, ok := airports[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Airport{}, fmt.Errorf("%w: %s", ErrUnknownAirport, code)
	}
	return airport, nil
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RouteDistance describes the great-circle route between two airports.
type RouteDistance struct {
	Origin                   string  `json:"origin"`
	Destination              string  `json:"destination"`
	DistanceKm               float64 `json:"distance_km"`
	EstimatedDurationMinutes int     `json:"estimated_flight_duration_minutes"`
}

// Distance computes distance and an estimated flight duration between two
// airports by IATA code.
func Distance(origin, destination string) (RouteDistance, error) {
	from, err := Lookup(origin)
	if err != nil {
		return RouteDistance{}, err
	}
	to, err := Lookup(destination)
	if err != nil {
		return RouteDistance{}, err
	}

	km := Haversine(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	return RouteDistance{
		Origin:                   from.Code,
		Destination:              to.Code,
		DistanceKm:               math.Round(km*100) / 100,
		EstimatedDurationMinutes: int(km / cruiseSpeedKmh * 60),
	}, nil
}

// NearbyAirport is one alternate candidate with its distance from the
// search point.
type NearbyAirport struct {
	Airport
	DistanceKm float64 `json:"distance_km"`
}

// Nearby returns airports within radiusKm of a point, closest first.
func Nearby(lat, lon, radiusKm float64) []NearbyAirport {
	if radiusKm <= 0 {
		radiusKm = 100
	}

	var out []NearbyAirport
	for _, airport := range airports {
		km := Haversine(lat, lon, airport.Latitude, airport.Longitude)
		if km <= radiusKm {
			out = append(out, NearbyAirport{
				Airport:    airport,
				DistanceKm: math.Round(km*100) / 100,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// TimezoneImpact is the crew-fatigue analysis for a route.
type TimezoneImpact struct {
	DifferenceHours float64 `json:"timezone_difference_hours"`
	RiskLevel       string  `json:"risk_level"`
	FatigueFactor   float64 `json:"fatigue_factor"`
	Recommendation  string  `json:"recommendation"`
}

// AnalyzeTimezoneImpact scores the crew-fatigue risk of a timezone span.
// Six hours or more is the long-haul threshold where rest requirements bite.
func AnalyzeTimezoneImpact(origin, destination string) (TimezoneImpact, error) {
	from, err := Lookup(origin)
	if err != nil {
		return TimezoneImpact{}, err
	}
	to, err := Lookup(destination)
	if err != nil {
		return TimezoneImpact{}, err
	}

	diff := math.Abs(from.UTCOffsetHours - to.UTCOffsetHours)

	impact := TimezoneImpact{
		DifferenceHours: diff,
		Recommendation:  "Standard operations",
	}
	switch {
	case diff >= 6:
		impact.RiskLevel = "HIGH"
		impact.FatigueFactor = 0.15
		impact.Recommendation = "Consider crew rest requirements"
	case diff >= 3:
		impact.RiskLevel = "MODERATE"
		impact.FatigueFactor = 0.08
	default:
		impact.RiskLevel = "LOW"
		impact.FatigueFactor = 0.02
	}
	return impact, nil
}
