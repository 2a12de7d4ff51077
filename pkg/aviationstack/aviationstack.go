// Package aviationstack fetches real-time and historical flight data from
// the AviationStack REST API and derives route reliability statistics.
package aviationstack

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
)

const maxResponseSizeBytes = 4 << 20

type Config struct {
	URL     string        `envconfig:"URL" split_words:"true" default:"https://api.aviationstack.com/v1"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("aviationstack url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid aviationstack url: %w", err)
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("aviationstack api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
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

// Flight is one standardized flight record.
type Flight struct {
	FlightIATA   string `json:"flight_iata,omitempty"`
	FlightNumber string `json:"flight_number,omitempty"`
	AirlineName  string `json:"airline_name,omitempty"`
	AirlineIATA  string `json:"airline_iata,omitempty"`

	DepAirport   string `json:"dep_airport,omitempty"`
	DepIATA      string `json:"dep_iata,omitempty"`
	DepScheduled string `json:"dep_scheduled,omitempty"`
	DepActual    string `json:"dep_actual,omitempty"`

	ArrAirport string `json:"arr_airport,omitempty"`
	ArrIATA    string `json:"arr_iata,omitempty"`

	FlightStatus string `json:"flight_status,omitempty"`
	FlightDate   string `json:"flight_date,omitempty"`

	// DelayMinutes is nil when actual departure time is not yet known.
	DelayMinutes *int  `json:"delay_minutes,omitempty"`
	IsDelayed    *bool `json:"is_delayed,omitempty"`
}

// Query filters a flights request. Zero-valued fields are omitted.
type Query struct {
	FlightIATA string
	DepIATA    string
	ArrIATA    string
	Limit      int
}

type apiResponse struct {
	Data []struct {
		FlightDate   string `json:"flight_date"`
		FlightStatus string `json:"flight_status"`
		Departure    struct {
			Airport   string `json:"airport"`
			IATA      string `json:"iata"`
			Scheduled string `json:"scheduled"`
			Actual    string `json:"actual"`
		} `json:"departure"`
		Arrival struct {
			Airport string `json:"airport"`
			IATA    string `json:"iata"`
		} `json:"arrival"`
		Airline struct {
			Name string `json:"name"`
			IATA string `json:"iata"`
		} `json:"airline"`
		Flight struct {
			IATA   string `json:"iata"`
			Number string `json:"number"`
		} `json:"flight"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Flights queries the /flights endpoint with the given filters.
func (c *Client) Flights(ctx context.Context, q Query) ([]Flight, error) {
	query := url.Values{}
	query.Set("access_key", c.apiKey)
	if q.FlightIATA != "" {
		query.Set("flight_iata", q.FlightIATA)
	}
	if q.DepIATA != "" {
		query.Set("dep_iata", q.DepIATA)
	}
	if q.ArrIATA != "" {
		query.Set("arr_iata", q.ArrIATA)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/flights?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build flights request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute flights request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read flights response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("aviationstack http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode flights response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("aviationstack error code=%s: %s", parsed.Error.Code, parsed.Error.Message)
	}

	flights := make([]Flight, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		f := Flight{
			FlightIATA:   d.Flight.IATA,
			FlightNumber: d.Flight.Number,
			AirlineName:  d.Airline.Name,
			AirlineIATA:  d.Airline.IATA,
			DepAirport:   d.Departure.Airport,
			DepIATA:      d.Departure.IATA,
			DepScheduled: d.Departure.Scheduled,
			DepActual:    d.Departure.Actual,
			ArrAirport:   d.Arrival.Airport,
			ArrIATA:      d.Arrival.IATA,
			FlightStatus: d.FlightStatus,
			FlightDate:   d.FlightDate,
		}
		if delay, ok := delayMinutes(d.Departure.Scheduled, d.Departure.Actual); ok {
			f.DelayMinutes = &delay
			delayed := delay > delayedThresholdMinutes
			f.IsDelayed = &delayed
		}
		flights = append(flights, f)
	}
	return flights, nil
}

// RouteHistory returns recent flights for an origin-destination pair.
func (c *Client) RouteHistory(ctx context.Context, depIATA, arrIATA string, limit int) ([]Flight, error) {
	if strings.TrimSpace(depIATA) == "" || strings.TrimSpace(arrIATA) == "" {
		return nil, errors.New("both origin and destination are required")
	}
	return c.Flights(ctx, Query{DepIATA: depIATA, ArrIATA: arrIATA, Limit: limit})
}

// delayedThresholdMinutes is the industry convention for counting a
// departure as delayed.
const delayedThresholdMinutes = 15

func delayMinutes(scheduled, actual string) (int, bool) {
	if scheduled == "" || actual == "" {
		return 0, false
	}
	s, err := parseFlightTime(scheduled)
	if err != nil {
		return 0, false
	}
	a, err := parseFlightTime(actual)
	if err != nil {
		return 0, false
	}
	return int(a.Sub(s).Minutes()), true
}

func parseFlightTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05+00:00", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

// RouteStatistics summarizes delay behavior for one route.
type RouteStatistics struct {
	TotalFlights     int     `json:"total_flights"`
	FlightsWithData  int     `json:"flights_with_data"`
	AvgDelayMinutes  float64 `json:"avg_delay_minutes"`
	MaxDelayMinutes  int     `json:"max_delay_minutes"`
	MinDelayMinutes  int     `json:"min_delay_minutes"`
	OnTimeFlights    int     `json:"on_time_flights"`
	DelayedFlights   int     `json:"delayed_flights"`
	OnTimePercentage float64 `json:"on_time_percentage"`
	DelayPercentage  float64 `json:"delay_percentage"`
}

// CalculateRouteStatistics derives delay statistics from route history.
// Flights without actual departure times are counted but not scored.
func CalculateRouteStatistics(history []Flight) RouteStatistics {
	stats := RouteStatistics{TotalFlights: len(history)}

	var delays []int
	for _, f := range history {
		if f.DelayMinutes != nil {
			delays = append(delays, *f.DelayMinutes)
		}
	}
	if len(delays) == 0 {
		return stats
	}

	stats.FlightsWithData = len(delays)
	sum := 0
	stats.MaxDelayMinutes = delays[0]
	stats.MinDelayMinutes = delays[0]
	for _, d := range delays {
		sum += d
		if d > stats.MaxDelayMinutes {
			stats.MaxDelayMinutes = d
		}
		if d < stats.MinDelayMinutes {
			stats.MinDelayMinutes = d
		}
		if d > delayedThresholdMinutes {
			stats.DelayedFlights++
		}
	}
	stats.OnTimeFlights = len(delays) - stats.DelayedFlights
	stats.AvgDelayMinutes = round2(float64(sum) / float64(len(delays)))
	stats.OnTimePercentage = round2(float64(stats.OnTimeFlights) / float64(len(delays)) * 100)
	stats.DelayPercentage = round2(float64(stats.DelayedFlights) / float64(len(delays)) * 100)
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
