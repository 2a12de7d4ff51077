package flighthist

import (
	"time"

	"github.com/uptrace/bun"
)

// FlightRecord is one historical flight with its actual outcome.
type FlightRecord struct {
	bun.BaseModel `bun:"table:flights_history"`

	FlightID           string     `bun:"flight_id,pk" json:"flight_id"`
	Origin             string     `bun:"origin,notnull" json:"origin"`
	Destination        string     `bun:"destination,notnull" json:"destination"`
	ScheduledDeparture time.Time  `bun:"scheduled_departure,notnull" json:"scheduled_departure"`
	ActualDeparture    *time.Time `bun:"actual_departure" json:"actual_departure,omitempty"`
	ScheduledArrival   time.Time  `bun:"scheduled_arrival,notnull" json:"scheduled_arrival"`
	ActualArrival      *time.Time `bun:"actual_arrival" json:"actual_arrival,omitempty"`
	AircraftType       string     `bun:"aircraft_type" json:"aircraft_type,omitempty"`
	Gate               string     `bun:"gate" json:"gate,omitempty"`
	ActualDelayMinutes *int       `bun:"actual_delay_minutes" json:"actual_delay_minutes,omitempty"`
	DelayReason        string     `bun:"delay_reason" json:"delay_reason,omitempty"`
	AirlineCode        string     `bun:"airline_code" json:"airline_code,omitempty"`
	FlightNumber       string     `bun:"flight_number" json:"flight_number,omitempty"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
