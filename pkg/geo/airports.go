package geo

// Airport is one entry in the static airport reference table.
type Airport struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// UTCOffsetHours is the standard-time UTC offset. Good enough for
	// crew-fatigue scoring; DST shifts change the difference by at most
	// an hour.
	UTCOffsetHours float64 `json:"utc_offset_hours"`
}

var airports = map[string]Airport{
	"DXB": {Code: "DXB", Name: "Dubai International", Latitude: 25.2532, Longitude: 55.3657, UTCOffsetHours: 4},
	"LHR": {Code: "LHR", Name: "London Heathrow", Latitude: 51.4700, Longitude: -0.4543, UTCOffsetHours: 0},
	"JFK": {Code: "JFK", Name: "New York JFK", Latitude: 40.6413, Longitude: -73.7781, UTCOffsetHours: -5},
	"LAX": {Code: "LAX", Name: "Los Angeles International", Latitude: 33.9416, Longitude: -118.4085, UTCOffsetHours: -8},
	"SIN": {Code: "SIN", Name: "Singapore Changi", Latitude: 1.3644, Longitude: 103.9915, UTCOffsetHours: 8},
	"FRA": {Code: "FRA", Name: "Frankfurt", Latitude: 50.0379, Longitude: 8.5622, UTCOffsetHours: 1},
	"NRT": {Code: "NRT", Name: "Tokyo Narita", Latitude: 35.7653, Longitude: 140.3856, UTCOffsetHours: 9},
	"DEL": {Code: "DEL", Name: "New Delhi Indira Gandhi", Latitude: 28.5562, Longitude: 77.1000, UTCOffsetHours: 5.5},
	"CDG": {Code: "CDG", Name: "Paris Charles de Gaulle", Latitude: 49.0097, Longitude: 2.5479, UTCOffsetHours: 1},
	"AMS": {Code: "AMS", Name: "Amsterdam Schiphol", Latitude: 52.3105, Longitude: 4.7683, UTCOffsetHours: 1},
	"HKG": {Code: "HKG", Name: "Hong Kong International", Latitude: 22.3080, Longitude: 113.9185, UTCOffsetHours: 8},
	"SYD": {Code: "SYD", Name: "Sydney Kingsford Smith", Latitude: -33.9399, Longitude: 151.1753, UTCOffsetHours: 10},
	"ORD": {Code: "ORD", Name: "Chicago O'Hare", Latitude: 41.9742, Longitude: -87.9073, UTCOffsetHours: -6},
	"ATL": {Code: "ATL", Name: "Atlanta Hartsfield-Jackson", Latitude: 33.6407, Longitude: -84.4277, UTCOffsetHours: -5},
	"DFW": {Code: "DFW", Name: "Dallas/Fort Worth", Latitude: 32.8998, Longitude: -97.0403, UTCOffsetHours: -6},
}
