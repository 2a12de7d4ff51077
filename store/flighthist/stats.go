package flighthist

import "math"

// delayedThresholdMinutes matches the operational definition used across the
// pipeline: a flight is counted as delayed past 15 minutes.
const delayedThresholdMinutes = 15

// RouteSummary aggregates historical outcomes for a route.
type RouteSummary struct {
	TotalFlights      int     `json:"total_flights"`
	DelayedFlights    int     `json:"delayed_flights"`
	DelayRate         float64 `json:"delay_rate"`
	AverageDelayMins  float64 `json:"average_delay_minutes"`
	MaxDelayMins      int     `json:"max_delay_minutes"`
	CommonDelayReason string  `json:"common_delay_reason,omitempty"`
}

// Summarize reduces a history slice to delay statistics. Records without an
// actual delay are treated as on time.
func Summarize(records []FlightRecord) RouteSummary {
	summary := RouteSummary{TotalFlights: len(records)}
	if len(records) == 0 {
		return summary
	}

	var totalDelay int
	reasons := make(map[string]int)
	for _, rec := range records {
		if rec.ActualDelayMinutes == nil {
			continue
		}
		delay := *rec.ActualDelayMinutes
		if delay > summary.MaxDelayMins {
			summary.MaxDelayMins = delay
		}
		if delay > delayedThresholdMinutes {
			summary.DelayedFlights++
			totalDelay += delay
			if rec.DelayReason != "" {
				reasons[rec.DelayReason]++
			}
		}
	}

	summary.DelayRate = round2(float64(summary.DelayedFlights) / float64(summary.TotalFlights))
	if summary.DelayedFlights > 0 {
		summary.AverageDelayMins = round2(float64(totalDelay) / float64(summary.DelayedFlights))
	}

	best := 0
	for reason, count := range reasons {
		if count > best {
			best = count
			summary.CommonDelayReason = reason
		}
	}
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
