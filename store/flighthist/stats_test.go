package flighthist

import "testing"

func intPtr(v int) *int { return &v }

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	got := Summarize(nil)
	if got.TotalFlights != 0 || got.DelayedFlights != 0 || got.DelayRate != 0 {
		t.Fatalf("Summarize(nil) = %+v, want zero summary", got)
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.13},
		{-0.125, -0.13},
		{1.004, 1.0},
		{-1.0, -1.0},
	}
	for _, tc := range cases {
		if got := round2(tc.in); got != tc.want {
			t.Fatalf("round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSummarizeCountsOnlyPastThreshold(t *testing.T) {
	t.Parallel()

	records := []FlightRecord{
		{ActualDelayMinutes: intPtr(5)},
		{ActualDelayMinutes: intPtr(15)},
		{ActualDelayMinutes: intPtr(45), DelayReason: "weather"},
		{ActualDelayMinutes: intPtr(25), DelayReason: "weather"},
		{ActualDelayMinutes: nil},
	}

	got := Summarize(records)
	if got.TotalFlights != 5 {
		t.Fatalf("TotalFlights = %d, want 5", got.TotalFlights)
	}
	if got.DelayedFlights != 2 {
		t.Fatalf("DelayedFlights = %d, want 2", got.DelayedFlights)
	}
	if got.DelayRate != 0.4 {
		t.Fatalf("DelayRate = %v, want 0.4", got.DelayRate)
	}
	if got.AverageDelayMins != 35 {
		t.Fatalf("AverageDelayMins = %v, want 35", got.AverageDelayMins)
	}
	if got.MaxDelayMins != 45 {
		t.Fatalf("MaxDelayMins = %d, want 45", got.MaxDelayMins)
	}
	if got.CommonDelayReason != "weather" {
		t.Fatalf("CommonDelayReason = %q, want %q", got.CommonDelayReason, "weather")
	}
}
