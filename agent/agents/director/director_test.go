package director

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preflightai/preflight/agent/agents/specialist"
	contractx "github.com/preflightai/preflight/agent/contract"
)

type countingReasoner struct {
	calls    atomic.Int64
	response string
}

func (c *countingReasoner) Complete(_ context.Context, _ string, _ []contractx.MemoryEntry, _ string, _ float64) string {
	c.calls.Add(1)
	return c.response
}

type fakeSpecialist struct {
	name   string
	delay  time.Duration
	result contractx.AgentResult

	mu    sync.Mutex
	tasks []string
}

func (f *fakeSpecialist) Name() string { return f.name }

func (f *fakeSpecialist) Run(ctx context.Context, task string) contractx.AgentResult {
	f.mu.Lock()
	f.tasks = append(f.tasks, task)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	result := f.result
	result.Agent = f.name
	return result
}

func testRequest() contractx.PredictionRequest {
	return contractx.PredictionRequest{
		FlightNumber:  "EK005",
		Origin:        "DXB",
		Destination:   "LHR",
		DepartureTime: time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC),
	}
}

func TestCoordinateWithZeroSpecialists(t *testing.T) {
	t.Parallel()

	reasoner := &countingReasoner{response: "not json at all"}
	d, err := New(context.Background(), Options{Reasoner: reasoner})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	report := d.Coordinate(context.Background(), testRequest())

	if got := reasoner.calls.Load(); got != 2 {
		t.Fatalf("reasoner calls = %d, want 2 (decompose + synthesize)", got)
	}
	if len(report.SpecialistReports) != 0 {
		t.Fatalf("len(SpecialistReports) = %d, want 0", len(report.SpecialistReports))
	}
	if report.FinalAssessment.DelayProbability != contractx.DefaultDelayProbability {
		t.Fatalf("DelayProbability = %v, want fallback %v",
			report.FinalAssessment.DelayProbability, contractx.DefaultDelayProbability)
	}
	if report.FinalAssessment.RiskLevel != contractx.DefaultRisk {
		t.Fatalf("RiskLevel = %q, want fallback %q", report.FinalAssessment.RiskLevel, contractx.DefaultRisk)
	}
	if report.FinalAssessment.Confidence != contractx.DefaultConfidence {
		t.Fatalf("Confidence = %d, want fallback %d", report.FinalAssessment.Confidence, contractx.DefaultConfidence)
	}
	if report.CoordinatedBy != "Director" {
		t.Fatalf("CoordinatedBy = %q, want Director", report.CoordinatedBy)
	}
}

func TestCoordinateGatewayCallCount(t *testing.T) {
	t.Parallel()

	reasoner := &countingReasoner{response: `{"reasoning": "ok", "tools_to_use": [], "confidence": 60}`}
	d, err := New(context.Background(), Options{Reasoner: reasoner})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, agentType := range []contractx.AgentType{contractx.AgentTypeWeather, contractx.AgentTypeLocation} {
		agent, err := specialist.New(context.Background(), specialist.Options{
			Name:     string(agentType),
			Type:     agentType,
			Reasoner: reasoner,
		})
		if err != nil {
			t.Fatalf("specialist.New(%s) error = %v", agentType, err)
		}
		d.RegisterSpecialist(agentType, agent)
	}

	d.Coordinate(context.Background(), testRequest())

	// one call per specialist plan, one per specialist synthesis, one
	// decomposition, one final synthesis
	if got := reasoner.calls.Load(); got != 6 {
		t.Fatalf("reasoner calls = %d, want 2*2+2 = 6", got)
	}
}

func TestCoordinateDelegatesFixedSubTasks(t *testing.T) {
	t.Parallel()

	reasoner := &countingReasoner{response: "{}"}
	d, err := New(context.Background(), Options{Reasoner: reasoner})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	weather := &fakeSpecialist{name: "WeatherSpecialist"}
	flight := &fakeSpecialist{name: "FlightSpecialist"}
	prediction := &fakeSpecialist{name: "PredictionSpecialist"}
	d.RegisterSpecialist(contractx.AgentTypeWeather, weather)
	d.RegisterSpecialist(contractx.AgentTypeFlight, flight)
	d.RegisterSpecialist(contractx.AgentTypePrediction, prediction)

	report := d.Coordinate(context.Background(), testRequest())

	for key := range map[string]struct{}{"weather": {}, "flight_history": {}, "prediction": {}} {
		if _, ok := report.SpecialistReports[key]; !ok {
			t.Fatalf("SpecialistReports missing key %q: %v", key, report.SpecialistReports)
		}
	}
	if len(weather.tasks) != 1 || !strings.Contains(weather.tasks[0], "weather for DXB and LHR") {
		t.Fatalf("weather tasks = %v, want fixed weather sub-task", weather.tasks)
	}
	if len(flight.tasks) != 1 || !strings.Contains(flight.tasks[0], "route DXB-LHR") {
		t.Fatalf("flight tasks = %v, want fixed route sub-task", flight.tasks)
	}
	if len(prediction.tasks) != 1 || !strings.Contains(prediction.tasks[0], "EK005") {
		t.Fatalf("prediction tasks = %v, want flight number in sub-task", prediction.tasks)
	}
}

func TestCoordinateFillsDegradedSlotOnTimeout(t *testing.T) {
	t.Parallel()

	reasoner := &countingReasoner{response: "{}"}
	d, err := New(context.Background(), Options{Reasoner: reasoner, FanoutTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	fast := &fakeSpecialist{
		name:   "WeatherSpecialist",
		result: contractx.AgentResult{Conclusion: contractx.Synthesis{Insights: "clear skies", Confidence: 90}},
	}
	slow := &fakeSpecialist{name: "FlightSpecialist", delay: 5 * time.Second}
	d.RegisterSpecialist(contractx.AgentTypeWeather, fast)
	d.RegisterSpecialist(contractx.AgentTypeFlight, slow)

	report := d.Coordinate(context.Background(), testRequest())

	got := report.SpecialistReports["weather"]
	if got.Error != "" || got.Conclusion.Confidence != 90 {
		t.Fatalf("fast specialist result = %+v, want intact result", got)
	}

	degraded := report.SpecialistReports["flight_history"]
	if degraded.Error == "" {
		t.Fatalf("slow specialist result = %+v, want degraded placeholder", degraded)
	}
	if degraded.Conclusion.Confidence != 0 {
		t.Fatalf("degraded Confidence = %d, want 0", degraded.Conclusion.Confidence)
	}
}

func TestCoordinateKeepsFinishedResultAfterSiblingTimeout(t *testing.T) {
	t.Parallel()

	reasoner := &countingReasoner{response: "{}"}
	d, err := New(context.Background(), Options{Reasoner: reasoner, FanoutTimeout: 80 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// slow specialist first: its slot exhausts the deadline, so every later
	// slot is read with the timeout already expired
	slow := &fakeSpecialist{name: "WeatherSpecialist", delay: 5 * time.Second}
	fast := &fakeSpecialist{
		name:   "FlightSpecialist",
		result: contractx.AgentResult{Conclusion: contractx.Synthesis{Insights: "route runs on time", Confidence: 88}},
	}
	d.RegisterSpecialist(contractx.AgentTypeWeather, slow)
	d.RegisterSpecialist(contractx.AgentTypeFlight, fast)

	for i := 0; i < 20; i++ {
		report := d.Coordinate(context.Background(), testRequest())

		got := report.SpecialistReports["flight_history"]
		if got.Error != "" || got.Conclusion.Confidence != 88 {
			t.Fatalf("run %d: finished specialist reported as %+v, want its delivered result", i, got)
		}
		degraded := report.SpecialistReports["weather"]
		if degraded.Error == "" || degraded.Conclusion.Confidence != 0 {
			t.Fatalf("run %d: slow specialist result = %+v, want degraded placeholder", i, degraded)
		}
	}
}

func TestCoordinateParsesFinalAssessment(t *testing.T) {
	t.Parallel()

	reasoner := &countingReasoner{response: `Here is my verdict:
{
  "delay_probability": 0.72,
  "risk_level": "HIGH",
  "contributing_factors": [{"factor": "crosswind", "impact": 0.23, "severity": "high"}],
  "confidence": 85,
  "recommendations": ["Notify crew"]
}`}
	d, err := New(context.Background(), Options{Reasoner: reasoner})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	report := d.Coordinate(context.Background(), testRequest())

	if report.FinalAssessment.DelayProbability != 0.72 {
		t.Fatalf("DelayProbability = %v, want 0.72", report.FinalAssessment.DelayProbability)
	}
	if report.FinalAssessment.RiskLevel != contractx.RiskHigh {
		t.Fatalf("RiskLevel = %q, want HIGH", report.FinalAssessment.RiskLevel)
	}
	if len(report.FinalAssessment.ContributingFactors) != 1 {
		t.Fatalf("ContributingFactors = %v, want one factor", report.FinalAssessment.ContributingFactors)
	}
	if report.Route != "DXB → LHR" {
		t.Fatalf("Route = %q, want DXB → LHR", report.Route)
	}
}

func TestRegisterSpecialistKeepsOrderOnReplace(t *testing.T) {
	t.Parallel()

	d, err := New(context.Background(), Options{Reasoner: &countingReasoner{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	d.RegisterSpecialist(contractx.AgentTypeWeather, &fakeSpecialist{name: "a"})
	d.RegisterSpecialist(contractx.AgentTypeFlight, &fakeSpecialist{name: "b"})
	d.RegisterSpecialist(contractx.AgentTypeWeather, &fakeSpecialist{name: "c"})

	got := d.Specialists()
	if len(got) != 2 || got[0] != contractx.AgentTypeWeather || got[1] != contractx.AgentTypeFlight {
		t.Fatalf("Specialists() = %v, want [weather flight] with original order", got)
	}
}
