package specialist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	contractx "github.com/preflightai/preflight/agent/contract"
	toolx "github.com/preflightai/preflight/agent/tool"
	aviationstackx "github.com/preflightai/preflight/pkg/aviationstack"
)

type reasonerCall struct {
	system      string
	window      []contractx.MemoryEntry
	prompt      string
	temperature float64
}

// scriptedReasoner replays canned responses and records every call.
type scriptedReasoner struct {
	mu        sync.Mutex
	responses []string
	calls     []reasonerCall
}

func (s *scriptedReasoner) Complete(_ context.Context, system string, window []contractx.MemoryEntry, prompt string, temperature float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, reasonerCall{system: system, window: window, prompt: prompt, temperature: temperature})
	if len(s.responses) == 0 {
		return ""
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next
}

func newTestAgent(t *testing.T, reasoner contractx.Reasoner, registry *toolx.Registry) *Agent {
	t.Helper()
	agent, err := New(context.Background(), Options{
		Name:         "TestSpecialist",
		Type:         contractx.AgentTypeWeather,
		Role:         "Test Analyst",
		SystemPrompt: "You are a test specialist.",
		Reasoner:     reasoner,
		Registry:     registry,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return agent
}

func TestRunExecutesPlannedTool(t *testing.T) {
	t.Parallel()

	registry := toolx.NewRegistry()
	var gotParams map[string]any
	registry.MustRegister("lookup", "test lookup", func(_ context.Context, params map[string]any) (any, error) {
		gotParams = params
		return map[string]any{"value": 42}, nil
	}, nil)

	reasoner := &scriptedReasoner{responses: []string{
		`{"reasoning": "need the lookup", "tools_to_use": [{"tool": "lookup", "parameters": {"key": "DXB"}}], "expected_outcome": "data"}`,
		`{"key_findings": ["found it"], "insights": "all good", "recommendations": ["proceed"], "confidence": 82}`,
	}}

	agent := newTestAgent(t, reasoner, registry)
	result := agent.Run(context.Background(), "analyze DXB")

	if result.Agent != "TestSpecialist" {
		t.Fatalf("result.Agent = %q, want TestSpecialist", result.Agent)
	}
	if result.Reasoning != "need the lookup" {
		t.Fatalf("result.Reasoning = %q, want planning reasoning", result.Reasoning)
	}
	if len(result.Actions) != 1 {
		t.Fatalf("len(result.Actions) = %d, want 1", len(result.Actions))
	}
	if result.Actions[0].Tool != "lookup" || result.Actions[0].Error != "" {
		t.Fatalf("Actions[0] = %+v, want successful lookup", result.Actions[0])
	}
	if gotParams["key"] != "DXB" {
		t.Fatalf("tool params = %v, want key=DXB", gotParams)
	}
	if result.Conclusion.Confidence != 82 {
		t.Fatalf("Conclusion.Confidence = %d, want 82", result.Conclusion.Confidence)
	}
	if len(reasoner.calls) != 2 {
		t.Fatalf("reasoner called %d times, want 2", len(reasoner.calls))
	}
	if reasoner.calls[0].temperature != 0.3 || reasoner.calls[1].temperature != 0.5 {
		t.Fatalf("temperatures = %v / %v, want 0.3 planning and 0.5 synthesis",
			reasoner.calls[0].temperature, reasoner.calls[1].temperature)
	}
}

func TestRunProsePlanDegradesToNoTools(t *testing.T) {
	t.Parallel()

	reasoner := &scriptedReasoner{responses: []string{
		"I think the weather looks fine, no need to check anything.",
		"also not json",
	}}

	agent := newTestAgent(t, reasoner, nil)
	result := agent.Run(context.Background(), "analyze weather")

	if len(result.Actions) != 0 {
		t.Fatalf("len(result.Actions) = %d, want 0", len(result.Actions))
	}
	if !strings.Contains(result.Reasoning, "weather looks fine") {
		t.Fatalf("result.Reasoning = %q, want raw prose kept", result.Reasoning)
	}
	if result.Conclusion.Confidence != contractx.DefaultConfidence {
		t.Fatalf("Conclusion.Confidence = %d, want default %d", result.Conclusion.Confidence, contractx.DefaultConfidence)
	}
	if result.Conclusion.Insights != "also not json" {
		t.Fatalf("Conclusion.Insights = %q, want raw synthesis text", result.Conclusion.Insights)
	}
}

func TestRunSkipsUnknownPlannedTools(t *testing.T) {
	t.Parallel()

	registry := toolx.NewRegistry()
	registry.MustRegister("known", "known tool", func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	}, nil)

	reasoner := &scriptedReasoner{responses: []string{
		`{"reasoning": "try both", "tools_to_use": [{"tool": "imaginary"}, {"tool": "known"}]}`,
		`{"insights": "done", "confidence": 70}`,
	}}

	agent := newTestAgent(t, reasoner, registry)
	result := agent.Run(context.Background(), "task")

	if len(result.Actions) != 1 {
		t.Fatalf("len(result.Actions) = %d, want 1 (unknown tool skipped)", len(result.Actions))
	}
	if result.Actions[0].Tool != "known" {
		t.Fatalf("Actions[0].Tool = %q, want known", result.Actions[0].Tool)
	}
}

func TestRunCapturesToolFailure(t *testing.T) {
	t.Parallel()

	registry := toolx.NewRegistry()
	registry.MustRegister("broken", "always fails", func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("upstream unavailable")
	}, nil)

	reasoner := &scriptedReasoner{responses: []string{
		`{"reasoning": "use it", "tools_to_use": [{"tool": "broken"}]}`,
		`{"insights": "degraded data", "confidence": 30}`,
	}}

	agent := newTestAgent(t, reasoner, registry)
	result := agent.Run(context.Background(), "task")

	if len(result.Actions) != 1 {
		t.Fatalf("len(result.Actions) = %d, want 1", len(result.Actions))
	}
	if !strings.Contains(result.Actions[0].Error, "upstream unavailable") {
		t.Fatalf("Actions[0].Error = %q, want tool failure captured", result.Actions[0].Error)
	}
	if result.Conclusion.Confidence != 30 {
		t.Fatalf("Conclusion.Confidence = %d, want 30", result.Conclusion.Confidence)
	}
}

func TestRunRecordsMemoryAndHistory(t *testing.T) {
	t.Parallel()

	reasoner := &scriptedReasoner{responses: []string{
		`{"reasoning": "nothing to do", "tools_to_use": []}`,
		`{"insights": "idle", "confidence": 64}`,
		`{"reasoning": "still nothing", "tools_to_use": []}`,
		`{"insights": "idle again", "confidence": 71}`,
	}}

	agent := newTestAgent(t, reasoner, nil)
	agent.Run(context.Background(), "first task")
	agent.Run(context.Background(), "second task")

	history := agent.History()
	if len(history) != 2 {
		t.Fatalf("len(History()) = %d, want 2", len(history))
	}
	if history[0].Task != "first task" || history[1].Task != "second task" {
		t.Fatalf("history tasks = %q, %q; want insertion order", history[0].Task, history[1].Task)
	}
	if history[0].ID == "" || history[0].ID == history[1].ID {
		t.Fatalf("history IDs = %q, %q; want distinct non-empty", history[0].ID, history[1].ID)
	}

	// second planning call sees the first pass: task plus confidence note
	window := reasoner.calls[2].window
	var sawNote bool
	for _, entry := range window {
		if entry.Role == contractx.RoleAssistant && strings.Contains(entry.Content, "Confidence: 64%") {
			sawNote = true
		}
	}
	if !sawNote {
		t.Fatalf("second planning window %v missing assistant confidence note", window)
	}

	status := agent.Status()
	if status.TasksCompleted != 2 {
		t.Fatalf("Status().TasksCompleted = %d, want 2", status.TasksCompleted)
	}
	if status.MemorySize != 4 {
		t.Fatalf("Status().MemorySize = %d, want 4", status.MemorySize)
	}
}

func TestScoreWeatherRisk(t *testing.T) {
	t.Parallel()

	got := scoreWeatherRisk(map[string]any{
		"wind_speed_kts":   30.0,
		"visibility_km":    0.0,
		"precipitation_mm": 10.0,
	})
	if got.RiskScores.Overall != 1.0 {
		t.Fatalf("Overall = %v, want 1.0", got.RiskScores.Overall)
	}
	if got.DelayContribution != 0.3 {
		t.Fatalf("DelayContribution = %v, want 0.3", got.DelayContribution)
	}
	if got.Severity != string(contractx.RiskHigh) {
		t.Fatalf("Severity = %q, want HIGH", got.Severity)
	}

	calm := scoreWeatherRisk(map[string]any{"wind_speed_kts": 5.0, "visibility_km": 10.0})
	if calm.Severity != string(contractx.RiskLow) {
		t.Fatalf("calm Severity = %q, want LOW", calm.Severity)
	}
}

func TestAnalyzeTemporalPatterns(t *testing.T) {
	t.Parallel()

	d20 := 20
	d60 := 60
	history := []aviationstackx.Flight{
		{DelayMinutes: &d20, DepScheduled: "2026-08-17T08:00:00Z"}, // Monday
		{DelayMinutes: &d60, DepScheduled: "2026-08-21T18:00:00Z"}, // Friday
		{DepScheduled: "2026-08-22T09:00:00Z"},                     // no delay data, skipped
	}

	got := analyzeTemporalPatterns(history)
	if got.WorstDay != "Friday" {
		t.Fatalf("WorstDay = %q, want Friday", got.WorstDay)
	}
	if got.WorstHour != "18" {
		t.Fatalf("WorstHour = %q, want 18", got.WorstHour)
	}
	if got.TemporalRiskFactor != 0.15 {
		t.Fatalf("TemporalRiskFactor = %v, want 0.15", got.TemporalRiskFactor)
	}
	if got.DayOfWeekPatterns["Monday"] != 20 {
		t.Fatalf("Monday avg = %v, want 20", got.DayOfWeekPatterns["Monday"])
	}

	empty := analyzeTemporalPatterns(nil)
	if empty.TemporalRiskFactor != 0.05 {
		t.Fatalf("empty TemporalRiskFactor = %v, want 0.05", empty.TemporalRiskFactor)
	}
}
