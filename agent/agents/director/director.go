// Package director implements the coordinating agent. It decomposes a
// prediction request, fans the fixed sub-tasks out to every registered
// specialist concurrently, and synthesizes their conclusions into one
// final assessment.
package director

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/preflightai/preflight/agent/contract"
	extractx "github.com/preflightai/preflight/agent/extract"
	memoryx "github.com/preflightai/preflight/agent/memory"
)

const (
	analysisTemperature  = 0.3
	synthesisTemperature = 0.3

	// DefaultFanoutTimeout bounds the whole delegation phase. Each
	// specialist makes two blocking oracle calls, so this sits above two
	// gateway timeouts.
	DefaultFanoutTimeout = 150 * time.Second
)

// Options configure the director.
type Options struct {
	Reasoner      contractx.Reasoner
	SystemPrompt  string
	FanoutTimeout time.Duration
}

// Director owns a named set of specialists. Coordinate never fails: missing
// specialists, timeouts, and unparseable model output all degrade into the
// report instead of erroring.
type Director struct {
	name          string
	systemPrompt  string
	reasoner      contractx.Reasoner
	memory        *memoryx.Memory
	fanoutTimeout time.Duration
	runner        compose.Runnable[contractx.PredictionRequest, contractx.Report]

	mu          sync.Mutex
	order       []contractx.AgentType
	specialists map[contractx.AgentType]contractx.Specialist
}

func New(ctx context.Context, opts Options) (*Director, error) {
	if opts.Reasoner == nil {
		return nil, fmt.Errorf("%w: director has no reasoner", contractx.ErrValidation)
	}
	timeout := opts.FanoutTimeout
	if timeout <= 0 {
		timeout = DefaultFanoutTimeout
	}
	d := &Director{
		name:          "Director",
		systemPrompt:  opts.SystemPrompt,
		reasoner:      opts.Reasoner,
		memory:        memoryx.New(memoryx.DefaultCapacity),
		fanoutTimeout: timeout,
		specialists:   make(map[contractx.AgentType]contractx.Specialist),
	}
	runner, err := d.compileCoordinateGraph(ctx)
	if err != nil {
		return nil, err
	}
	d.runner = runner
	return d, nil
}

func (d *Director) Name() string { return d.name }

// RegisterSpecialist places a specialist under the director's coordination.
// Re-registering a type replaces the agent but keeps its delegation order.
func (d *Director) RegisterSpecialist(agentType contractx.AgentType, s contractx.Specialist) {
	if s == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.specialists[agentType]; !exists {
		d.order = append(d.order, agentType)
	}
	d.specialists[agentType] = s
}

// Specialists returns the registered agent types in delegation order.
func (d *Director) Specialists() []contractx.AgentType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]contractx.AgentType, len(d.order))
	copy(out, d.order)
	return out
}

// Coordinate runs one full multi-agent prediction: one decomposition call,
// one concurrent pass over every registered specialist, one final synthesis
// call. Works with zero registered specialists; the report then carries only
// the director's own analysis and verdict.
func (d *Director) Coordinate(ctx context.Context, req contractx.PredictionRequest) contractx.Report {
	log.Info().
		Str("flight", req.FlightNumber).
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Msg("coordinating prediction")

	report, err := d.runner.Invoke(ctx, req)
	if err != nil {
		log.Warn().Str("flight", req.FlightNumber).Err(err).Msg("coordination degraded")
		return contractx.Report{
			FlightNumber:  req.FlightNumber,
			Route:         fmt.Sprintf("%s → %s", req.Origin, req.Destination),
			DepartureTime: req.DepartureTime,
			FinalAssessment: contractx.Assessment{
				DelayProbability: contractx.DefaultDelayProbability,
				RiskLevel:        contractx.DefaultRisk,
				Confidence:       contractx.DefaultConfidence,
			},
			Timestamp:     time.Now().UTC(),
			CoordinatedBy: d.name,
		}
	}
	return report
}

// coordState threads one coordination pass through the graph.
type coordState struct {
	req      contractx.PredictionRequest
	analysis contractx.AgentResult
	reports  map[string]contractx.AgentResult
}

func (d *Director) analyzeStep(ctx context.Context, req contractx.PredictionRequest) (*coordState, error) {
	return &coordState{req: req, analysis: d.analyze(ctx, req)}, nil
}

func (d *Director) delegateStep(ctx context.Context, state *coordState) (*coordState, error) {
	state.reports = d.delegate(ctx, state.req)
	return state, nil
}

func (d *Director) synthesizeStep(ctx context.Context, state *coordState) (contractx.Report, error) {
	assessment := d.synthesize(ctx, state.req.FlightNumber, state.reports)

	d.memory.Append(contractx.RoleAssistant,
		fmt.Sprintf("Coordinated prediction for %s. Confidence: %d%%", state.req.FlightNumber, assessment.Confidence))

	return contractx.Report{
		FlightNumber:      state.req.FlightNumber,
		Route:             fmt.Sprintf("%s → %s", state.req.Origin, state.req.Destination),
		DepartureTime:     state.req.DepartureTime,
		DirectorAnalysis:  state.analysis,
		SpecialistReports: state.reports,
		FinalAssessment:   assessment,
		Timestamp:         time.Now().UTC(),
		CoordinatedBy:     d.name,
	}, nil
}

// analyze is the single decomposition call.
func (d *Director) analyze(ctx context.Context, req contractx.PredictionRequest) contractx.AgentResult {
	departure := req.DepartureTime.UTC().Format(time.RFC3339)
	task := fmt.Sprintf(`Predict delay probability for flight %s:
- Route: %s → %s
- Departure: %s

Coordinate with specialist agents to gather:
1. Weather conditions at origin and destination
2. Historical performance of this route
3. Geographic factors (timezone, distance, nearby airports)
4. ML model prediction

Synthesize all data and provide final assessment.`, req.FlightNumber, req.Origin, req.Destination, departure)

	d.memory.Append(contractx.RoleUser, task)
	window := d.memory.Recent(memoryx.DefaultWindow)

	raw := d.reasoner.Complete(ctx, d.systemPrompt, window, task, analysisTemperature)
	plan := extractx.Plan(raw)

	return contractx.AgentResult{
		Agent:     d.name,
		Reasoning: plan.Reasoning,
		Conclusion: contractx.Synthesis{
			Insights:   plan.ExpectedOutcome,
			Confidence: contractx.DefaultConfidence,
		},
		Timestamp: time.Now().UTC(),
	}
}

// delegate fans the fixed sub-tasks out, one goroutine per specialist, and
// fans back in under the overall timeout. A specialist that has not finished
// by then gets a degraded placeholder; the others are unaffected.
func (d *Director) delegate(ctx context.Context, req contractx.PredictionRequest) map[string]contractx.AgentResult {
	d.mu.Lock()
	order := make([]contractx.AgentType, len(d.order))
	copy(order, d.order)
	specialists := make(map[contractx.AgentType]contractx.Specialist, len(d.specialists))
	for t, s := range d.specialists {
		specialists[t] = s
	}
	d.mu.Unlock()

	reports := make(map[string]contractx.AgentResult, len(order))
	if len(order) == 0 {
		return reports
	}

	runCtx, cancel := context.WithTimeout(ctx, d.fanoutTimeout)
	defer cancel()

	slots := make([]chan contractx.AgentResult, len(order))
	for i, agentType := range order {
		slots[i] = make(chan contractx.AgentResult, 1)
		s := specialists[agentType]
		task := subTask(agentType, req)
		go func(slot chan<- contractx.AgentResult) {
			slot <- s.Run(runCtx, task)
		}(slots[i])
	}

	for i, agentType := range order {
		select {
		case result := <-slots[i]:
			reports[reportKey(agentType)] = result
		case <-runCtx.Done():
			// the deadline expiring does not invalidate siblings that
			// already delivered; drain the slot before declaring it degraded
			select {
			case result := <-slots[i]:
				reports[reportKey(agentType)] = result
			default:
				log.Warn().
					Str("specialist", string(agentType)).
					Msg("specialist did not finish in time, filling degraded slot")
				reports[reportKey(agentType)] = contractx.AgentResult{
					Agent:      string(agentType),
					Error:      fmt.Sprintf("specialist did not complete: %s", runCtx.Err()),
					Conclusion: contractx.Synthesis{Confidence: 0},
					Timestamp:  time.Now().UTC(),
				}
			}
		}
	}
	return reports
}

// synthesize is the single final verdict call.
func (d *Director) synthesize(ctx context.Context, flightNumber string, reports map[string]contractx.AgentResult) contractx.Assessment {
	prompt := fmt.Sprintf(`You coordinated a multi-agent prediction for flight %s.

Agent Results:
%s

Synthesize these findings into:
1. Overall delay probability (0-1)
2. Risk level (LOW/MODERATE/HIGH/CRITICAL)
3. Top 3 contributing factors
4. Confidence in prediction (0-100%%)
5. Actionable recommendations
6. Alternative actions if delay occurs

Output as JSON:

{
  "delay_probability": 0.72,
  "risk_level": "HIGH",
  "contributing_factors": [
    {"factor": "crosswind", "impact": 0.23, "severity": "high"},
    {"factor": "route_history", "impact": 0.18, "severity": "medium"}
  ],
  "confidence": 85,
  "recommendations": [
    "Notify crew 2 hours before departure",
    "Prepare alternate airport"
  ],
  "alternatives": ["Divert to alternate", "Delay departure by 3 hours"]
}`, flightNumber, formatReports(reports))

	window := d.memory.Recent(memoryx.DefaultWindow)
	raw := d.reasoner.Complete(ctx, d.systemPrompt, window, prompt, synthesisTemperature)
	return extractx.Assessment(raw)
}

// formatReports renders each specialist's conclusion for the synthesis
// prompt, in delegation-key order.
func formatReports(reports map[string]contractx.AgentResult) string {
	keys := []string{"weather", "flight_history", "location", "prediction"}
	for key := range reports {
		known := false
		for _, k := range keys {
			if k == key {
				known = true
				break
			}
		}
		if !known {
			keys = append(keys, key)
		}
	}

	var b strings.Builder
	for _, key := range keys {
		result, ok := reports[key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n=== %s ===\n", strings.ToUpper(key))
		conclusion, err := json.MarshalIndent(result.Conclusion, "", "  ")
		if err != nil {
			conclusion = []byte("{}")
		}
		b.Write(conclusion)
		if result.Error != "" {
			fmt.Fprintf(&b, "\n(degraded: %s)", result.Error)
		}
	}
	return b.String()
}

func subTask(agentType contractx.AgentType, req contractx.PredictionRequest) string {
	switch agentType {
	case contractx.AgentTypeWeather:
		return fmt.Sprintf("Analyze current and forecast weather for %s and %s", req.Origin, req.Destination)
	case contractx.AgentTypeFlight:
		return fmt.Sprintf("Analyze historical delays for route %s-%s", req.Origin, req.Destination)
	case contractx.AgentTypeLocation:
		return fmt.Sprintf("Analyze geographic factors for route %s-%s", req.Origin, req.Destination)
	case contractx.AgentTypePrediction:
		return fmt.Sprintf("Run ML prediction with all gathered data for %s", req.FlightNumber)
	default:
		return fmt.Sprintf("Analyze factors affecting flight %s on route %s-%s", req.FlightNumber, req.Origin, req.Destination)
	}
}

func reportKey(agentType contractx.AgentType) string {
	switch agentType {
	case contractx.AgentTypeWeather:
		return "weather"
	case contractx.AgentTypeFlight:
		return "flight_history"
	case contractx.AgentTypeLocation:
		return "location"
	case contractx.AgentTypePrediction:
		return "prediction"
	default:
		return string(agentType)
	}
}
