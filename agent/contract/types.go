package contract

import (
	"time"
)

type AgentType string

const (
	AgentTypeDirector   AgentType = "director"
	AgentTypeWeather    AgentType = "weather_specialist"
	AgentTypeFlight     AgentType = "flight_specialist"
	AgentTypeLocation   AgentType = "location_specialist"
	AgentTypePrediction AgentType = "prediction_specialist"
)

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MemoryEntry is one message in an agent's conversation memory.
type MemoryEntry struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Fallback defaults applied whenever structured output cannot be extracted
// from a model response. Named so the degradation policy is discoverable
// and testable rather than buried as literals.
const (
	DefaultConfidence       = 50
	DefaultDelayProbability = 0.5
	DefaultRisk             = RiskModerate
)

// ToolCall is one planned tool invocation named by the model.
type ToolCall struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Plan is the structured output of an agent's planning step.
type Plan struct {
	Reasoning       string     `json:"reasoning"`
	ToolsToUse      []ToolCall `json:"tools_to_use,omitempty"`
	ExpectedOutcome string     `json:"expected_outcome,omitempty"`
}

// ToolResult records one executed tool invocation. Result and Error are
// mutually exclusive: a failed tool sets Error and never aborts the run.
type ToolResult struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Result     any            `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Synthesis is the structured output of an agent's synthesis step.
type Synthesis struct {
	KeyFindings     []string `json:"key_findings,omitempty"`
	Insights        string   `json:"insights,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Confidence      int      `json:"confidence"`
}

// TaskRecord is one entry in an agent's append-only task history.
type TaskRecord struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Task      string       `json:"task"`
	Plan      Plan         `json:"plan"`
	Actions   []ToolResult `json:"actions,omitempty"`
	Synthesis Synthesis    `json:"synthesis"`
}

// AgentResult is what a specialist returns for one completed task. Error is
// set only by the director when a specialist's slot had to be filled with a
// degraded placeholder (timeout, cancellation); the specialist itself always
// produces a real result.
type AgentResult struct {
	Agent      string       `json:"agent"`
	Reasoning  string       `json:"reasoning"`
	Actions    []ToolResult `json:"actions,omitempty"`
	Conclusion Synthesis    `json:"conclusion"`
	Error      string       `json:"error,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// ContributingFactor is one ranked driver in the final assessment.
type ContributingFactor struct {
	Factor   string  `json:"factor"`
	Impact   float64 `json:"impact"`
	Severity string  `json:"severity,omitempty"`
}

// Assessment is the director's final structured verdict.
type Assessment struct {
	DelayProbability    float64              `json:"delay_probability"`
	RiskLevel           RiskLevel            `json:"risk_level"`
	ContributingFactors []ContributingFactor `json:"contributing_factors,omitempty"`
	Confidence          int                  `json:"confidence"`
	Recommendations     []string             `json:"recommendations,omitempty"`
	Alternatives        []string             `json:"alternatives,omitempty"`
}

// PredictionRequest identifies the flight the director should assess.
type PredictionRequest struct {
	FlightNumber  string    `json:"flight_number"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
}

// Report bundles the director analysis, every specialist's full result,
// and the final assessment for one coordinated prediction.
type Report struct {
	FlightNumber      string                 `json:"flight_number"`
	Route             string                 `json:"route"`
	DepartureTime     time.Time              `json:"departure_time"`
	DirectorAnalysis  AgentResult            `json:"director_analysis"`
	SpecialistReports map[string]AgentResult `json:"specialist_reports"`
	FinalAssessment   Assessment             `json:"final_assessment"`
	Timestamp         time.Time              `json:"timestamp"`
	CoordinatedBy     string                 `json:"coordinated_by"`
}

// AgentStatus is a snapshot of an agent's capabilities and workload.
type AgentStatus struct {
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	ToolsAvailable []string `json:"tools_available"`
	MemorySize     int      `json:"memory_size"`
	TasksCompleted int      `json:"tasks_completed"`
}
