package contract

import "context"

// Reasoner is the synchronous gateway to the external text-generation model.
// Complete assembles a bounded context (system role, memory window in original
// order, then the prompt) and returns the raw response text. It never returns
// an error: any transport failure, non-2xx status, or timeout degrades to
// sentinel text with an "Error:" prefix that callers treat as a low-confidence
// result, not a fault.
type Reasoner interface {
	Complete(ctx context.Context, systemPrompt string, window []MemoryEntry, prompt string, temperature float64) string
}

// Specialist runs one plan-act-synthesize pass for a task. Run always
// terminates with a usable result; failures along the way lower confidence
// instead of surfacing as errors.
type Specialist interface {
	Name() string
	Run(ctx context.Context, task string) AgentResult
}
