// Package specialist implements the autonomous plan-act-synthesize agents.
// Each specialist owns a tool registry and a bounded conversation memory,
// and runs one task through a compiled graph: plan tool use, execute the
// plan, synthesize findings.
package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	contractx "github.com/preflightai/preflight/agent/contract"
	extractx "github.com/preflightai/preflight/agent/extract"
	memoryx "github.com/preflightai/preflight/agent/memory"
	toolx "github.com/preflightai/preflight/agent/tool"
)

const (
	planningTemperature  = 0.3
	synthesisTemperature = 0.5
)

// Options configure one specialist.
type Options struct {
	Name         string
	Type         contractx.AgentType
	Role         string
	SystemPrompt string
	Reasoner     contractx.Reasoner
	Registry     *toolx.Registry
}

// Agent is a single autonomous specialist. Run always returns a usable
// result: failed tools and unparseable model output degrade confidence
// instead of aborting the pass.
type Agent struct {
	name         string
	agentType    contractx.AgentType
	role         string
	systemPrompt string
	registry     *toolx.Registry
	memory       *memoryx.Memory
	reasoner     contractx.Reasoner
	runner       compose.Runnable[string, contractx.AgentResult]

	mu      sync.Mutex
	history []contractx.TaskRecord
}

var _ contractx.Specialist = (*Agent)(nil)

func New(ctx context.Context, opts Options) (*Agent, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("%w: specialist name is required", contractx.ErrValidation)
	}
	if opts.Reasoner == nil {
		return nil, fmt.Errorf("%w: specialist %s has no reasoner", contractx.ErrValidation, opts.Name)
	}
	registry := opts.Registry
	if registry == nil {
		registry = toolx.NewRegistry()
	}

	agent := &Agent{
		name:         opts.Name,
		agentType:    opts.Type,
		role:         opts.Role,
		systemPrompt: opts.SystemPrompt,
		registry:     registry,
		memory:       memoryx.New(memoryx.DefaultCapacity),
		reasoner:     opts.Reasoner,
	}

	runner, err := agent.compileRunGraph(ctx)
	if err != nil {
		return nil, err
	}
	agent.runner = runner
	return agent, nil
}

func (a *Agent) Name() string { return a.name }

func (a *Agent) Type() contractx.AgentType { return a.agentType }

// Run executes one full pass for a task. A graph error (only possible when
// the context is already dead) degrades to a zero-confidence result so
// callers never branch on failure.
func (a *Agent) Run(ctx context.Context, task string) contractx.AgentResult {
	result, err := a.runner.Invoke(ctx, task)
	if err != nil {
		log.Warn().Str("agent", a.name).Err(err).Msg("specialist run degraded")
		return contractx.AgentResult{
			Agent:     a.name,
			Reasoning: "analysis aborted before completion",
			Conclusion: contractx.Synthesis{
				Insights:   fmt.Sprintf("specialist run failed: %s", err),
				Confidence: 0,
			},
			Timestamp: time.Now().UTC(),
		}
	}
	return result
}

// Status snapshots the agent's capabilities and workload.
func (a *Agent) Status() contractx.AgentStatus {
	a.mu.Lock()
	completed := len(a.history)
	a.mu.Unlock()

	return contractx.AgentStatus{
		Name:           a.name,
		Role:           a.role,
		ToolsAvailable: a.registry.Names(),
		MemorySize:     a.memory.Len(),
		TasksCompleted: completed,
	}
}

// History returns a copy of the append-only task history.
func (a *Agent) History() []contractx.TaskRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]contractx.TaskRecord, len(a.history))
	copy(out, a.history)
	return out
}

type runState struct {
	task    string
	plan    contractx.Plan
	actions []contractx.ToolResult
}

func (a *Agent) planStep(ctx context.Context, task string) (*runState, error) {
	a.memory.Append(contractx.RoleUser, task)
	window := a.memory.Recent(memoryx.DefaultWindow)

	raw := a.reasoner.Complete(ctx, a.systemPrompt, window, planPrompt(task, a.registry.DescribeAll()), planningTemperature)
	return &runState{task: task, plan: extractx.Plan(raw)}, nil
}

func (a *Agent) actStep(ctx context.Context, state *runState) (*runState, error) {
	for _, call := range state.plan.ToolsToUse {
		if !a.registry.Has(call.Tool) {
			log.Debug().Str("agent", a.name).Str("tool", call.Tool).Msg("planned tool not registered, skipping")
			continue
		}
		result, err := a.registry.Invoke(ctx, call.Tool, call.Parameters)
		if err != nil {
			continue
		}
		state.actions = append(state.actions, result)
	}
	return state, nil
}

func (a *Agent) synthesizeStep(ctx context.Context, state *runState) (contractx.AgentResult, error) {
	window := a.memory.Recent(memoryx.DefaultWindow)
	raw := a.reasoner.Complete(ctx, a.systemPrompt, window, synthesisPrompt(state.actions), synthesisTemperature)
	conclusion := extractx.Synthesis(raw)

	now := time.Now().UTC()
	record := contractx.TaskRecord{
		ID:        xid.New().String(),
		Timestamp: now,
		Task:      state.task,
		Plan:      state.plan,
		Actions:   state.actions,
		Synthesis: conclusion,
	}
	a.mu.Lock()
	a.history = append(a.history, record)
	a.mu.Unlock()

	a.memory.Append(contractx.RoleAssistant, fmt.Sprintf("Completed task. Confidence: %d%%", conclusion.Confidence))

	return contractx.AgentResult{
		Agent:      a.name,
		Reasoning:  state.plan.Reasoning,
		Actions:    state.actions,
		Conclusion: conclusion,
		Timestamp:  now,
	}, nil
}

func planPrompt(task string, tools []toolx.Descriptor) string {
	toolsJSON, err := json.MarshalIndent(tools, "", "  ")
	if err != nil {
		toolsJSON = []byte("[]")
	}

	return fmt.Sprintf(`Task: %s

Available Tools:
%s

Instructions:
1. Analyze the task carefully
2. Decide which tools to use and in what order
3. Provide your reasoning
4. Output your plan in JSON format:

{
  "reasoning": "Your thought process",
  "tools_to_use": [
    {"tool": "tool_name", "parameters": {"param1": "value1"}}
  ],
  "expected_outcome": "What you expect to learn"
}`, task, toolsJSON)
}

func synthesisPrompt(actions []contractx.ToolResult) string {
	resultsJSON, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		resultsJSON = []byte("[]")
	}

	return fmt.Sprintf(`You executed the following tools:
%s

Based on these results, provide:
1. Key findings
2. Patterns or insights
3. Recommendations
4. Confidence level (0-100%%)

Format as JSON:

{
  "key_findings": ["finding1", "finding2"],
  "insights": "Your analysis",
  "recommendations": ["rec1", "rec2"],
  "confidence": 85
}`, resultsJSON)
}
