// Package tool implements the per-agent tool registry: named, schema-described
// callables the planning step can select and the acting step invokes.
package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/preflightai/preflight/agent/contract"
)

// Func is the uniform contract every concrete tool implements. A returned
// error marks a failed invocation; the registry converts it to a ToolResult
// value so a failing tool can never abort the agent's run.
type Func func(ctx context.Context, params map[string]any) (any, error)

// Param describes one accepted parameter for the model-facing catalog.
type Param struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// Descriptor is the model-facing view of one registered tool.
type Descriptor struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Parameters  map[string]Param `json:"parameters"`
}

type entry struct {
	descriptor Descriptor
	fn         Func
}

// Registry binds tool names to callables for a single agent. Registration
// happens once at agent construction; invocation is read-only after that.
type Registry struct {
	entries map[string]*entry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Register binds a name to a callable. Re-registering a name fails rather
// than overwriting, so a miswired agent surfaces at setup time instead of
// silently losing a capability.
func (r *Registry) Register(name, description string, fn Func, params map[string]Param) error {
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if fn == nil {
		return fmt.Errorf("%w: tool %s has nil function", contractx.ErrValidation, name)
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", contractx.ErrDuplicateTool, name)
	}

	if params == nil {
		params = map[string]Param{}
	}
	r.entries[name] = &entry{
		descriptor: Descriptor{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
		fn: fn,
	}
	r.order = append(r.order, name)
	return nil
}

// MustRegister panics on registration failure. Agents wire their tools at
// process start, where a duplicate name is a programming error.
func (r *Registry) MustRegister(name, description string, fn Func, params map[string]Param) {
	if err := r.Register(name, description, fn, params); err != nil {
		panic(err)
	}
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DescribeAll returns every registered tool in registration order. The slice
// is embedded verbatim into planning prompts.
func (r *Registry) DescribeAll() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].descriptor)
	}
	return out
}

// Invoke executes a registered tool. An unknown name is the only error case;
// everything the tool itself does wrong, panics included, is captured into
// the returned ToolResult's Error field.
func (r *Registry) Invoke(ctx context.Context, name string, params map[string]any) (contractx.ToolResult, error) {
	e, ok := r.entries[name]
	if !ok {
		return contractx.ToolResult{}, fmt.Errorf("%w: %s", contractx.ErrUnknownTool, name)
	}

	res := contractx.ToolResult{
		Tool:       name,
		Parameters: params,
	}

	value, err := safeCall(ctx, e.fn, params)
	if err != nil {
		log.Warn().Str("tool", name).Err(err).Msg("tool execution failed")
		res.Error = fmt.Sprintf("tool execution failed: %s", err)
		return res, nil
	}

	res.Result = value
	return res, nil
}

func safeCall(ctx context.Context, fn Func, params map[string]any) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(ctx, params)
}
