package tool

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/preflightai/preflight/agent/contract"
)

func noopTool(ctx context.Context, params map[string]any) (any, error) {
	return "ok", nil
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register("get_current_weather", "current conditions", noopTool, nil); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err := r.Register("get_current_weather", "again", noopTool, nil)
	if !errors.Is(err, contractx.ErrDuplicateTool) {
		t.Fatalf("Register() error = %v, want ErrDuplicateTool", err)
	}
}

func TestRegistryDescribeAllPreservesRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	names := []string{"get_route_history", "calculate_route_stats", "analyze_temporal_patterns"}
	for _, name := range names {
		if err := r.Register(name, "desc "+name, noopTool, map[string]Param{
			"origin": {Type: "string", Required: true},
		}); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}

	descs := r.DescribeAll()
	if len(descs) != len(names) {
		t.Fatalf("DescribeAll() returned %d descriptors, want %d", len(descs), len(names))
	}
	for i, d := range descs {
		if d.Name != names[i] {
			t.Fatalf("DescribeAll()[%d].Name = %q, want %q", i, d.Name, names[i])
		}
	}
}

func TestRegistryInvokeUnknownTool(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Invoke(context.Background(), "imaginary_tool", nil)
	if !errors.Is(err, contractx.ErrUnknownTool) {
		t.Fatalf("Invoke() error = %v, want ErrUnknownTool", err)
	}
}

func TestRegistryInvokeConvertsToolErrorToValue(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister("failing", "always fails", func(ctx context.Context, params map[string]any) (any, error) {
		return nil, errors.New("upstream unavailable")
	}, nil)

	res, err := r.Invoke(context.Background(), "failing", map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("Invoke() error = %v, want nil", err)
	}
	if res.Error == "" {
		t.Fatal("expected non-empty result error")
	}
	if res.Result != nil {
		t.Fatalf("Result = %#v, want nil", res.Result)
	}
	if res.Tool != "failing" {
		t.Fatalf("Tool = %q, want %q", res.Tool, "failing")
	}
}

func TestRegistryInvokeRecoversFromPanic(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister("panicky", "panics", func(ctx context.Context, params map[string]any) (any, error) {
		panic("boom")
	}, nil)

	res, err := r.Invoke(context.Background(), "panicky", nil)
	if err != nil {
		t.Fatalf("Invoke() error = %v, want nil", err)
	}
	if res.Error == "" {
		t.Fatal("expected panic to be converted into result error")
	}
}

func TestRegistryInvokePassesParameters(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister("echo", "echoes airport code", func(ctx context.Context, params map[string]any) (any, error) {
		return params["airport_code"], nil
	}, map[string]Param{
		"airport_code": {Type: "string", Description: "IATA airport code", Required: true},
	})

	res, err := r.Invoke(context.Background(), "echo", map[string]any{"airport_code": "DXB"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Result != "DXB" {
		t.Fatalf("Result = %#v, want DXB", res.Result)
	}
	if res.Parameters["airport_code"] != "DXB" {
		t.Fatalf("Parameters = %#v", res.Parameters)
	}
}

func TestRegistryRegisterValidation(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register("", "no name", noopTool, nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Register() error = %v, want ErrValidation", err)
	}
	if err := r.Register("nil_fn", "nil function", nil, nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Register() error = %v, want ErrValidation", err)
	}
}
