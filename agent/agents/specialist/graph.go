package specialist

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/preflightai/preflight/agent/contract"
)

func (a *Agent) compileRunGraph(
	ctx context.Context,
) (compose.Runnable[string, contractx.AgentResult], error) {
	graph := compose.NewGraph[string, contractx.AgentResult]()

	if err := graph.AddLambdaNode("plan",
		compose.InvokableLambda(func(ctx context.Context, task string) (*runState, error) {
			return a.planStep(ctx, task)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan: %w", err)
	}

	if err := graph.AddLambdaNode("act",
		compose.InvokableLambda(func(ctx context.Context, state *runState) (*runState, error) {
			return a.actStep(ctx, state)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node act: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize",
		compose.InvokableLambda(func(ctx context.Context, state *runState) (contractx.AgentResult, error) {
			return a.synthesizeStep(ctx, state)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "plan"},
		{"plan", "act"},
		{"act", "synthesize"},
		{"synthesize", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("specialist.plan_act_synthesize"))
	if err != nil {
		return nil, fmt.Errorf("compile specialist graph: %w", err)
	}
	return runner, nil
}
