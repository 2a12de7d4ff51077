package director

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/preflightai/preflight/agent/contract"
)

func (d *Director) compileCoordinateGraph(
	ctx context.Context,
) (compose.Runnable[contractx.PredictionRequest, contractx.Report], error) {
	graph := compose.NewGraph[contractx.PredictionRequest, contractx.Report]()

	if err := graph.AddLambdaNode("analyze",
		compose.InvokableLambda(func(ctx context.Context, req contractx.PredictionRequest) (*coordState, error) {
			return d.analyzeStep(ctx, req)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node analyze: %w", err)
	}

	if err := graph.AddLambdaNode("delegate",
		compose.InvokableLambda(func(ctx context.Context, state *coordState) (*coordState, error) {
			return d.delegateStep(ctx, state)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node delegate: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize",
		compose.InvokableLambda(func(ctx context.Context, state *coordState) (contractx.Report, error) {
			return d.synthesizeStep(ctx, state)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "analyze"},
		{"analyze", "delegate"},
		{"delegate", "synthesize"},
		{"synthesize", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("director.coordinate"))
	if err != nil {
		return nil, fmt.Errorf("compile director graph: %w", err)
	}
	return runner, nil
}
