package specialist

import (
	"context"
	"errors"

	contractx "github.com/preflightai/preflight/agent/contract"
	toolx "github.com/preflightai/preflight/agent/tool"
	predictx "github.com/preflightai/preflight/predict"
)

// NewPrediction builds the model-execution specialist around a delay model.
func NewPrediction(ctx context.Context, reasoner contractx.Reasoner, systemPrompt string, model *predictx.Model) (*Agent, error) {
	if model == nil {
		model = predictx.NewModel()
	}

	registry := toolx.NewRegistry()

	registry.MustRegister(
		"run_ml_prediction",
		"Execute ML model to predict flight delay",
		func(ctx context.Context, params map[string]any) (any, error) {
			features := floatMapParam(params, "features")
			if len(features) == 0 {
				return nil, errors.New("features object is required")
			}
			return model.Predict(predictx.Features(features)), nil
		},
		map[string]toolx.Param{
			"features": {Type: "object", Required: true},
		},
	)

	registry.MustRegister(
		"generate_shap_values",
		"Generate SHAP feature importance values",
		func(ctx context.Context, params map[string]any) (any, error) {
			features := floatMapParam(params, "features")
			if len(features) == 0 {
				return nil, errors.New("features object is required")
			}
			return predictx.Explain(predictx.Features(features)), nil
		},
		map[string]toolx.Param{
			"features": {Type: "object", Required: true},
		},
	)

	registry.MustRegister(
		"validate_prediction",
		"Validate prediction is within reasonable bounds",
		func(ctx context.Context, params map[string]any) (any, error) {
			prediction := floatParam(params, "prediction", -1)
			historical := floatParam(params, "historical_avg", 0)
			return predictx.Validate(prediction, historical), nil
		},
		map[string]toolx.Param{
			"prediction":     {Type: "number", Required: true},
			"historical_avg": {Type: "number", Required: true},
		},
	)

	registry.MustRegister(
		"calculate_confidence",
		"Calculate confidence in prediction based on data quality",
		func(ctx context.Context, params map[string]any) (any, error) {
			quality := boolMapParam(params, "feature_quality")
			performance := floatParam(params, "model_performance", 0.85)
			return predictx.CalculateConfidence(quality, performance), nil
		},
		map[string]toolx.Param{
			"feature_quality":   {Type: "object", Required: true},
			"model_performance": {Type: "number", Default: 0.85},
		},
	)

	return New(ctx, Options{
		Name:         "PredictionSpecialist",
		Type:         contractx.AgentTypePrediction,
		Role:         "ML Engineer",
		SystemPrompt: systemPrompt,
		Reasoner:     reasoner,
		Registry:     registry,
	})
}
