// Package predict holds the delay model the prediction specialist runs,
// plus the explanation, validation, and confidence helpers layered on it.
// The model itself is a calibrated heuristic over weather and traffic
// features; swapping in a trained model only touches this package.
package predict

import (
	"math"
	"math/rand"
	"sort"
)

// Features are the model inputs. Missing keys fall back to benign defaults
// (no wind, full visibility, no ATC load).
type Features map[string]float64

const (
	baseProbability = 0.2
	windWeight      = 0.03
	visibilityWeight = 0.02
	atcWeight       = 0.01
	noiseSpan       = 0.1
	// minutes of delay corresponding to certainty
	maxDelayMinutes = 40
)

// Model predicts delay probability from features. The noise source makes
// prediction jitter explicit and injectable; tests pass a fixed source.
type Model struct {
	Version string
	noise   func() float64
}

func NewModel() *Model {
	return &Model{
		Version: "v2.0-enhanced",
		noise:   rand.Float64,
	}
}

// NewDeterministicModel produces repeatable predictions. Used in tests and
// anywhere reproducibility matters more than calibration jitter.
func NewDeterministicModel() *Model {
	return &Model{
		Version: "v2.0-enhanced",
		noise:   func() float64 { return 0 },
	}
}

// Prediction is one model output.
type Prediction struct {
	DelayProbability      float64  `json:"delay_probability"`
	PredictedDelayMinutes int      `json:"predicted_delay_minutes"`
	ModelVersion          string   `json:"model_version"`
	FeaturesUsed          []string `json:"features_used"`
}

// Predict scores delay probability in [0,1] and a proportional delay
// estimate in minutes.
func (m *Model) Predict(features Features) Prediction {
	prob := baseProbability +
		windWeight*features.get("wind", 0) +
		visibilityWeight*(10-features.get("visibility", 10)) +
		atcWeight*features.get("atc", 0) +
		m.noise()*noiseSpan
	if prob > 1 {
		prob = 1
	}
	if prob < 0 {
		prob = 0
	}

	used := make([]string, 0, len(features))
	for k := range features {
		used = append(used, k)
	}
	sort.Strings(used)

	return Prediction{
		DelayProbability:      math.Round(prob*100) / 100,
		PredictedDelayMinutes: int(prob * maxDelayMinutes),
		ModelVersion:          m.Version,
		FeaturesUsed:          used,
	}
}

func (f Features) get(key string, fallback float64) float64 {
	if v, ok := f[key]; ok {
		return v
	}
	return fallback
}

// FactorImpact is one entry in a prediction explanation.
type FactorImpact struct {
	Feature   string  `json:"feature"`
	Impact    float64 `json:"impact"`
	Direction string  `json:"direction"`
}

// Explanation carries per-feature attribution values and the top drivers.
type Explanation struct {
	ShapValues map[string]float64 `json:"shap_values"`
	TopFactors []FactorImpact     `json:"top_factors"`
}

// Explain produces SHAP-style attributions for a feature set: positive
// values push the delay probability up.
func Explain(features Features) Explanation {
	shap := map[string]float64{
		"crosswind":  round2(0.2 * features.get("wind", 0) / 20),
		"visibility": round2(-0.15 * (features.get("visibility", 10) - 10) / 10),
		"atc":        round2(0.1 * features.get("atc", 0) / 10),
	}

	keys := make([]string, 0, len(shap))
	for k := range shap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ai, aj := math.Abs(shap[keys[i]]), math.Abs(shap[keys[j]])
		if ai != aj {
			return ai > aj
		}
		return keys[i] < keys[j]
	})

	top := make([]FactorImpact, 0, 3)
	for _, k := range keys {
		if len(top) == 3 {
			break
		}
		direction := "increases"
		if shap[k] < 0 {
			direction = "decreases"
		}
		top = append(top, FactorImpact{Feature: k, Impact: shap[k], Direction: direction})
	}

	return Explanation{ShapValues: shap, TopFactors: top}
}

// Validation is the result of a prediction sanity check.
type Validation struct {
	Valid                   bool    `json:"valid"`
	Reason                  string  `json:"reason,omitempty"`
	DeviationFromHistorical float64 `json:"deviation_from_historical,omitempty"`
}

// Validate checks a probability is in range and not wildly off the
// historical baseline (more than 2x deviation is suspect).
func Validate(prediction, historicalAvg float64) Validation {
	if prediction < 0 || prediction > 1 {
		return Validation{Valid: false, Reason: "probability out of range [0, 1]"}
	}
	if historicalAvg > 0 {
		deviation := math.Abs(prediction-historicalAvg) / historicalAvg
		if deviation > 2.0 {
			return Validation{
				Valid:                   false,
				Reason:                  "prediction deviates more than 2x from historical average",
				DeviationFromHistorical: round2(deviation),
			}
		}
		return Validation{Valid: true, DeviationFromHistorical: round2(math.Abs(prediction - historicalAvg))}
	}
	return Validation{Valid: true}
}

// Confidence scores how much to trust a prediction given per-feature data
// quality and overall model performance.
type Confidence struct {
	ConfidencePercentage  float64 `json:"confidence_percentage"`
	DataQualityScore      float64 `json:"data_quality_score"`
	ModelPerformanceScore float64 `json:"model_performance_score"`
	ConfidenceLevel       string  `json:"confidence_level"`
}

// CalculateConfidence blends data quality (60%) with model performance
// (40%) into a 0-100 confidence score.
func CalculateConfidence(featureQuality map[string]bool, modelPerformance float64) Confidence {
	if modelPerformance <= 0 {
		modelPerformance = 0.85
	}

	qualityRatio := 0.5
	if len(featureQuality) > 0 {
		good := 0
		for _, ok := range featureQuality {
			if ok {
				good++
			}
		}
		qualityRatio = float64(good) / float64(len(featureQuality))
	}

	confidence := (qualityRatio*0.6 + modelPerformance*0.4) * 100

	level := "LOW"
	switch {
	case confidence >= 80:
		level = "HIGH"
	case confidence >= 60:
		level = "MODERATE"
	}

	return Confidence{
		ConfidencePercentage:  math.Round(confidence*10) / 10,
		DataQualityScore:      math.Round(qualityRatio*1000) / 10,
		ModelPerformanceScore: math.Round(modelPerformance*1000) / 10,
		ConfidenceLevel:       level,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
