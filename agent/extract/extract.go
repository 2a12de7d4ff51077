// Package extract pulls structured decisions out of free-form model output.
// Models are asked for JSON but routinely wrap it in prose or fences, so the
// functions here scan for the outermost brace pair and unmarshal what sits
// between. Nothing in this package returns an error: a response that yields
// no usable JSON degrades to a documented fallback value instead.
package extract

import (
	"encoding/json"
	"strings"

	contractx "github.com/preflightai/preflight/agent/contract"
)

// Plan extracts a tool plan from raw model text. Without parseable JSON the
// fallback keeps the raw text as reasoning and plans no tool use.
func Plan(raw string) contractx.Plan {
	fallback := contractx.Plan{
		Reasoning:       strings.TrimSpace(raw),
		ExpectedOutcome: "manual analysis required",
	}

	body, ok := braced(raw)
	if !ok {
		return fallback
	}

	var plan contractx.Plan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		fallback.ExpectedOutcome = "could not parse decision"
		return fallback
	}
	return plan
}

// Synthesis extracts findings from raw model text. The fallback keeps the
// raw text as insights at neutral confidence.
func Synthesis(raw string) contractx.Synthesis {
	fallback := contractx.Synthesis{
		Insights:   strings.TrimSpace(raw),
		Confidence: contractx.DefaultConfidence,
	}

	body, ok := braced(raw)
	if !ok {
		return fallback
	}

	var syn synthesisJSON
	if err := json.Unmarshal([]byte(body), &syn); err != nil {
		return fallback
	}
	out := contractx.Synthesis(syn.Synthesis)
	if !syn.confidenceSet {
		out.Confidence = contractx.DefaultConfidence
	}
	return out
}

// Assessment extracts the director's final verdict. The fallback is the
// neutral assessment: even odds, moderate risk, neutral confidence.
func Assessment(raw string) contractx.Assessment {
	fallback := contractx.Assessment{
		DelayProbability: contractx.DefaultDelayProbability,
		RiskLevel:        contractx.DefaultRisk,
		Confidence:       contractx.DefaultConfidence,
	}

	body, ok := braced(raw)
	if !ok {
		return fallback
	}

	var a contractx.Assessment
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return fallback
	}
	if a.RiskLevel == "" {
		a.RiskLevel = contractx.DefaultRisk
	}
	return a
}

// braced returns the substring between the first '{' and the last '}'.
func braced(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// synthesisJSON distinguishes an absent confidence field from an explicit
// zero so the neutral default only fills true gaps.
type synthesisJSON struct {
	Synthesis struct {
		KeyFindings     []string `json:"key_findings,omitempty"`
		Insights        string   `json:"insights,omitempty"`
		Recommendations []string `json:"recommendations,omitempty"`
		Confidence      int      `json:"confidence"`
	}
	confidenceSet bool
}

func (s *synthesisJSON) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &s.Synthesis); err != nil {
		return err
	}
	_, s.confidenceSet = probe["confidence"]
	return nil
}
