package llm

import (
	"errors"
	"testing"

	contractx "github.com/preflightai/preflight/agent/contract"
)

func TestValidateRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := Config{Provider: "carrier-pigeon", Model: "mistral"}
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
}

func TestValidateOpenRouterNeedsAPIKey(t *testing.T) {
	t.Parallel()

	cfg := Config{Provider: ProviderOpenRouter, Model: "mistral"}
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}

	cfg.OpenRouterAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestOllamaForAppliesPerAgentOverride(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Provider:      ProviderOllama,
		Model:         "mistral",
		OllamaURL:     "http://localhost:11434",
		DirectorModel: "llama3",
	}

	if got := cfg.OllamaFor(contractx.AgentTypeDirector).Model; got != "llama3" {
		t.Fatalf("OllamaFor(director).Model = %q, want llama3", got)
	}
	if got := cfg.OllamaFor(contractx.AgentTypeWeather).Model; got != "mistral" {
		t.Fatalf("OllamaFor(weather).Model = %q, want default mistral", got)
	}
}
