// Package llm selects and configures the reasoning backend shared by the
// director and the specialists.
package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/preflightai/preflight/agent/contract"
	ollamax "github.com/preflightai/preflight/pkg/ollama"
	openrouterx "github.com/preflightai/preflight/pkg/openrouter"
)

const (
	ProviderOllama     = "ollama"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Provider string        `envconfig:"PROVIDER" split_words:"true" default:"ollama"`
	Model    string        `envconfig:"MODEL" split_words:"true" default:"mistral"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`

	OllamaURL  string `envconfig:"OLLAMA_URL" split_words:"true" default:"http://localhost:11434"`
	NumPredict int    `envconfig:"NUM_PREDICT" split_words:"true" default:"512"`

	OpenRouterBaseURL string `envconfig:"OPENROUTER_BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	OpenRouterAPIKey  string `envconfig:"OPENROUTER_API_KEY" split_words:"true"`
	MaxTokens         int64  `envconfig:"MAX_TOKENS" split_words:"true" default:"2000"`
	SiteURL           string `envconfig:"SITE_URL" split_words:"true"`
	SiteName          string `envconfig:"SITE_NAME" split_words:"true"`

	DirectorModel   string `envconfig:"DIRECTOR_MODEL" split_words:"true"`
	WeatherModel    string `envconfig:"WEATHER_MODEL" split_words:"true"`
	FlightModel     string `envconfig:"FLIGHT_MODEL" split_words:"true"`
	LocationModel   string `envconfig:"LOCATION_MODEL" split_words:"true"`
	PredictionModel string `envconfig:"PREDICTION_MODEL" split_words:"true"`
}

func (c Config) Validate() error {
	switch strings.TrimSpace(c.Provider) {
	case ProviderOllama:
	case ProviderOpenRouter:
		if strings.TrimSpace(c.OpenRouterAPIKey) == "" {
			return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown llm provider %q", contractx.ErrValidation, c.Provider)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) modelFor(agentType contractx.AgentType) string {
	model := strings.TrimSpace(c.Model)

	override := ""
	switch agentType {
	case contractx.AgentTypeDirector:
		override = c.DirectorModel
	case contractx.AgentTypeWeather:
		override = c.WeatherModel
	case contractx.AgentTypeFlight:
		override = c.FlightModel
	case contractx.AgentTypeLocation:
		override = c.LocationModel
	case contractx.AgentTypePrediction:
		override = c.PredictionModel
	}
	if v := strings.TrimSpace(override); v != "" {
		model = v
	}
	return model
}

func (c Config) OllamaFor(agentType contractx.AgentType) ollamax.Config {
	return ollamax.Config{
		URL:        strings.TrimSpace(c.OllamaURL),
		Model:      c.modelFor(agentType),
		NumPredict: c.NumPredict,
		Timeout:    c.Timeout,
	}
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	return openrouterx.Config{
		BaseURL:   strings.TrimSpace(c.OpenRouterBaseURL),
		APIKey:    strings.TrimSpace(c.OpenRouterAPIKey),
		Model:     c.modelFor(agentType),
		MaxTokens: c.MaxTokens,
		Timeout:   c.Timeout,
		SiteURL:   strings.TrimSpace(c.SiteURL),
		SiteName:  strings.TrimSpace(c.SiteName),
	}
}

// NewReasoner builds the configured backend for one agent.
func (c Config) NewReasoner(agentType contractx.AgentType) (contractx.Reasoner, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch strings.TrimSpace(c.Provider) {
	case ProviderOpenRouter:
		client, err := openrouterx.NewClient(c.OpenRouterFor(agentType))
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := ollamax.NewClient(c.OllamaFor(agentType))
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
