// Package openrouter is the alternate Reasoner for OpenAI-compatible hosted
// APIs. It carries the same degrade-to-sentinel contract as the Ollama
// gateway so agents never see which backend served them.
package openrouter

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/preflightai/preflight/agent/contract"
	ollamax "github.com/preflightai/preflight/pkg/ollama"
)

type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey    string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model     string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxTokens int64         `envconfig:"MAX_TOKENS" split_words:"true" default:"2000"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL   string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName  string        `envconfig:"SITE_NAME" split_words:"true"`
}

// Client adapts the OpenAI SDK to the Reasoner contract.
type Client struct {
	client    *openaisdk.Client
	model     string
	maxTokens int64
}

var _ contractx.Reasoner = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("%w: openrouter model is required", contractx.ErrValidation)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if timeout := cfg.Timeout; timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	// OpenRouter attribution headers
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	sdk := openaisdk.NewClient(opts...)

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	return &Client{
		client:    &sdk,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Complete mirrors the Ollama gateway: system role, memory window in original
// order, prompt last, sentinel text on any failure.
func (c *Client) Complete(
	ctx context.Context,
	systemPrompt string,
	window []contractx.MemoryEntry,
	prompt string,
	temperature float64,
) string {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(window)+2)
	messages = append(messages, openaisdk.SystemMessage(systemPrompt))
	for _, entry := range window {
		switch entry.Role {
		case contractx.RoleAssistant:
			messages = append(messages, openaisdk.AssistantMessage(entry.Content))
		case contractx.RoleSystem:
			messages = append(messages, openaisdk.SystemMessage(entry.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(entry.Content))
		}
	}
	messages = append(messages, openaisdk.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.model),
		Messages:    messages,
		Temperature: openaisdk.Float(temperature),
		MaxTokens:   openaisdk.Int(c.maxTokens),
	})
	if err != nil {
		return fmt.Sprintf("%s calling model: %s", ollamax.ErrPrefix, err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Sprintf("%s model returned no choices", ollamax.ErrPrefix)
	}
	return resp.Choices[0].Message.Content
}
