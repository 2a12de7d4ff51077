// Package ollama is the gateway to a local Ollama server. It is the primary
// Reasoner implementation: one blocking chat call per completion, and every
// failure mode (transport, non-2xx, timeout) collapses into sentinel text so
// agent loops degrade instead of aborting.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/preflightai/preflight/agent/contract"
)

const (
	// ErrPrefix marks a degraded completion. Callers route such text
	// through the same extraction fallbacks as any other response.
	ErrPrefix = "Error:"

	maxResponseSizeBytes = 2 << 20
	defaultNumPredict    = 512
)

type Config struct {
	URL        string        `envconfig:"URL" split_words:"true" default:"http://localhost:11434"`
	Model      string        `envconfig:"MODEL" split_words:"true" default:"mistral"`
	NumPredict int           `envconfig:"NUM_PREDICT" split_words:"true" default:"512"`
	Timeout    time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
}

// Client talks to the Ollama /api/chat endpoint.
type Client struct {
	baseURL    string
	model      string
	numPredict int
	httpClient *http.Client
}

var _ contractx.Reasoner = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("ollama url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("ollama model is required")
	}

	numPredict := cfg.NumPredict
	if numPredict <= 0 {
		numPredict = defaultNumPredict
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		model:      model,
		numPredict: numPredict,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Complete sends one chat request: system role first, the memory window in
// original order, the prompt last. The returned text is either the model's
// message content or sentinel error text, never an error value.
func (c *Client) Complete(
	ctx context.Context,
	systemPrompt string,
	window []contractx.MemoryEntry,
	prompt string,
	temperature float64,
) string {
	messages := make([]chatMessage, 0, len(window)+2)
	messages = append(messages, chatMessage{Role: string(contractx.RoleSystem), Content: systemPrompt})
	for _, entry := range window {
		messages = append(messages, chatMessage{Role: string(entry.Role), Content: entry.Content})
	}
	messages = append(messages, chatMessage{Role: string(contractx.RoleUser), Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options: chatOptions{
			Temperature: temperature,
			NumPredict:  c.numPredict,
		},
	})
	if err != nil {
		return fmt.Sprintf("%s marshal chat request: %s", ErrPrefix, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("%s build chat request: %s", ErrPrefix, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("%s calling model: %s", ErrPrefix, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Sprintf("%s read chat response: %s", ErrPrefix, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Sprintf("%s model returned status %d", ErrPrefix, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Sprintf("%s decode chat response: %s", ErrPrefix, err)
	}
	return parsed.Message.Content
}

// IsErrText reports whether text is a degraded sentinel completion.
func IsErrText(text string) bool {
	return strings.HasPrefix(text, ErrPrefix)
}
