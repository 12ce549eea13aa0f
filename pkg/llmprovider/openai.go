package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// openAICompatible talks to any OpenAI-compatible chat completion endpoint
// (Qwen/DashScope, DeepSeek, OpenAI itself, local gateways).
type openAICompatible struct {
	name       string
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// OpenAICompatibleConfig holds settings for an OpenAI-compatible provider.
type OpenAICompatibleConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOpenAICompatible creates a provider for an OpenAI-style /chat/completions API.
func NewOpenAICompatible(cfg OpenAICompatibleConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: APIKey is required", cfg.Name)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s: BaseURL is required", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%s: Model is required", cfg.Name)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &openAICompatible{
		name:       cfg.Name,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete implements Provider.
func (p *openAICompatible) Complete(ctx context.Context, req *Request) (*Response, error) {
	messages := make([]openAIMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(openAIRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, &ProviderError{Provider: p.name, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, &ProviderError{Provider: p.name, Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ProviderError{Provider: p.name, Err: ErrProviderTimeout}
		}
		return nil, &ProviderError{Provider: p.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &ProviderError{Provider: p.name, Err: ErrProviderRateLimited}
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{Provider: p.name, Err: fmt.Errorf("API error %d: %s", resp.StatusCode, string(raw))}
	}

	var parsed openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProviderError{Provider: p.name, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, &ProviderError{Provider: p.name, Err: ErrEmptyCompletion}
	}

	return &Response{
		Text:         parsed.Choices[0].Message.Content,
		ProviderName: p.name,
		ModelName:    p.model,
		Usage: &Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		},
	}, nil
}

func (p *openAICompatible) Name() string { return p.name }

func (p *openAICompatible) Model() string { return p.model }
