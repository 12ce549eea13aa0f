package llmprovider

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	// Complete sends a text completion request and returns a response
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g., "qwen", "gemini")
	Name() string

	// Model returns the model being used
	Model() string
}

// Request represents a normalized LLM completion request
type Request struct {
	System      string // Optional system instruction
	Prompt      string // User prompt
	Temperature float64
	MaxTokens   int
}

// Response represents a normalized LLM completion response
type Response struct {
	Text         string
	ProviderName string
	ModelName    string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
