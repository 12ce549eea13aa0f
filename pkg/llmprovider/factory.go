package llmprovider

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"nl-command-router/config"
)

// Default base URLs for known OpenAI-compatible vendors.
const (
	qwenDefaultBaseURL     = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"
	deepseekDefaultBaseURL = "https://api.deepseek.com/v1"
	openaiDefaultBaseURL   = "https://api.openai.com/v1"
)

// InitializeProviders creates Provider instances from config.LLMConfig.
// Returns providers sorted by priority (ascending) with disabled providers
// filtered out. Skips providers that fail to initialize instead of failing
// the entire service.
func InitializeProviders(cfg *config.LLMConfig) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	if len(cfg.Providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	var enabled []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var providers []Provider
	var initErrors []string

	for _, pc := range enabled {
		provider, err := buildProvider(pc)
		if err != nil {
			initErrors = append(initErrors, fmt.Sprintf("%s: %v", pc.Name, err))
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("all providers failed to initialize: %s", strings.Join(initErrors, "; "))
	}

	return providers, nil
}

func buildProvider(pc config.ProviderConfig) (Provider, error) {
	timeout := parseTimeout(pc.Timeout)

	switch strings.ToLower(pc.Name) {
	case "gemini":
		return NewGemini(GeminiConfig{
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: timeout,
		})
	case "qwen", "deepseek", "openai":
		baseURL := pc.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURL(pc.Name)
		}
		return NewOpenAICompatible(OpenAICompatibleConfig{
			Name:    strings.ToLower(pc.Name),
			APIKey:  pc.APIKey,
			BaseURL: baseURL,
			Model:   pc.Model,
			Timeout: timeout,
		})
	default:
		// Unknown vendors must supply a base URL and speak the OpenAI dialect.
		if pc.BaseURL == "" {
			return nil, fmt.Errorf("unknown provider %q requires base_url", pc.Name)
		}
		return NewOpenAICompatible(OpenAICompatibleConfig{
			Name:    strings.ToLower(pc.Name),
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
			Timeout: timeout,
		})
	}
}

func defaultBaseURL(name string) string {
	switch strings.ToLower(name) {
	case "qwen":
		return qwenDefaultBaseURL
	case "deepseek":
		return deepseekDefaultBaseURL
	default:
		return openaiDefaultBaseURL
	}
}

func parseTimeout(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}
