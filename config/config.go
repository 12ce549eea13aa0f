package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Command routing specifics
	Router    RouterConfig
	Matching  MatchingConfig
	Security  SecurityConfig
	Executor  ExecutorConfig
	Synthesis SynthesisConfig
	Templates TemplatesConfig
	Voyage    VoyageConfig

	// LLM Provider Abstraction
	LLM LLMConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// RouterConfig holds the decision-policy thresholds. Values are configuration,
// not a hard contract, but must keep auto > confirm > alternatives > fallback.
type RouterConfig struct {
	AutoThreshold         float64
	ConfirmThreshold      float64
	AlternativesThreshold float64
	FallbackThreshold     float64
	MaxAlternatives       int
	SessionCacheSize      int
	SessionTTL            string // How long idle sessions keep pending state
}

type MatchingConfig struct {
	FuzzyCap           float64 // Fuzzy scores scale into [0, FuzzyCap)
	KeywordBoostCap    float64 // Additive keyword boost ceiling
	SemanticFloor      float64 // Minimum cosine similarity to emit a candidate
	SemanticTopK       int
	EmbeddingCacheSize int
	MatcherTimeout     string // Budget for the fan-out to both matchers
}

type SecurityConfig struct {
	AllowedVerbs       []string
	ForbiddenPaths     []string
	ForbiddenOperators []string
	MaxPayloadBytes    int
}

type ExecutorConfig struct {
	DefaultStepTimeout string
	DefaultMaxAttempts int
	BackoffBase        string
	StoreSize          int // Bounded in-memory store of finished executions
}

type SynthesisConfig struct {
	RateLimitPerMin int // Per-session ceiling on AI plan generation
	MaxPlanSteps    int
}

type TemplatesConfig struct {
	Path string // Directory containing templates.yaml
}

type VoyageConfig struct {
	APIKey string
	Model  string
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"` // Global timeout for entire fallback chain
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Decision policy thresholds
	cfg.Router.AutoThreshold = viper.GetFloat64("router.auto_threshold")
	cfg.Router.ConfirmThreshold = viper.GetFloat64("router.confirm_threshold")
	cfg.Router.AlternativesThreshold = viper.GetFloat64("router.alternatives_threshold")
	cfg.Router.FallbackThreshold = viper.GetFloat64("router.fallback_threshold")
	cfg.Router.MaxAlternatives = viper.GetInt("router.max_alternatives")
	cfg.Router.SessionCacheSize = viper.GetInt("router.session_cache_size")
	cfg.Router.SessionTTL = viper.GetString("router.session_ttl")
	if err := validateThresholds(&cfg.Router); err != nil {
		return nil, err
	}

	// Matching
	cfg.Matching.FuzzyCap = viper.GetFloat64("matching.fuzzy_cap")
	cfg.Matching.KeywordBoostCap = viper.GetFloat64("matching.keyword_boost_cap")
	cfg.Matching.SemanticFloor = viper.GetFloat64("matching.semantic_floor")
	cfg.Matching.SemanticTopK = viper.GetInt("matching.semantic_top_k")
	cfg.Matching.EmbeddingCacheSize = viper.GetInt("matching.embedding_cache_size")
	cfg.Matching.MatcherTimeout = viper.GetString("matching.matcher_timeout")

	// Security policy
	cfg.Security.AllowedVerbs = viper.GetStringSlice("security.allowed_verbs")
	cfg.Security.ForbiddenPaths = viper.GetStringSlice("security.forbidden_paths")
	cfg.Security.ForbiddenOperators = viper.GetStringSlice("security.forbidden_operators")
	cfg.Security.MaxPayloadBytes = viper.GetInt("security.max_payload_bytes")

	// Executor
	cfg.Executor.DefaultStepTimeout = viper.GetString("executor.default_step_timeout")
	cfg.Executor.DefaultMaxAttempts = viper.GetInt("executor.default_max_attempts")
	cfg.Executor.BackoffBase = viper.GetString("executor.backoff_base")
	cfg.Executor.StoreSize = viper.GetInt("executor.store_size")

	// Synthesis
	cfg.Synthesis.RateLimitPerMin = viper.GetInt("synthesis.rate_limit_per_min")
	cfg.Synthesis.MaxPlanSteps = viper.GetInt("synthesis.max_plan_steps")

	// Template catalog
	cfg.Templates.Path = viper.GetString("templates.path")

	// Voyage AI embeddings
	cfg.Voyage.APIKey = expandEnvVar(viper.GetString("voyage.api_key"))
	cfg.Voyage.Model = viper.GetString("voyage.model")
	if voyageKey := viper.GetString("voyage_api_key"); voyageKey != "" {
		cfg.Voyage.APIKey = voyageKey
	}

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	// Load provider configurations
	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// Decision policy defaults: 0.85 / 0.60 / 0.40 / 0.30
	viper.SetDefault("router.auto_threshold", 0.85)
	viper.SetDefault("router.confirm_threshold", 0.60)
	viper.SetDefault("router.alternatives_threshold", 0.40)
	viper.SetDefault("router.fallback_threshold", 0.30)
	viper.SetDefault("router.max_alternatives", 5)
	viper.SetDefault("router.session_cache_size", 1000)
	viper.SetDefault("router.session_ttl", "30m")

	viper.SetDefault("matching.fuzzy_cap", 0.95)
	viper.SetDefault("matching.keyword_boost_cap", 0.05)
	viper.SetDefault("matching.semantic_floor", 0.30)
	viper.SetDefault("matching.semantic_top_k", 5)
	viper.SetDefault("matching.embedding_cache_size", 512)
	viper.SetDefault("matching.matcher_timeout", "5s")

	viper.SetDefault("security.allowed_verbs", []string{
		"create_file", "read_file", "append_file", "move_file", "copy_file",
		"delete_file", "list_dir", "make_dir", "run_command",
	})
	viper.SetDefault("security.forbidden_paths", []string{
		"/etc", "/usr", "/bin", "/sbin", "/boot", "/dev", "/proc", "/sys",
	})
	viper.SetDefault("security.forbidden_operators", []string{
		"|", ">", ">>", "<", "&&", "||", ";", "`", "$(",
	})
	viper.SetDefault("security.max_payload_bytes", 1<<20)

	viper.SetDefault("executor.default_step_timeout", "30s")
	viper.SetDefault("executor.default_max_attempts", 3)
	viper.SetDefault("executor.backoff_base", "500ms")
	viper.SetDefault("executor.store_size", 256)

	viper.SetDefault("synthesis.rate_limit_per_min", 10)
	viper.SetDefault("synthesis.max_plan_steps", 20)

	viper.SetDefault("templates.path", "./config")

	viper.SetDefault("voyage.model", "voyage-3")

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.max_total_timeout", "60s")
}

// validateThresholds enforces auto > confirm > alternatives > fallback.
func validateThresholds(cfg *RouterConfig) error {
	if !(cfg.AutoThreshold > cfg.ConfirmThreshold &&
		cfg.ConfirmThreshold > cfg.AlternativesThreshold &&
		cfg.AlternativesThreshold > cfg.FallbackThreshold) {
		return fmt.Errorf("router thresholds must be strictly ordered auto > confirm > alternatives > fallback, got %.2f/%.2f/%.2f/%.2f",
			cfg.AutoThreshold, cfg.ConfirmThreshold, cfg.AlternativesThreshold, cfg.FallbackThreshold)
	}
	if cfg.AutoThreshold > 1 || cfg.FallbackThreshold < 0 {
		return fmt.Errorf("router thresholds must lie in [0,1]")
	}
	if cfg.MaxAlternatives <= 0 {
		return fmt.Errorf("router.max_alternatives must be positive")
	}
	return nil
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	// Check if value is in format ${VAR_NAME}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}
			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
