package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nl-command-router/config"
	_ "nl-command-router/docs" // Swagger docs
	"nl-command-router/internal/httpserver"
	"nl-command-router/internal/intent"
	"nl-command-router/internal/matching"
	"nl-command-router/internal/policy"
	routeHTTP "nl-command-router/internal/route/delivery/http"
	routeUC "nl-command-router/internal/route/usecase"
	"nl-command-router/internal/security"
	"nl-command-router/internal/synthesis"
	"nl-command-router/internal/workflow"
	"nl-command-router/internal/workflow/executor"
	"nl-command-router/pkg/llmprovider"
	"nl-command-router/pkg/log"
	"nl-command-router/pkg/shellexec"
	"nl-command-router/pkg/voyage"
)

// @title       NL Command Router API
// @description Confidence-scored natural-language command routing with hybrid template/AI workflow execution.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting NL Command Router...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Template catalog
	defaults := workflow.Defaults{
		StepTimeout: duration(logger, "executor.default_step_timeout", cfg.Executor.DefaultStepTimeout, 30*time.Second),
		MaxAttempts: cfg.Executor.DefaultMaxAttempts,
		Backoff:     duration(logger, "executor.backoff_base", cfg.Executor.BackoffBase, 500*time.Millisecond),
	}
	catalog, err := workflow.LoadCatalog(cfg.Templates.Path, defaults)
	if err != nil {
		logger.Error(ctx, "Failed to load template catalog: ", err)
		return
	}
	logger.Infof(ctx, "Template catalog loaded: %d templates", catalog.Len())

	corpus := buildCorpus(catalog)
	lookup := catalogLookup{catalog: catalog}

	// 4. Matchers
	pattern := matching.NewPatternMatcher(corpus, cfg.Matching.FuzzyCap, cfg.Matching.KeywordBoostCap)

	var semantic matching.Matcher = matching.NoopMatcher{}
	if cfg.Voyage.APIKey != "" {
		embedder, vErr := voyage.New(cfg.Voyage.APIKey)
		if vErr != nil {
			logger.Warnf(ctx, "Voyage client not available, semantic tier disabled: %v", vErr)
		} else {
			if cfg.Voyage.Model != "" {
				embedder = embedder.WithModel(cfg.Voyage.Model)
			}
			sm, sErr := matching.NewSemanticMatcher(ctx, embedder, corpus,
				cfg.Matching.SemanticFloor, cfg.Matching.SemanticTopK, cfg.Matching.EmbeddingCacheSize, logger)
			if sErr != nil {
				logger.Warnf(ctx, "Semantic matcher init failed, tier disabled: %v", sErr)
			} else {
				semantic = sm
				logger.Info(ctx, "Semantic matcher initialized")
			}
		}
	} else {
		logger.Warn(ctx, "VOYAGE_APIKEY not set, semantic tier disabled")
	}

	// 5. Resolver + policy + template engine
	resolver := intent.NewResolver(pattern, semantic, lookup,
		cfg.Router.FallbackThreshold, cfg.Router.MaxAlternatives,
		duration(logger, "matching.matcher_timeout", cfg.Matching.MatcherTimeout, 5*time.Second), logger)
	pol := policy.New(cfg.Router)
	engine := workflow.NewEngine(catalog)

	// 6. AI synthesizer over the provider fallback chain
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Warnf(ctx, "LLM providers unavailable, synthesis will fail closed: %v", err)
	}
	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      duration(logger, "llm.retry_delay", cfg.LLM.RetryDelay, 2*time.Second),
		MaxTotalTimeout: duration(logger, "llm.max_total_timeout", cfg.LLM.MaxTotalTimeout, 2*time.Minute),
	}, logger)
	synth := synthesis.New(manager, cfg.Synthesis.MaxPlanSteps, defaults, logger)

	// 7. Security gate + step runner + executor
	gate := security.New(cfg.Security)
	workdir, err := os.Getwd()
	if err != nil {
		logger.Error(ctx, "Failed to resolve working directory: ", err)
		return
	}
	runner := shellexec.NewLocalRunner(workdir, true)
	exec := executor.New(executor.NewShellRunner(runner), gate, executor.NewLogSink(logger), logger)

	// 8. Route usecase + HTTP delivery
	uc := routeUC.New(logger, resolver, pol, engine, lookup, synth, exec, routeUC.Options{
		SessionCacheSize:   cfg.Router.SessionCacheSize,
		SessionTTL:         duration(logger, "router.session_ttl", cfg.Router.SessionTTL, 30*time.Minute),
		SynthesisPerMin:    cfg.Synthesis.RateLimitPerMin,
		ExecutionStoreSize: cfg.Executor.StoreSize,
	})
	routeHandler := routeHTTP.New(logger, uc)

	// 9. HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:         cfg.HTTPServer.Port,
		Mode:         cfg.HTTPServer.Mode,
		Environment:  cfg.Environment.Name,
		RouteHandler: routeHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// buildCorpus projects the catalog into the matchers' read-only view.
func buildCorpus(catalog *workflow.Catalog) matching.Corpus {
	templates := catalog.All()
	corpus := make(matching.Corpus, 0, len(templates))
	for _, tpl := range templates {
		corpus = append(corpus, matching.Entry{
			TemplateID: tpl.ID,
			Triggers:   tpl.Triggers,
			Keywords:   tpl.Keywords,
		})
	}
	return corpus
}

// catalogLookup adapts the catalog to the resolver's metadata interface.
type catalogLookup struct {
	catalog *workflow.Catalog
}

func (c catalogLookup) Info(templateID string) (intent.TemplateInfo, bool) {
	tpl, ok := c.catalog.Get(templateID)
	if !ok {
		return intent.TemplateInfo{}, false
	}
	return intent.TemplateInfo{
		Intent:      tpl.Intent,
		Operation:   tpl.Operation,
		SuccessRate: tpl.SuccessRate,
	}, true
}

// duration parses a config duration, falling back with a warning.
func duration(l log.Logger, key, raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		l.Warnf(context.Background(), "Invalid duration for %s (%q), using %s", key, raw, fallback)
		return fallback
	}
	return d
}
