package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"nl-command-router/config"
	"nl-command-router/internal/workflow"
	"nl-command-router/pkg/log"
	"nl-command-router/pkg/voyage"
)

// Warms the embedding path for every catalog template so the first routed
// request does not pay the batch-embedding cost, and fails fast when the
// Voyage key or a template's trigger text is broken.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        "info",
		Mode:         "development",
		ColorEnabled: true,
	})

	ctx := context.Background()

	catalog, err := workflow.LoadCatalog(cfg.Templates.Path, workflow.Defaults{
		StepTimeout: 30 * time.Second,
		MaxAttempts: 1,
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to load template catalog: %v", err)
	}

	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Voyage API: %v", err)
	}
	if cfg.Voyage.Model != "" {
		embedder = embedder.WithModel(cfg.Voyage.Model)
	}

	templates := catalog.All()
	logger.Infof(ctx, "Embedding %d templates...", len(templates))

	texts := make([]string, 0, len(templates))
	for _, tpl := range templates {
		texts = append(texts, strings.Join(append(tpl.Triggers, tpl.Keywords...), " "))
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		logger.Fatalf(ctx, "Embedding failed: %v", err)
	}

	for i, tpl := range templates {
		logger.Infof(ctx, "Embedded %d/%d: %s (dim=%d)", i+1, len(templates), tpl.ID, len(vectors[i]))
	}

	logger.Infof(ctx, "Done. %d templates embedded successfully.", len(templates))
}
