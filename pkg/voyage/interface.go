package voyage

import "context"

// Embedder generates embedding vectors. Vectors are deterministic for
// identical input text, so callers may cache them. Implementations are safe
// for concurrent use.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedOne is a convenience for single-text callers.
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}
