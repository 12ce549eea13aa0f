package voyage

// Request is the request body for the embeddings API.
type Request struct {
	Input []string `json:"input"` // Texts to embed
	Model string   `json:"model"` // Model name (e.g., "voyage-3")
}

// Response is the response from the embeddings API.
type Response struct {
	Object string          `json:"object"` // "list"
	Data   []EmbeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  UsageInfo       `json:"usage"`
}

// EmbeddingData contains a single embedding vector.
type EmbeddingData struct {
	Object    string    `json:"object"`    // "embedding"
	Embedding []float32 `json:"embedding"` // Vector
	Index     int       `json:"index"`     // Position in input array
}

// UsageInfo contains token usage statistics.
type UsageInfo struct {
	TotalTokens int `json:"total_tokens"`
}
