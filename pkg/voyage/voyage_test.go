package voyage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-key")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, c.WithBaseURL(srv.URL)
}

func embeddingsHandler(t *testing.T, wantModel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %s, want /embeddings", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if wantModel != "" && req.Model != wantModel {
			t.Errorf("model = %s, want %s", req.Model, wantModel)
		}

		data := make([]EmbeddingData, len(req.Input))
		for i := range req.Input {
			data[i] = EmbeddingData{
				Object:    "embedding",
				Embedding: []float32{float32(i), 0.5, -0.25},
				Index:     i,
			}
		}
		json.NewEncoder(w).Encode(Response{Object: "list", Data: data, Model: req.Model})
	}
}

func TestClient_Embed(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful batch", func(t *testing.T) {
		_, c := newTestServer(t, embeddingsHandler(t, DefaultModel))

		vecs, err := c.Embed(ctx, []string{"create a file", "delete a file"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(vecs) != 2 {
			t.Fatalf("vectors = %d, want 2", len(vecs))
		}
		if len(vecs[0]) != 3 || vecs[1][0] != 1 {
			t.Errorf("vectors = %v", vecs)
		}
	})

	t.Run("Custom model forwarded", func(t *testing.T) {
		_, c := newTestServer(t, embeddingsHandler(t, "voyage-3-lite"))
		if _, err := c.WithModel("voyage-3-lite").Embed(ctx, []string{"hello"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("EmbedOne unwraps the batch", func(t *testing.T) {
		_, c := newTestServer(t, embeddingsHandler(t, ""))
		vec, err := c.EmbedOne(ctx, "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(vec) != 3 {
			t.Errorf("vector = %v", vec)
		}
	})

	t.Run("Empty input rejected locally", func(t *testing.T) {
		called := false
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })

		if _, err := c.Embed(ctx, nil); err == nil {
			t.Fatal("expected error for empty input")
		}
		if called {
			t.Error("no request should be sent for empty input")
		}
	})

	t.Run("API error surfaces status and body", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"detail":"rate limit"}`))
		})

		_, err := c.Embed(ctx, []string{"hello"})
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limit") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("Count mismatch rejected", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(Response{Object: "list", Data: []EmbeddingData{}})
		})

		if _, err := c.Embed(ctx, []string{"hello"}); err == nil {
			t.Fatal("expected error for embedding count mismatch")
		}
	})

	t.Run("Missing API key", func(t *testing.T) {
		if _, err := New(""); err == nil {
			t.Fatal("expected error for empty api key")
		}
	})
}
