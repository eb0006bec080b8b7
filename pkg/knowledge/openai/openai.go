// Package openai implements knowledge.Embedder on the OpenAI embeddings
// API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Embedder batches texts into a single embeddings request. A failed
// request fails the whole batch; callers retry everything or nothing.
type Embedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewEmbedder creates an Embedder using text-embedding-3-small.
func NewEmbedder(opts ...option.RequestOption) *Embedder {
	client := openai.NewClient(opts...)
	return &Embedder{
		client: &client,
		model:  openai.EmbeddingModelTextEmbedding3Small,
	}
}

// SetModel overrides the embedding model. The vector width of the model
// must match the width the vector store was created with.
func (e *Embedder) SetModel(model string) {
	e.model = openai.EmbeddingModel(model)
}

// Embed generates one vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: e.model,
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("embedding batch of %d failed: %w", len(texts), err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding provider returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		embeddings[i] = vec
	}

	return embeddings, nil
}
