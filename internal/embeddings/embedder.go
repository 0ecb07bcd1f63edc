// Package embeddings generates the per-sector vectors the knowledge store
// indexes memories by.
package embeddings

import "context"

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding dimension.
	Dimension() int

	// Model returns the model identifier.
	Model() string

	// Provider returns the provider name.
	Provider() string
}

// New builds the Embedder named by provider. Only "mock" is implemented;
// unknown providers fall back to mock so the memory subsystem always has a
// usable embedder, per the Embeddings.Enabled opt-in design in configuration.
func New(provider string, dimension int) Embedder {
	if dimension <= 0 {
		dimension = 256
	}
	switch provider {
	case "mock", "":
		return NewMockEmbedder(dimension)
	default:
		return NewMockEmbedder(dimension)
	}
}
