package embeddings

import (
	"context"
	"math"
	"math/rand"

	"unified-thinking/internal/apperr"
)

// MockEmbedder generates deterministic, hash-seeded unit vectors, so the
// same text always yields the same embedding without calling out to a real
// provider.
type MockEmbedder struct {
	dimension int
}

// NewMockEmbedder builds a MockEmbedder producing vectors of the given
// dimension.
func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	select {
	case <-ctx.Done():
		return nil, apperr.NewCancelled("embed")
	default:
	}

	var seed int64
	for _, c := range text {
		seed = seed*31 + int64(c)
	}
	rng := rand.New(rand.NewSource(seed))

	vec := make([]float32, m.dimension)
	var sumSquares float64
	for i := range vec {
		vec[i] = float32(rng.NormFloat64())
		sumSquares += float64(vec[i]) * float64(vec[i])
	}
	if sumSquares > 0 {
		magnitude := float32(math.Sqrt(sumSquares))
		for i := range vec {
			vec[i] /= magnitude
		}
	}
	return vec, nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *MockEmbedder) Dimension() int { return m.dimension }
func (m *MockEmbedder) Model() string  { return "mock-model" }
func (m *MockEmbedder) Provider() string { return "mock" }
