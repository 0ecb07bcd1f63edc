package embeddings

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	a, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(a) != 16 {
		t.Fatalf("expected dimension 16, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic embedding, differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMockEmbedderUnitNorm(t *testing.T) {
	e := NewMockEmbedder(32)
	v, err := e.Embed(context.Background(), "some content to embed")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	mag := math.Sqrt(sumSquares)
	if math.Abs(mag-1.0) > 1e-3 {
		t.Errorf("expected unit-norm vector, got magnitude %f", mag)
	}
}

func TestMockEmbedderDiffersByText(t *testing.T) {
	e := NewMockEmbedder(16)
	a, _ := e.Embed(context.Background(), "alpha")
	b, _ := e.Embed(context.Background(), "beta")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different texts to embed to different vectors")
	}
}

func TestEmbedBatch(t *testing.T) {
	e := NewMockEmbedder(8)
	out, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(out))
	}
}

func TestNewFallsBackToMock(t *testing.T) {
	e := New("unknown-provider", 12)
	if e.Provider() != "mock" {
		t.Errorf("expected fallback to mock provider, got %s", e.Provider())
	}
	if e.Dimension() != 12 {
		t.Errorf("expected dimension 12, got %d", e.Dimension())
	}
}
