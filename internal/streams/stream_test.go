package streams

import (
	"context"
	"testing"

	"unified-thinking/internal/types"
)

func sampleProblem() types.Problem {
	return types.Problem{
		Description: "The service ran out of memory after a few hours of sustained traffic.",
		Constraints: []string{"must not increase latency"},
		Goals:       []string{"eliminate the leak"},
		Complexity:  0.6,
	}
}

func TestAnalyticalProcessCompletes(t *testing.T) {
	s := NewAnalytical("a1")
	s.Init(sampleProblem())
	if err := s.Process(context.Background()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if s.Status() != types.StreamCompleted {
		t.Errorf("expected StreamCompleted, got %v", s.Status())
	}
	if s.Progress() != 1.0 {
		t.Errorf("expected progress 1.0, got %v", s.Progress())
	}
	if len(s.Result().ReasoningSteps) == 0 {
		t.Error("expected at least one reasoning step")
	}
}

func TestCreativeProcessCompletes(t *testing.T) {
	s := NewCreative("c1")
	s.Init(sampleProblem())
	if err := s.Process(context.Background()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if s.Status() != types.StreamCompleted {
		t.Errorf("expected StreamCompleted, got %v", s.Status())
	}
}

func TestCriticalProcessDetectsNothingOnSparseInput(t *testing.T) {
	s := NewCritical("cr1")
	s.Init(types.Problem{Description: "short"})
	if err := s.Process(context.Background()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if s.Status() != types.StreamCompleted {
		t.Errorf("expected StreamCompleted, got %v", s.Status())
	}
	if len(s.Insights()) == 0 {
		t.Error("expected at least one insight, even the no-signal fallback")
	}
}

func TestSyntheticProcessWithoutPeers(t *testing.T) {
	s := NewSynthetic("sy1")
	s.Init(sampleProblem())
	if err := s.Process(context.Background()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if s.Status() != types.StreamCompleted {
		t.Errorf("expected StreamCompleted, got %v", s.Status())
	}
}

func TestSyntheticProcessIntegratesPeers(t *testing.T) {
	s := NewSynthetic("sy2")
	s.Init(sampleProblem())
	s.SetPeerResults([]types.StreamResult{
		{StreamType: types.StreamAnalytical, Confidence: 0.8},
		{StreamType: types.StreamCreative, Confidence: 0.7},
	})
	if err := s.Process(context.Background()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	insights := s.Insights()
	if len(insights) == 0 {
		t.Fatal("expected at least one insight")
	}
}

func TestProcessRespectsCancellation(t *testing.T) {
	s := NewAnalytical("a2")
	s.Init(types.Problem{Description: "x", Constraints: []string{"c1", "c2", "c3"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Process(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
	if s.Status() != types.StreamFailed {
		t.Errorf("expected StreamFailed, got %v", s.Status())
	}
}

func TestReset(t *testing.T) {
	s := NewAnalytical("a3")
	s.Init(sampleProblem())
	_ = s.Process(context.Background())
	s.Reset()
	if s.Status() != types.StreamPending {
		t.Errorf("expected StreamPending after reset, got %v", s.Status())
	}
	if s.Progress() != 0 {
		t.Errorf("expected progress 0 after reset, got %v", s.Progress())
	}
	if len(s.Result().ReasoningSteps) != 0 {
		t.Error("expected no reasoning steps after reset")
	}
}
