package coordinator

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"

	"unified-thinking/internal/types"
)

func allStreams() map[types.StreamType]bool {
	return map[types.StreamType]bool{
		types.StreamAnalytical: true,
		types.StreamCreative:   true,
		types.StreamCritical:   true,
		types.StreamSynthetic:  true,
	}
}

func sampleProblem() types.Problem {
	return types.Problem{
		Description: "The service ran out of memory after sustained traffic.",
		Constraints: []string{"must not increase latency"},
		Goals:       []string{"find the cause"},
		Complexity:  0.5,
	}
}

func TestRunCompletesAllStreams(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewCoordinator(WithCheckpointInterval(time.Millisecond))
	results, err := c.Run(context.Background(), sampleProblem(), allStreams())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, st := range []types.StreamType{types.StreamAnalytical, types.StreamCreative, types.StreamCritical, types.StreamSynthetic} {
		r, ok := results.ByType[st]
		if !ok {
			t.Fatalf("expected result for stream %v", st)
		}
		if r.Status != types.StreamCompleted {
			t.Errorf("expected stream %v completed, got %v", st, r.Status)
		}
	}
}

func TestRunRespectsDisabledStreams(t *testing.T) {
	defer goleak.VerifyNone(t)

	enabled := map[types.StreamType]bool{types.StreamAnalytical: true}
	c := NewCoordinator()
	results, err := c.Run(context.Background(), sampleProblem(), enabled)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if _, ok := results.ByType[types.StreamCreative]; ok {
		t.Error("expected creative stream not to run when disabled")
	}
	if _, ok := results.ByType[types.StreamSynthetic]; ok {
		t.Error("expected synthetic stream not to run when disabled")
	}
}

func TestRunCheckpointObserverIsCalled(t *testing.T) {
	defer goleak.VerifyNone(t)

	var ticks int
	c := NewCoordinator(
		WithCheckpointInterval(time.Millisecond),
		WithCheckpointObserver(func(cp Checkpoint) { ticks++ }),
	)
	_, err := c.Run(context.Background(), sampleProblem(), allStreams())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ticks == 0 {
		t.Error("expected at least one checkpoint tick")
	}
}

func TestRunCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCoordinator()
	results, err := c.Run(ctx, sampleProblem(), allStreams())
	if err != nil {
		t.Fatalf("cancellation is a terminal non-error: %v", err)
	}
	if results.Status != RunCancelled {
		t.Errorf("expected Cancelled status, got %v", results.Status)
	}
}

func TestRunDiversityAndOverheadAreReported(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewCoordinator(WithCheckpointInterval(time.Millisecond))
	results, err := c.Run(context.Background(), sampleProblem(), allStreams())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if results.Diversity < 0 || results.Diversity > 1 {
		t.Errorf("expected diversity in [0,1], got %v", results.Diversity)
	}
	if results.OverheadPercentage < 0 {
		t.Errorf("expected non-negative overhead percentage, got %v", results.OverheadPercentage)
	}
	if results.Status != RunOk {
		t.Errorf("expected Ok status for a clean run, got %v", results.Status)
	}
}
