// Package streams implements the four reasoning stream variants
// (Analytical, Creative, Critical, Synthetic) behind one Stream interface.
//
// The interface-plus-four-concrete-structs shape is grounded on the
// teacher's internal/modes family (Linear/Tree/Divergent/Auto): one
// interface, one struct per variant, no deep inheritance chain.
package streams

import (
	"context"
	"fmt"
	"sync"
	"time"

	"unified-thinking/internal/evidence"
	"unified-thinking/internal/types"
)

// Stream is the common behavior every reasoning stream variant implements.
type Stream interface {
	Init(problem types.Problem)
	Process(ctx context.Context) error
	Reset()
	Status() types.StreamStatus
	Progress() float64
	Insights() []string
	Result() types.StreamResult
}

// base holds the state and synchronization common to all four variants;
// each concrete stream embeds it and supplies its own Process body.
type base struct {
	mu       sync.RWMutex
	id       string
	streamType types.StreamType
	problem  types.Problem
	status   types.StreamStatus
	progress float64
	steps    []types.ReasoningStep
	insights []string
	started  time.Time
}

func newBase(id string, st types.StreamType) base {
	return base{id: id, streamType: st, status: types.StreamPending}
}

func (b *base) Init(problem types.Problem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.problem = problem
	b.status = types.StreamPending
	b.progress = 0
	b.steps = nil
	b.insights = nil
}

func (b *base) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = types.StreamPending
	b.progress = 0
	b.steps = nil
	b.insights = nil
}

func (b *base) Status() types.StreamStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

func (b *base) Progress() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.progress
}

func (b *base) Insights() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.insights...)
}

func (b *base) setRunning() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = types.StreamRunning
	b.started = time.Now()
}

func (b *base) addStep(step types.ReasoningStep, progress float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.steps = append(b.steps, step)
	b.progress = progress
}

func (b *base) addInsight(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insights = append(b.insights, text)
}

func (b *base) finish(status types.StreamStatus, errMsg string) types.StreamResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
	if status == types.StreamCompleted {
		b.progress = 1.0
	}

	var conclusions []string
	var confSum float64
	for _, s := range b.steps {
		confSum += s.Confidence
		if s.Type == types.StepDeductive || s.Type == types.StepInductive {
			conclusions = append(conclusions, s.Content)
		}
	}
	var avgConf float64
	if len(b.steps) > 0 {
		avgConf = confSum / float64(len(b.steps))
	}

	return types.StreamResult{
		StreamID:         b.id,
		StreamType:       b.streamType,
		ReasoningSteps:   append([]types.ReasoningStep(nil), b.steps...),
		Conclusions:      conclusions,
		Confidence:       avgConf,
		ProcessingTimeMs: time.Since(b.started).Milliseconds(),
		Insights:         append([]string(nil), b.insights...),
		Status:           status,
		Error:            errMsg,
	}
}

func (b *base) Result() types.StreamResult {
	b.mu.RLock()
	id, st, status, steps, insights := b.id, b.streamType, b.status, b.steps, b.insights
	b.mu.RUnlock()
	var conclusions []string
	var confSum float64
	for _, s := range steps {
		confSum += s.Confidence
		if s.Type == types.StepDeductive || s.Type == types.StepInductive {
			conclusions = append(conclusions, s.Content)
		}
	}
	var avgConf float64
	if len(steps) > 0 {
		avgConf = confSum / float64(len(steps))
	}
	return types.StreamResult{
		StreamID:       id,
		StreamType:     st,
		ReasoningSteps: append([]types.ReasoningStep(nil), steps...),
		Conclusions:    conclusions,
		Confidence:     avgConf,
		Insights:       append([]string(nil), insights...),
		Status:         status,
	}
}

// extractEvidence is the one helper every stream uses to ground its steps
// in the problem's evidence field and description. It builds a fresh C1
// Extractor per call, so extraction semantics stay in the evidence package.
func extractEvidence(problem types.Problem) []types.Evidence {
	ex := evidence.NewExtractor()
	var combined []types.Evidence
	for _, e := range problem.Evidence {
		res := ex.Extract(e)
		combined = append(combined, res.Evidence...)
	}
	res := ex.Extract(problem.Description)
	combined = append(combined, res.Evidence...)
	return combined
}

func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("cancelled: %w", ctx.Err())
	default:
		return nil
	}
}
