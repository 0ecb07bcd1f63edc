// Package coordinator dispatches the four reasoning streams in parallel,
// checkpoints their progress, and assembles their results once the
// independent streams (Analytical, Creative, Critical) finish, before
// running Synthetic over their combined output.
//
// The WaitGroup/buffered-error-channel dispatch shape is grounded on the
// teacher's internal/orchestration/workflow.go executeParallel; the
// checkpoint-synchronized loop generalises it with golang.org/x/sync/
// errgroup for the independent-stream fan-out and a time.Ticker poll for
// checkpoint eligibility, per the engine's own concurrency model.
package coordinator

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"unified-thinking/internal/streams"
	"unified-thinking/internal/types"
)

// Checkpoint is a snapshot of every independent stream's progress, emitted
// on each poll tick.
type Checkpoint struct {
	At       time.Time
	Progress map[types.StreamType]float64
	Status   map[types.StreamType]types.StreamStatus
}

// RunStatus is the overall outcome of a coordinated run.
type RunStatus string

const (
	RunOk        RunStatus = "Ok"
	RunDegraded  RunStatus = "Degraded"
	RunCancelled RunStatus = "Cancelled"
)

// Coordinator runs the four reasoning streams and assembles their results.
type Coordinator struct {
	checkpointInterval time.Duration
	onCheckpoint       func(Checkpoint)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCheckpointInterval sets the checkpoint poll period (default 10ms,
// per the engine's concurrency model).
func WithCheckpointInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.checkpointInterval = d }
}

// WithCheckpointObserver registers a callback invoked on every checkpoint
// tick while the independent streams are still running. Optional; mainly
// useful for tests and for surfacing live progress over the server's tool
// interface.
func WithCheckpointObserver(fn func(Checkpoint)) Option {
	return func(c *Coordinator) { c.onCheckpoint = fn }
}

// NewCoordinator creates a Stream Coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{checkpointInterval: 10 * time.Millisecond}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Results bundles every stream's frozen output, keyed by stream type, plus
// the composed-run diagnostics (diversity, coordination overhead, status).
type Results struct {
	ByType             map[types.StreamType]types.StreamResult
	Diversity          float64
	OverheadPercentage float64
	Status             RunStatus
}

// Run dispatches Analytical, Creative and Critical independently and in
// parallel (§9: streams never observe each other's intermediate state),
// polls their progress on the configured checkpoint interval, and once all
// three terminate (or fail — failures are isolated, not fatal to the run),
// runs Synthetic over the results that did complete.
func (c *Coordinator) Run(ctx context.Context, problem types.Problem, enabled map[types.StreamType]bool) (Results, error) {
	independent := c.buildIndependentStreams(enabled)

	var mu sync.Mutex
	done := make(map[types.StreamType]bool, len(independent))
	failed := make(map[types.StreamType]error, len(independent))

	runStart := time.Now()

	group, gctx := errgroup.WithContext(ctx)
	for st, s := range independent {
		st, s := st, s
		s.Init(problem)
		group.Go(func() error {
			err := s.Process(gctx)
			mu.Lock()
			done[st] = true
			if err != nil {
				failed[st] = err
			}
			mu.Unlock()
			return nil // isolate failures: never abort sibling streams
		})
	}

	var coordination time.Duration
	stopPoll := make(chan struct{})
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		coordination = c.pollCheckpoints(ctx, independent, &mu, done, stopPoll)
	}()

	_ = group.Wait()
	close(stopPoll)
	<-pollDone

	totalProcessing := time.Since(runStart)

	// isFailureIsolated: at most one stream failed/cancelled, so the
	// composed result proceeds with the remainder under an Ok status; more
	// than one failure surfaces as Degraded. Either way only streams that
	// reached Completed are carried into the composed result and fed to
	// Synthetic.
	results := make(map[types.StreamType]types.StreamResult, len(independent)+1)
	var peerResults []types.StreamResult
	for st, s := range independent {
		if _, ok := failed[st]; ok {
			continue
		}
		r := s.Result()
		results[st] = r
		peerResults = append(peerResults, r)
	}

	status := RunOk
	if ctx.Err() != nil {
		status = RunCancelled
	} else if len(failed) > 1 {
		status = RunDegraded
	}

	if enabled[types.StreamSynthetic] && ctx.Err() == nil {
		syncStart := time.Now()
		synthetic := streams.NewSynthetic("synthetic")
		synthetic.Init(problem)
		synthetic.SetPeerResults(peerResults)
		err := synthetic.Process(ctx)
		coordination += time.Since(syncStart)
		if err != nil {
			status = RunDegraded
		} else {
			results[types.StreamSynthetic] = synthetic.Result()
		}
	}

	totalProcessing += coordination

	out := Results{
		ByType:    results,
		Diversity: diversityScore(peerResults),
		Status:    status,
	}
	if totalProcessing > 0 {
		out.OverheadPercentage = float64(coordination) / float64(totalProcessing)
	}
	return out, nil
}

// diversityScore computes 1 − mean(Jaccard(words(conclusion_i),
// words(conclusion_j))) over unordered pairs of completed streams' final
// conclusions; a single completed stream (or none) returns 1.0.
func diversityScore(results []types.StreamResult) float64 {
	var conclusions []string
	for _, r := range results {
		if len(r.Conclusions) == 0 {
			continue
		}
		conclusions = append(conclusions, r.Conclusions[len(r.Conclusions)-1])
	}
	if len(conclusions) < 2 {
		return 1.0
	}

	wordSets := make([]map[string]struct{}, len(conclusions))
	for i, c := range conclusions {
		wordSets[i] = wordSet(c)
	}

	var sum float64
	var pairs int
	for i := 0; i < len(wordSets); i++ {
		for j := i + 1; j < len(wordSets); j++ {
			sum += jaccard(wordSets[i], wordSets[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 1.0
	}
	return types.Clamp01(1 - sum/float64(pairs))
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	var intersection int
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func (c *Coordinator) buildIndependentStreams(enabled map[types.StreamType]bool) map[types.StreamType]streams.Stream {
	out := map[types.StreamType]streams.Stream{}
	if enabled[types.StreamAnalytical] {
		out[types.StreamAnalytical] = streams.NewAnalytical("analytical")
	}
	if enabled[types.StreamCreative] {
		out[types.StreamCreative] = streams.NewCreative("creative")
	}
	if enabled[types.StreamCritical] {
		out[types.StreamCritical] = streams.NewCritical("critical")
	}
	return out
}

// pollCheckpoints ticks at the configured interval, reporting each
// independent stream's live progress/status until every stream is done,
// the context is cancelled, or stop is closed. It returns the accumulated
// time spent on sync-round bookkeeping (coordination overhead).
func (c *Coordinator) pollCheckpoints(ctx context.Context, independent map[types.StreamType]streams.Stream, mu *sync.Mutex, done map[types.StreamType]bool, stop <-chan struct{}) time.Duration {
	if c.onCheckpoint == nil {
		<-stop
		return 0
	}

	var total time.Duration
	ticker := time.NewTicker(c.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return total
		case <-stop:
			return total
		case now := <-ticker.C:
			syncStart := time.Now()
			cp := Checkpoint{At: now, Progress: map[types.StreamType]float64{}, Status: map[types.StreamType]types.StreamStatus{}}
			mu.Lock()
			allDone := len(done) == len(independent)
			mu.Unlock()
			for st, s := range independent {
				cp.Progress[st] = s.Progress()
				cp.Status[st] = s.Status()
			}
			c.onCheckpoint(cp)
			total += time.Since(syncStart)
			if allDone {
				return total
			}
		}
	}
}
