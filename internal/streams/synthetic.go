package streams

import (
	"context"
	"fmt"

	"unified-thinking/internal/types"
)

// Synthetic does not reason over the raw problem directly; it integrates
// the other three streams' results into a single reconciled view. The
// coordinator feeds it peer results via SetPeerResults before Process runs.
type Synthetic struct {
	base
	peers []types.StreamResult
}

// NewSynthetic creates a Synthetic reasoning stream.
func NewSynthetic(id string) *Synthetic {
	return &Synthetic{base: newBase(id, types.StreamSynthetic)}
}

// SetPeerResults supplies the completed results of the other streams this
// synthesis should integrate. Must be called before Process.
func (s *Synthetic) SetPeerResults(peers []types.StreamResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers = append([]types.StreamResult(nil), peers...)
}

func (s *Synthetic) Process(ctx context.Context) error {
	s.setRunning()

	s.mu.RLock()
	peers := append([]types.StreamResult(nil), s.peers...)
	s.mu.RUnlock()

	if len(peers) == 0 {
		s.addStep(types.ReasoningStep{
			Type:       types.StepContextual,
			Content:    "No peer stream results were available to synthesize; proceeding from the problem statement alone.",
			Confidence: 0.3,
		}, 0.3)
	}

	var confSum float64
	var agreeing, total int
	for _, p := range peers {
		if err := checkCancel(ctx); err != nil {
			s.finish(types.StreamFailed, err.Error())
			return err
		}
		confSum += p.Confidence
		total++
		if p.Confidence > 0.6 {
			agreeing++
		}
		s.addStep(types.ReasoningStep{
			Type:       types.StepContextual,
			Content:    fmt.Sprintf("Incorporating %s stream's conclusion(s) at confidence %.2f.", p.StreamType, p.Confidence),
			Confidence: p.Confidence,
		}, 0.3+0.5*float64(total)/float64(max(1, len(peers))))
	}

	var agreement float64
	if total > 0 {
		agreement = float64(agreeing) / float64(total)
	}

	s.addStep(types.ReasoningStep{
		Type:       types.StepInductive,
		Content:    fmt.Sprintf("Across %d stream(s), %.0f%% reached confident conclusions; synthesizing a reconciled position.", total, agreement*100),
		Confidence: agreement,
	}, 0.9)

	if agreement >= 0.75 {
		s.addInsight("The reasoning streams converge strongly; the synthesized conclusion can be acted on with reasonable confidence.")
	} else if agreement >= 0.4 {
		s.addInsight("The reasoning streams partially disagree; treat the synthesized conclusion as provisional pending more evidence.")
	} else {
		s.addInsight("The reasoning streams largely disagree; do not act on a synthesized conclusion without resolving the disagreement first.")
	}

	s.finish(types.StreamCompleted, "")
	return nil
}
