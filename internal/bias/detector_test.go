package bias

import (
	"testing"

	"unified-thinking/internal/types"
)

func TestDetectNoStepsOrSingleStep(t *testing.T) {
	d := NewDetector()
	if got := d.Detect(nil, nil); got != nil {
		t.Errorf("expected nil for empty transcript, got %v", got)
	}
	if got := d.Detect([]types.ReasoningStep{{Confidence: 0.9}}, nil); got != nil {
		t.Errorf("expected nil for single-step transcript, got %v", got)
	}
}

func TestDetectConfirmationBias(t *testing.T) {
	d := NewDetector()
	steps := []types.ReasoningStep{
		{Type: types.StepDeductive, Content: "this supports the theory", Confidence: 0.85},
		{Type: types.StepInductive, Content: "this also supports it", Confidence: 0.8},
		{Type: types.StepHeuristic, Content: "further support", Confidence: 0.82},
	}
	found := d.Detect(steps, nil)
	if !hasKind(found, types.BiasConfirmation) {
		t.Errorf("expected confirmation bias, got %v", found)
	}
}

func TestDetectAnchoringBias(t *testing.T) {
	d := NewDetector()
	steps := []types.ReasoningStep{
		{Type: types.StepDeductive, Confidence: 0.9},
		{Type: types.StepContextual, Confidence: 0.88},
		{Type: types.StepMetacognitive, Confidence: 0.92},
	}
	found := d.Detect(steps, nil)
	if !hasKind(found, types.BiasAnchoring) {
		t.Errorf("expected anchoring bias, got %v", found)
	}
}

func TestDetectAvailabilityBias(t *testing.T) {
	d := NewDetector()
	steps := []types.ReasoningStep{
		{Type: types.StepHeuristic, Content: "this reminds me of a case I recently saw", Confidence: 0.5},
		{Type: types.StepContextual, Content: "plain contextual note", Confidence: 0.4},
	}
	found := d.Detect(steps, nil)
	if !hasKind(found, types.BiasAvailability) {
		t.Errorf("expected availability bias, got %v", found)
	}
}

func TestDetectOverconfidenceBias(t *testing.T) {
	d := NewDetector()
	steps := []types.ReasoningStep{
		{Type: types.StepDeductive, Content: "strongly concluded", Confidence: 0.95},
		{Type: types.StepContextual, Content: "further context", Confidence: 0.9},
	}
	evidence := []types.Evidence{{Confidence: 0.3}}
	found := d.Detect(steps, evidence)
	if !hasKind(found, types.BiasOverconfidence) {
		t.Errorf("expected overconfidence bias, got %v", found)
	}
}

func hasKind(found []types.BiasDetection, kind types.BiasKind) bool {
	for _, b := range found {
		if b.Kind == kind {
			return true
		}
	}
	return false
}
