// Package bias scans a reasoning transcript for a fixed set of cognitive
// biases using deterministic statistical thresholds, rather than the
// language-model judgement a human reviewer would apply.
//
// The one-function-per-bias-type structure and the indicator-word-list
// idiom for the Availability detector are grounded on the teacher's
// internal/metacognition/bias_detection.go; the thresholds themselves are
// this engine's own.
package bias

import (
	"math"
	"strings"

	"unified-thinking/internal/types"
)

// Detector finds cognitive biases in a completed reasoning transcript.
type Detector struct{}

// NewDetector creates a Bias Detector.
func NewDetector() *Detector {
	return &Detector{}
}

var availabilityIndicators = []string{
	"recently", "just saw", "just read", "in the news", "comes to mind",
	"reminds me of", "memorable", "vivid", "everyone is talking about",
	"heard about this happening",
}

// Detect inspects the reasoning steps (and, where relevant, the evidence
// that grounds them) and returns every bias whose threshold is crossed.
// An empty or single-step transcript never triggers a detection.
func (d *Detector) Detect(steps []types.ReasoningStep, evidence []types.Evidence) []types.BiasDetection {
	if len(steps) < 2 {
		return nil
	}

	var found []types.BiasDetection
	if b, ok := detectConfirmation(steps); ok {
		found = append(found, b)
	}
	if b, ok := detectAnchoring(steps); ok {
		found = append(found, b)
	}
	if b, ok := detectAvailability(steps); ok {
		found = append(found, b)
	}
	if b, ok := detectOverconfidence(steps, evidence); ok {
		found = append(found, b)
	}
	return found
}

// detectConfirmation flags a transcript in which no step challenges or
// contextualises the dominant line of reasoning: no step is Contextual or
// Metacognitive, at least three steps are of any other type, and average
// confidence exceeds 0.7.
func detectConfirmation(steps []types.ReasoningStep) (types.BiasDetection, bool) {
	var challenging, supporting int
	var confSum float64
	for _, s := range steps {
		confSum += s.Confidence
		switch s.Type {
		case types.StepContextual, types.StepMetacognitive:
			challenging++
		default:
			supporting++
		}
	}
	avgConf := confSum / float64(len(steps))
	if challenging == 0 && supporting >= 3 && avgConf > 0.7 {
		severity := types.Clamp01(avgConf - 0.5)
		return types.BiasDetection{
			Kind:        types.BiasConfirmation,
			Severity:    severity,
			Description: "The reasoning chain never revisits or challenges its own direction despite high stated confidence.",
			MitigationSuggestions: []string{
				"Actively seek evidence that would disconfirm the leading conclusion.",
				"Route the problem through a dedicated critical review step.",
			},
		}, true
	}
	return types.BiasDetection{}, false
}

// detectAnchoring flags a transcript whose confidence never meaningfully
// departs from the first step's confidence, suggesting every later step was
// anchored to the initial estimate rather than independently reasoned.
func detectAnchoring(steps []types.ReasoningStep) (types.BiasDetection, bool) {
	anchor := steps[0].Confidence
	if anchor < 0.75 {
		return types.BiasDetection{}, false
	}
	var maxDeviation float64
	for _, s := range steps[1:] {
		dev := math.Abs(s.Confidence - anchor)
		if dev > maxDeviation {
			maxDeviation = dev
		}
	}
	if maxDeviation <= 0.1 {
		severity := types.Clamp01(anchor - maxDeviation)
		return types.BiasDetection{
			Kind:        types.BiasAnchoring,
			Severity:    severity,
			Description: "Confidence across the transcript barely moves from the first step's estimate, suggesting later steps anchored to it.",
			MitigationSuggestions: []string{
				"Re-derive confidence for later steps independently of the first estimate.",
				"Deliberately consider a starting point far from the initial anchor.",
			},
		}, true
	}
	return types.BiasDetection{}, false
}

// detectAvailability flags steps whose content leans on recent or
// emotionally vivid recollection rather than evidence, via a fixed
// indicator-word list.
func detectAvailability(steps []types.ReasoningStep) (types.BiasDetection, bool) {
	var hits int
	for _, s := range steps {
		lower := strings.ToLower(s.Content)
		for _, kw := range availabilityIndicators {
			if strings.Contains(lower, kw) {
				hits++
				break
			}
		}
	}
	if hits == 0 {
		return types.BiasDetection{}, false
	}
	severity := types.Clamp01(float64(hits) / float64(len(steps)))
	if severity < 0.2 {
		return types.BiasDetection{}, false
	}
	return types.BiasDetection{
		Kind:        types.BiasAvailability,
		Severity:    severity,
		Description: "Reasoning leans on easily recalled or recent examples rather than systematically gathered evidence.",
		MitigationSuggestions: []string{
			"Check whether the recalled example is actually representative.",
			"Seek base-rate or statistical evidence instead of anecdote.",
		},
	}, true
}

// detectOverconfidence flags a transcript whose average stated confidence
// substantially exceeds the quality of the evidence actually backing it.
func detectOverconfidence(steps []types.ReasoningStep, evidence []types.Evidence) (types.BiasDetection, bool) {
	var confSum float64
	for _, s := range steps {
		confSum += s.Confidence
	}
	avgStepConf := confSum / float64(len(steps))

	var avgEvidenceConf float64
	if len(evidence) > 0 {
		var evSum float64
		for _, e := range evidence {
			evSum += e.Confidence
		}
		avgEvidenceConf = evSum / float64(len(evidence))
	}

	gap := avgStepConf - avgEvidenceConf
	if len(evidence) == 0 {
		gap = avgStepConf - 0.3 // no evidence at all: any high confidence is suspect
	}
	if gap <= 0.3 {
		return types.BiasDetection{}, false
	}
	return types.BiasDetection{
		Kind:        types.BiasOverconfidence,
		Severity:    types.Clamp01(gap),
		Description: "Stated confidence substantially outpaces the quality and quantity of supporting evidence.",
		MitigationSuggestions: []string{
			"Lower stated confidence to match the evidence actually gathered.",
			"Gather additional corroborating evidence before committing to this conclusion.",
		},
	}, true
}
