package format

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/types"
)

// confidenceBand names the interpretation band a confidence score falls
// into, alongside the fixed descriptive text for that band.
type confidenceBand struct {
	min, max float64
	label    string
	text     string
}

var confidenceBands = []confidenceBand{
	{0.85, 1.01, "very high", "The assessment rests on strong, well-corroborated evidence and coherent reasoning."},
	{0.65, 0.85, "high", "The assessment is well supported, with only minor gaps in evidence or coherence."},
	{0.45, 0.65, "moderate", "The assessment is plausible but carries meaningful uncertainty worth flagging."},
	{0.25, 0.45, "low", "The assessment should be treated as provisional; evidence or coherence is thin."},
	{-0.01, 0.25, "very low", "The assessment is speculative and should not be acted on without further evidence."},
}

var uncertaintyExplanations = map[types.UncertaintyType]string{
	types.UncertaintyEpistemic: "Epistemic uncertainty: the gap stems from insufficient evidence or missing context — more information would reduce it.",
	types.UncertaintyAleatory:  "Aleatory uncertainty: the gap stems from inherent variability in the situation itself — more information would not fully resolve it.",
	types.UncertaintyAmbiguity: "Ambiguity: the gap stems from the problem statement admitting more than one reasonable interpretation.",
}

// FormatConfidencePercentage renders a confidence score as a canonical
// "NN% (label)" string. confidence must be finite and within [0,1].
func FormatConfidencePercentage(confidence float64) (string, error) {
	if err := validateConfidence(confidence); err != nil {
		return "", err
	}
	band := bandFor(confidence)
	return fmt.Sprintf("%.0f%% (%s)", confidence*100, band.label), nil
}

// FormatInterpretation renders the banded interpretation string for a
// confidence score.
func FormatInterpretation(confidence float64) (string, error) {
	if err := validateConfidence(confidence); err != nil {
		return "", err
	}
	return bandFor(confidence).text, nil
}

// FormatUncertaintyExplanation returns the fixed explanatory passage for an
// uncertainty type.
func FormatUncertaintyExplanation(kind types.UncertaintyType) string {
	if text, ok := uncertaintyExplanations[kind]; ok {
		return text
	}
	return "Uncertainty type not classified."
}

// RecommendedAction is one prioritised, human-readable action derived from
// an assessment's weakest dimension(s).
type RecommendedAction struct {
	Dimension string
	Action    string
	Priority  int // 1 = highest
}

// FormatActionRecommendations derives a prioritised list of recommended
// actions from a ConfidenceAssessment's factor breakdown: dimensions with
// lower scores and higher weights are surfaced first.
func FormatActionRecommendations(assessment types.ConfidenceAssessment) ([]RecommendedAction, error) {
	if err := validateConfidence(assessment.Overall); err != nil {
		return nil, err
	}

	type scored struct {
		factor types.ConfidenceFactor
		impact float64
	}
	scoredFactors := make([]scored, 0, len(assessment.Factors))
	for _, f := range assessment.Factors {
		scoredFactors = append(scoredFactors, scored{factor: f, impact: (1 - f.Score) * f.Weight})
	}
	sort.SliceStable(scoredFactors, func(i, j int) bool {
		return scoredFactors[i].impact > scoredFactors[j].impact
	})

	actions := make([]RecommendedAction, 0, len(scoredFactors))
	for i, sf := range scoredFactors {
		actions = append(actions, RecommendedAction{
			Dimension: sf.factor.Dimension,
			Action:    actionFor(sf.factor.Dimension),
			Priority:  i + 1,
		})
	}
	return actions, nil
}

func actionFor(dimension string) string {
	switch strings.ToLower(dimension) {
	case "evidence_quality", "evidence":
		return "Gather additional, more reliable evidence before acting on this conclusion."
	case "reasoning_coherence", "coherence":
		return "Tighten the reasoning chain: state the framework and constraints explicitly."
	case "completeness":
		return "Fill remaining gaps between stated goals and available evidence."
	case "uncertainty":
		return "Acknowledge the dominant uncertainty type explicitly in any downstream decision."
	default:
		return "Review this dimension before relying on the overall confidence score."
	}
}

// FactorBreakdown renders each confidence factor as a human-readable line,
// ordered by weight descending.
func FactorBreakdown(assessment types.ConfidenceAssessment) []string {
	factors := append([]types.ConfidenceFactor(nil), assessment.Factors...)
	sort.SliceStable(factors, func(i, j int) bool { return factors[i].Weight > factors[j].Weight })

	lines := make([]string, 0, len(factors))
	for _, f := range factors {
		line := fmt.Sprintf("%s: %.0f%% (weight %.0f%%)", f.Dimension, f.Score*100, f.Weight*100)
		if f.Explanation != "" {
			line += " — " + f.Explanation
		}
		lines = append(lines, line)
	}
	return lines
}

func bandFor(confidence float64) confidenceBand {
	for _, b := range confidenceBands {
		if confidence > b.min && confidence <= b.max {
			return b
		}
	}
	return confidenceBands[len(confidenceBands)-1]
}

func validateConfidence(confidence float64) error {
	if math.IsNaN(confidence) || math.IsInf(confidence, 0) {
		return apperr.NewValidation("confidence must be a finite number")
	}
	if confidence < 0 || confidence > 1 {
		return apperr.NewValidation("confidence must be within [0, 1]")
	}
	return nil
}
