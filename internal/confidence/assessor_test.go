package confidence

import (
	"testing"

	"unified-thinking/internal/types"
)

func TestAssessEmptyInputYieldsLowConfidence(t *testing.T) {
	a := NewAssessor(Identity())
	result := a.Assess(Input{})
	if result.Overall > 0.2 {
		t.Errorf("expected low overall confidence for empty input, got %v", result.Overall)
	}
	if result.Calibrated {
		t.Error("expected Calibrated false under identity calibration")
	}
}

func TestAssessStrongInputYieldsHighConfidence(t *testing.T) {
	a := NewAssessor(Identity())
	evidence := []types.Evidence{
		{Type: types.EvidenceTypeData, Content: "the data shows a clear upward trend over five quarters", Confidence: 0.9},
		{Type: types.EvidenceTypeStudy, Content: "a peer reviewed study found the same effect independently", Confidence: 0.85},
		{Type: types.EvidenceTypeStatistic, Content: "a 40 percent increase was recorded across all cohorts", Confidence: 0.88},
		{Type: types.EvidenceTypeObservation, Content: "engineers observed the same pattern in production logs", Confidence: 0.8},
	}
	result := a.Assess(Input{
		Evidence:        evidence,
		Description:     "Should the team roll out the new caching layer to every region given the trial results so far",
		ContextText:     "This decision affects the payments and checkout services during the upcoming holiday traffic peak",
		Goals:           []string{"reduce latency", "avoid regressions"},
		Constraints:     []string{"no downtime", "budget capped"},
		Framework:       "cost-benefit",
		ComplexityLabel: "moderate",
	})
	if result.Overall < 0.6 {
		t.Errorf("expected high overall confidence, got %v", result.Overall)
	}
	if len(result.Factors) != 4 {
		t.Errorf("expected 4 factors, got %d", len(result.Factors))
	}
}

func TestAssessCalibration(t *testing.T) {
	a := NewAssessor(Calibration{Slope: 0.5, Intercept: 0.1})
	result := a.Assess(Input{Description: "plan the migration", Goals: []string{"g1"}, Constraints: []string{"c1"}})
	if !result.Calibrated {
		t.Error("expected Calibrated true under non-identity calibration")
	}
	if result.Overall > result.RawOverall {
		t.Errorf("expected calibrated overall (%v) <= raw (%v) under slope<1", result.Overall, result.RawOverall)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := weightEvidence + weightCoherence + weightCompleteness + weightUncertainty
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("expected weights to sum to 1.0, got %v", sum)
	}
}

// TestUncertaintyEpistemicFromSparseEvidence reproduces §8.2a: a single
// piece of evidence and no stated goals or constraints is Epistemic with a
// high uncertainty level.
func TestUncertaintyEpistemicFromSparseEvidence(t *testing.T) {
	a := NewAssessor(Identity())
	result := a.Assess(Input{
		Description: "optimise X",
		Evidence:    []types.Evidence{{Content: "one item"}},
	})
	if result.UncertaintyType != types.UncertaintyEpistemic {
		t.Errorf("expected Epistemic, got %v", result.UncertaintyType)
	}
	if result.UncertaintyLevel < 0.6 {
		t.Errorf("expected uncertainty level >= 0.6, got %v", result.UncertaintyLevel)
	}
}

// TestUncertaintyAleatoryFromModerateEvidence reproduces §8.2b: three
// evidence items with stated goals, constraints, and a "moderate"
// complexity label classify as Aleatory at level ~0.4.
func TestUncertaintyAleatoryFromModerateEvidence(t *testing.T) {
	a := NewAssessor(Identity())
	result := a.Assess(Input{
		Description:     "plan Y",
		Evidence:        []types.Evidence{{Content: "e1"}, {Content: "e2"}, {Content: "e3"}},
		Goals:           []string{"g1"},
		Constraints:     []string{"c1"},
		ComplexityLabel: "moderate",
	})
	if result.UncertaintyType != types.UncertaintyAleatory {
		t.Errorf("expected Aleatory, got %v", result.UncertaintyType)
	}
	if result.UncertaintyLevel < 0.35 || result.UncertaintyLevel > 0.45 {
		t.Errorf("expected uncertainty level ~= 0.4, got %v", result.UncertaintyLevel)
	}
}

func TestUncertaintyAmbiguityFromKeyword(t *testing.T) {
	a := NewAssessor(Identity())
	result := a.Assess(Input{
		Description: "the requirements are ambiguous and keep shifting",
		Evidence:    []types.Evidence{{Content: "e1"}, {Content: "e2"}},
		Goals:       []string{"g1"},
		Constraints: []string{"c1"},
	})
	if result.UncertaintyType != types.UncertaintyAmbiguity {
		t.Errorf("expected Ambiguity, got %v", result.UncertaintyType)
	}
	if result.UncertaintyLevel != 0.6 {
		t.Errorf("expected uncertainty level 0.6, got %v", result.UncertaintyLevel)
	}
}

func TestCompletenessAllSignalsPresent(t *testing.T) {
	score := completenessScore(Input{
		Description:     "plan Y",
		Evidence:        []types.Evidence{{Content: "e1"}, {Content: "e2"}},
		Goals:           []string{"g1"},
		Constraints:     []string{"c1"},
		ComplexityLabel: "moderate",
	})
	// baseline 0.5, evidence/goals min(1,(2/1)/2)=1.0, constraints 0.5,
	// complexity 0.5, full-triple 1.0 -> mean = 3.5/5 = 0.7
	if score < 0.69 || score > 0.71 {
		t.Errorf("expected completeness ~= 0.7, got %v", score)
	}
}

func TestCoherenceFrameworkSelectedAddsFullSignal(t *testing.T) {
	withFramework := coherenceScore(Input{Description: "short", Framework: "tree-of-thought"})
	withoutFramework := coherenceScore(Input{Description: "short"})
	if withFramework <= withoutFramework {
		t.Errorf("expected selecting a framework to raise coherence: with=%v without=%v", withFramework, withoutFramework)
	}
}
