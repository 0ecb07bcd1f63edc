package streams

import (
	"context"
	"fmt"

	"unified-thinking/internal/types"
)

// Analytical decomposes a problem into its constituent parts and reasons
// deductively from stated constraints toward a conclusion.
type Analytical struct {
	base
}

// NewAnalytical creates an Analytical reasoning stream.
func NewAnalytical(id string) *Analytical {
	return &Analytical{base: newBase(id, types.StreamAnalytical)}
}

func (a *Analytical) Process(ctx context.Context) error {
	a.setRunning()

	ev := extractEvidence(a.problem)
	a.addStep(types.ReasoningStep{
		Type:       types.StepContextual,
		Content:    fmt.Sprintf("Decomposing problem with %d stated constraint(s) and %d goal(s).", len(a.problem.Constraints), len(a.problem.Goals)),
		Confidence: 0.6,
	}, 0.25)
	if err := checkCancel(ctx); err != nil {
		a.finish(types.StreamFailed, err.Error())
		return err
	}

	for i, constraint := range a.problem.Constraints {
		a.addStep(types.ReasoningStep{
			Type:       types.StepLogicalInference,
			Content:    fmt.Sprintf("Constraint %d (%q) narrows the solution space.", i+1, constraint),
			Confidence: 0.65,
		}, 0.25+0.4*float64(i+1)/float64(max(1, len(a.problem.Constraints))))
	}
	if err := checkCancel(ctx); err != nil {
		a.finish(types.StreamFailed, err.Error())
		return err
	}

	evConf := 0.5
	if len(ev) > 0 {
		var sum float64
		for _, e := range ev {
			sum += e.Confidence
		}
		evConf = sum / float64(len(ev))
	}
	a.addStep(types.ReasoningStep{
		Type:       types.StepDeductive,
		Content:    fmt.Sprintf("Given the constraints and %d evidence item(s), the most directly supported conclusion follows deductively.", len(ev)),
		Confidence: evConf,
	}, 0.9)

	if evConf > 0.6 {
		a.addInsight("A deductive conclusion was reached with reasonable evidentiary support; consider validating it against at least one disconfirming case.")
	} else {
		a.addInsight("Deductive confidence is limited by thin evidence; gather more before committing to this conclusion.")
	}

	a.finish(types.StreamCompleted, "")
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
