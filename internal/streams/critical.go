package streams

import (
	"context"
	"fmt"

	"unified-thinking/internal/bias"
	"unified-thinking/internal/types"
)

// Critical actively looks for weaknesses, gaps and biases in the problem
// framing rather than proposing a solution of its own.
type Critical struct {
	base
}

// NewCritical creates a Critical reasoning stream.
func NewCritical(id string) *Critical {
	return &Critical{base: newBase(id, types.StreamCritical)}
}

func (c *Critical) Process(ctx context.Context) error {
	c.setRunning()

	ev := extractEvidence(c.problem)
	c.addStep(types.ReasoningStep{
		Type:       types.StepContextual,
		Content:    fmt.Sprintf("Scrutinizing the problem statement: %d evidence item(s), %d stated constraint(s).", len(ev), len(c.problem.Constraints)),
		Confidence: 0.6,
	}, 0.2)
	if err := checkCancel(ctx); err != nil {
		c.finish(types.StreamFailed, err.Error())
		return err
	}

	if len(ev) == 0 {
		c.addStep(types.ReasoningStep{
			Type:       types.StepMetacognitive,
			Content:    "No extractable evidence was found in the problem statement; any conclusion drawn here would be speculative.",
			Confidence: 0.7,
		}, 0.5)
	} else {
		c.addStep(types.ReasoningStep{
			Type:       types.StepMetacognitive,
			Content:    "Checking whether the gathered evidence actually supports the stated goals, or merely sounds relevant.",
			Confidence: 0.65,
		}, 0.5)
	}
	if err := checkCancel(ctx); err != nil {
		c.finish(types.StreamFailed, err.Error())
		return err
	}

	detector := bias.NewDetector()
	syntheticSteps := []types.ReasoningStep{
		{Type: types.StepDeductive, Content: c.problem.Description, Confidence: c.problem.Complexity},
		{Type: types.StepInductive, Content: c.problem.Description, Confidence: c.problem.Complexity},
	}
	detected := detector.Detect(syntheticSteps, ev)
	for _, d := range detected {
		c.addStep(types.ReasoningStep{
			Type:       types.StepMetacognitive,
			Content:    fmt.Sprintf("Potential %s bias: %s", d.Kind, d.Description),
			Confidence: d.Severity,
		}, 0.8)
		c.addInsight(fmt.Sprintf("Watch for %s bias before acting on this conclusion: %s", d.Kind, d.Description))
	}

	if len(detected) == 0 {
		c.addInsight("No strong bias signal detected, but absence of signal is not proof of absence — re-examine key assumptions anyway.")
	}

	c.finish(types.StreamCompleted, "")
	return nil
}
