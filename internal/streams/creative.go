package streams

import (
	"context"
	"fmt"

	"unified-thinking/internal/types"
)

// Creative explores the problem via analogy and divergent reframing rather
// than direct deduction, surfacing options a purely analytical pass would
// not consider.
type Creative struct {
	base
}

// NewCreative creates a Creative reasoning stream.
func NewCreative(id string) *Creative {
	return &Creative{base: newBase(id, types.StreamCreative)}
}

func (c *Creative) Process(ctx context.Context) error {
	c.setRunning()

	c.addStep(types.ReasoningStep{
		Type:       types.StepContextual,
		Content:    fmt.Sprintf("Reframing %q by analogy to structurally similar problems in other domains.", truncate(c.problem.Description, 80)),
		Confidence: 0.5,
	}, 0.3)
	if err := checkCancel(ctx); err != nil {
		c.finish(types.StreamFailed, err.Error())
		return err
	}

	for i, goal := range c.problem.Goals {
		c.addStep(types.ReasoningStep{
			Type:       types.StepAnalogical,
			Content:    fmt.Sprintf("Goal %d (%q) suggests an analogous approach from an adjacent domain.", i+1, goal),
			Confidence: 0.55,
		}, 0.3+0.3*float64(i+1)/float64(max(1, len(c.problem.Goals))))
	}
	if err := checkCancel(ctx); err != nil {
		c.finish(types.StreamFailed, err.Error())
		return err
	}

	c.addStep(types.ReasoningStep{
		Type:       types.StepHeuristic,
		Content:    "A non-obvious reframing of the problem suggests an alternative that deductive analysis alone would not surface.",
		Confidence: 0.5,
	}, 0.8)

	c.addInsight("An analogical reframing surfaced an alternative angle; treat it as a candidate to explore, not a final answer.")

	c.finish(types.StreamCompleted, "")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
