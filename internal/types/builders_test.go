package types

import "testing"

func TestMemoryBuilderDefaults(t *testing.T) {
	m := NewMemory().Content("the sky is blue").OwnedBy("user-1").Build()

	if m.PrimarySector != SectorSemantic {
		t.Errorf("expected default sector %q, got %q", SectorSemantic, m.PrimarySector)
	}
	if m.Salience != 0.5 {
		t.Errorf("expected default salience 0.5, got %v", m.Salience)
	}
	if m.Strength != 1.0 {
		t.Errorf("expected default strength 1.0, got %v", m.Strength)
	}
}

func TestMemoryBuilderValidate(t *testing.T) {
	if err := NewMemory().Validate(); err == nil {
		t.Error("expected error for empty content/user")
	}
	if err := NewMemory().Content("x").Validate(); err == nil {
		t.Error("expected error for missing owner")
	}
	if err := NewMemory().Content("x").OwnedBy("u").Validate(); err != nil {
		t.Errorf("expected valid memory, got %v", err)
	}
}

func TestMemoryBuilderWithTagsAndKeywords(t *testing.T) {
	m := NewMemory().Content("x").OwnedBy("u").
		WithKeywords("alpha", "beta").
		WithTags("project/x").
		Atomic().
		ChildOf("parent-1").
		Build()

	if len(m.Metadata.Keywords) != 2 {
		t.Errorf("expected 2 keywords, got %d", len(m.Metadata.Keywords))
	}
	if len(m.Metadata.Tags) != 1 || m.Metadata.Tags[0] != "project/x" {
		t.Errorf("unexpected tags: %v", m.Metadata.Tags)
	}
	if !m.Metadata.IsAtomic {
		t.Error("expected atomic flag set")
	}
	if m.Metadata.ParentID != "parent-1" {
		t.Errorf("expected parent-1, got %q", m.Metadata.ParentID)
	}
}

func TestStreamResultBuilder(t *testing.T) {
	r := NewStreamResult(StreamAnalytical).
		ID("s-1").
		Confidence(0.7).
		AddStep(ReasoningStep{Type: StepDeductive, Content: "step one"}).
		AddConclusion("conclusion one").
		Completed().
		Build()

	if r.StreamType != StreamAnalytical {
		t.Errorf("expected StreamAnalytical, got %q", r.StreamType)
	}
	if r.Status != StreamCompleted {
		t.Errorf("expected StreamCompleted, got %q", r.Status)
	}
	if len(r.ReasoningSteps) != 1 || len(r.Conclusions) != 1 {
		t.Errorf("expected one step and one conclusion, got %d/%d", len(r.ReasoningSteps), len(r.Conclusions))
	}
}

func TestStreamResultBuilderFailed(t *testing.T) {
	r := NewStreamResult(StreamCritical).Failed("timed out").Build()
	if r.Status != StreamFailed {
		t.Errorf("expected StreamFailed, got %q", r.Status)
	}
	if r.Error != "timed out" {
		t.Errorf("expected error message preserved, got %q", r.Error)
	}
}
