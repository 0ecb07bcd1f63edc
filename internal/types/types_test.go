package types

import "testing"

func TestClamp01(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
	}
	for _, c := range cases {
		if got := Clamp01(c.in); got != c.want {
			t.Errorf("Clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAllSectors(t *testing.T) {
	sectors := AllSectors()
	if len(sectors) != 5 {
		t.Fatalf("expected 5 sectors, got %d", len(sectors))
	}
	seen := map[MemorySector]bool{}
	for _, s := range sectors {
		seen[s] = true
	}
	for _, want := range []MemorySector{SectorEpisodic, SectorSemantic, SectorProcedural, SectorEmotional, SectorReflective} {
		if !seen[want] {
			t.Errorf("missing sector %q", want)
		}
	}
}

func TestInsightShareable(t *testing.T) {
	if (Insight{Importance: 0.7}).Shareable() {
		t.Error("0.7 should not be shareable (strictly greater than required)")
	}
	if !(Insight{Importance: 0.71}).Shareable() {
		t.Error("0.71 should be shareable")
	}
}

func TestStringInterner(t *testing.T) {
	si := NewStringInterner()
	a := si.Intern("analytical")
	b := si.Intern("analytical")
	if a != b {
		t.Error("expected interned strings to be equal")
	}
	if si.Size() != 1 {
		t.Errorf("expected 1 interned string, got %d", si.Size())
	}
	si.Intern("creative")
	if si.Size() != 2 {
		t.Errorf("expected 2 interned strings, got %d", si.Size())
	}
	si.Clear()
	if si.Size() != 0 {
		t.Errorf("expected 0 after clear, got %d", si.Size())
	}
}

func TestInternStreamType(t *testing.T) {
	if got := InternStreamType(StreamAnalytical); got != StreamAnalytical {
		t.Errorf("expected %q, got %q", StreamAnalytical, got)
	}
}
