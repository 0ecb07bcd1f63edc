package patterns

import "testing"

func TestLoadDirAndMatch(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadDir("../../configs/patterns"); err != nil {
		t.Fatalf("LoadDir returned error: %v", err)
	}
	if len(r.All()) == 0 {
		t.Fatal("expected at least one loaded pattern")
	}

	m := NewMatcher(r, 0.3)
	matches := m.MatchAll("The service ran out of memory after a few hours of sustained traffic.")
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if matches[0].Pattern.ID != "resource-exhaustion" {
		t.Errorf("expected top match resource-exhaustion, got %s", matches[0].Pattern.ID)
	}
}

func TestMatchAllOrdersByScoreDescending(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadDir("../../configs/patterns"); err != nil {
		t.Fatalf("LoadDir returned error: %v", err)
	}
	m := NewMatcher(r, 0.1)
	matches := m.MatchAll("Data corruption only happens intermittently, only under load, nondeterministic.")
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches not sorted descending at index %d: %v > %v", i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestByID(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadDir("../../configs/patterns"); err != nil {
		t.Fatalf("LoadDir returned error: %v", err)
	}
	if _, ok := r.ByID("race-condition"); !ok {
		t.Error("expected race-condition pattern to be present")
	}
	if _, ok := r.ByID("does-not-exist"); ok {
		t.Error("expected unknown pattern id to be absent")
	}
}
