package patterns

import (
	"testing"

	"unified-thinking/internal/types"
)

func TestExtractKeyTermsSeparatesVerbsFromDomainTerms(t *testing.T) {
	kt := ExtractKeyTerms("The deploy pipeline failed after we migrated the database cluster.")

	if !containsWord(kt.ActionVerbs, "failed") || !containsWord(kt.ActionVerbs, "migrated") {
		t.Errorf("expected failed/migrated classified as action verbs, got %v", kt.ActionVerbs)
	}
	if !containsWord(kt.DomainTerms, "pipeline") || !containsWord(kt.DomainTerms, "cluster") {
		t.Errorf("expected pipeline/cluster classified as domain terms, got %v", kt.DomainTerms)
	}
	if kt.PrimarySubject == "" {
		t.Error("expected a non-empty primary subject")
	}
}

func TestExtractKeyTermsNounPhrasesAreAdjacentRuns(t *testing.T) {
	kt := ExtractKeyTerms("the payments service timeout")
	found := false
	for _, p := range kt.NounPhrases {
		if p == "payments service timeout" || p == "payments service" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an adjacent noun phrase run, got %v", kt.NounPhrases)
	}
}

func TestExtractKeyTermsEmptyTextYieldsEmptyBags(t *testing.T) {
	kt := ExtractKeyTerms("")
	if kt.PrimarySubject != "" || len(kt.DomainTerms) != 0 || len(kt.ActionVerbs) != 0 {
		t.Errorf("expected all-empty KeyTerms for empty text, got %+v", kt)
	}
}

func TestScorePatternBoostsKeyTermTaggedIndicator(t *testing.T) {
	pattern := types.Pattern{
		ID: "p1",
		Indicators: []types.Indicator{
			{Type: types.IndicatorExact, Value: "cluster", Weight: 0.5, KeyTermCategory: "domain_terms"},
			{Type: types.IndicatorExact, Value: "nonexistent_term_xyz", Weight: 0.5},
		},
	}
	text := "the database cluster is unstable"
	kt := ExtractKeyTerms(text)

	score, _, _ := scorePattern(text, pattern, kt)
	scoreNoBoost, _, _ := scorePattern(text, pattern, types.KeyTerms{})
	if score <= scoreNoBoost {
		t.Errorf("expected key-term-tagged indicator to score higher with a populated bag: boosted=%v plain=%v", score, scoreNoBoost)
	}
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
