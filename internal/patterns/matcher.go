package patterns

import (
	"regexp"
	"strings"

	"unified-thinking/internal/types"
)

// Match is one pattern's scored result against a piece of problem text.
type Match struct {
	Pattern         types.Pattern
	Score           float64
	MatchedCount    int
	NegativeCount   int
}

// Matcher scores problem text against a Registry's loaded patterns.
type Matcher struct {
	registry      *Registry
	minMatchScore float64
}

// NewMatcher creates a Matcher backed by registry; matches scoring below
// minMatchScore are dropped.
func NewMatcher(registry *Registry, minMatchScore float64) *Matcher {
	return &Matcher{registry: registry, minMatchScore: minMatchScore}
}

// MatchAll scores text against every loaded pattern and returns matches at
// or above the configured threshold, ordered by descending score.
func (m *Matcher) MatchAll(text string) []Match {
	kt := ExtractKeyTerms(text)

	var matches []Match
	for _, p := range m.registry.All() {
		score, matchedCount, negCount := scorePattern(text, p, kt)
		if score < m.minMatchScore {
			continue
		}
		if score < p.QualityThreshold {
			continue
		}
		matches = append(matches, Match{Pattern: p, Score: score, MatchedCount: matchedCount, NegativeCount: negCount})
	}

	// stable descending-score sort, ties broken by catalogue order
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].Score > matches[j-1].Score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	return matches
}

// keyTermBoost is the weight multiplier §4.4 step 2 applies to an indicator
// whose key_term_category also names a bag the extracted KeyTerms populated
// with the indicator's value. The spec names the mechanism without a
// numeric constant; 1.5x is chosen as a boost pronounced enough to move a
// borderline match past threshold without letting a single indicator
// dominate a pattern's score outright.
const keyTermBoost = 1.5

// scorePattern computes a pattern's weighted indicator match score: the
// weighted sum of matched positive indicators divided by the positive
// indicator weight total (so a pattern with fewer indicators isn't
// structurally disadvantaged), minus the weighted sum of matched negative
// indicators divided by that total plus one, clamped to [0,1]. An indicator tagged with a key_term_category whose value
// also appears in the matching extracted key-term bag has its weight
// boosted before either sum is accumulated.
func scorePattern(text string, p types.Pattern, kt types.KeyTerms) (float64, int, int) {
	var totalWeight, matchedWeight float64
	var matchedCount int
	for _, ind := range p.Indicators {
		w := effectiveWeight(ind, kt)
		totalWeight += w
		if indicatorMatches(text, ind) {
			matchedWeight += w
			matchedCount++
		}
	}
	if totalWeight == 0 {
		return 0, 0, 0
	}

	var negWeight float64
	var negCount int
	for _, ind := range p.NegativeIndicators {
		if indicatorMatches(text, ind) {
			negWeight += effectiveWeight(ind, kt)
			negCount++
		}
	}

	score := matchedWeight/totalWeight - negWeight/(totalWeight+1)
	return types.Clamp01(score), matchedCount, negCount
}

// effectiveWeight applies the key-term category boost, if any, to an
// indicator's declared weight.
func effectiveWeight(ind types.Indicator, kt types.KeyTerms) float64 {
	if ind.KeyTermCategory == "" {
		return ind.Weight
	}
	if keyTermBagContains(kt, ind.KeyTermCategory, ind.Value) {
		return ind.Weight * keyTermBoost
	}
	return ind.Weight
}

func keyTermBagContains(kt types.KeyTerms, category, value string) bool {
	value = strings.ToLower(value)
	var bag []string
	switch category {
	case "primary_subject":
		return strings.ToLower(kt.PrimarySubject) == value
	case "domain_terms":
		bag = kt.DomainTerms
	case "action_verbs":
		bag = kt.ActionVerbs
	case "noun_phrases":
		bag = kt.NounPhrases
	case "terms":
		bag = kt.Terms
	default:
		return false
	}
	for _, t := range bag {
		if strings.ToLower(t) == value {
			return true
		}
	}
	return false
}

func indicatorMatches(text string, ind types.Indicator) bool {
	switch ind.Type {
	case types.IndicatorExact:
		return strings.Contains(strings.ToLower(text), strings.ToLower(ind.Value))
	case types.IndicatorFuzzy:
		return fuzzyContains(strings.ToLower(text), strings.ToLower(ind.Value))
	case types.IndicatorRegex:
		re, err := regexp.Compile(ind.Value)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	default:
		return false
	}
}

// fuzzyContains treats the indicator value as a space-separated set of
// tokens that must all appear somewhere in text, in any order — a cheap
// approximation of fuzzy matching without pulling in an edit-distance
// dependency for this one concern.
func fuzzyContains(text, value string) bool {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}
