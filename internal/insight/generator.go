// Package insight turns matched patterns' hypotheses and recommendations
// into an ordered, template-rendered list of actionable insights.
//
// Templates are plain string substitution ({{placeholder}}), not a
// templating engine, per the engine's design notes: the substitution set is
// small and fixed, so pulling in text/template would add machinery the
// domain doesn't need.
package insight

import (
	"fmt"
	"sort"
	"strings"

	"unified-thinking/internal/patterns"
	"unified-thinking/internal/types"
)

// Generator renders hypotheses and recommendations from matched patterns
// into ordered, human-readable insight strings.
type Generator struct {
	minInsightConfidence float64
	minYield             int
}

// NewGenerator creates an Insight Generator. minInsightConfidence filters
// out low-likelihood hypotheses after the pattern-level filter has already
// run; minYield is the smallest number of hypotheses the generator will try
// to produce by drawing from the fixed supplemental pool before falling
// back.
func NewGenerator(minInsightConfidence float64, minYield int) *Generator {
	return &Generator{minInsightConfidence: minInsightConfidence, minYield: minYield}
}

// Result bundles the rendered insights with the overall confidence in them
// and whether the zero-match fallback path was used.
type Result struct {
	Insights     []string
	Confidence   float64
	UsedFallback bool
}

// Generate renders insights from a set of pattern matches, ordered by
// likelihood/priority, with recommendation prerequisites topologically
// resolved so a recommendation never precedes what it depends on. kt is the
// KeyTerms bag extracted from the same problem text the matches were scored
// against; it fills the {{primarySubject}}/{{domainTerms}}/{{actionVerbs}}/
// {{nounPhrases}}/{{terms}} placeholders that catalogue authors may embed in
// a Hypothesis.Statement or Recommendation.Action/ExpectedOutcome.
func (g *Generator) Generate(matches []patterns.Match, kt types.KeyTerms) Result {
	if len(matches) == 0 {
		return fallbackResult()
	}

	type hypoLine struct {
		line       string
		likelihood float64
	}
	var primaryHypo []hypoLine
	for _, m := range matches {
		for _, h := range m.Pattern.Hypotheses {
			if h.Likelihood < g.minInsightConfidence {
				continue
			}
			primaryHypo = append(primaryHypo, hypoLine{renderHypothesis(h, m.Pattern, kt), h.Likelihood})
		}
	}
	sort.SliceStable(primaryHypo, func(i, j int) bool { return primaryHypo[i].likelihood > primaryHypo[j].likelihood })

	var insights []string
	for _, h := range primaryHypo {
		insights = append(insights, h.line)
	}

	if len(insights) < g.minYield {
		for _, h := range supplementalPool() {
			if len(insights) >= g.minYield {
				break
			}
			insights = append(insights, renderHypothesis(h, types.Pattern{Name: "supplemental"}, kt))
		}
	}

	recs := topologicalRecommendations(allRecommendations(matches))
	for _, r := range recs {
		insights = append(insights, renderRecommendation(r, kt))
	}

	return Result{
		Insights:   insights,
		Confidence: matchConfidence(matches),
	}
}

// supplementalPool is the fixed, catalogue-independent set of hypotheses
// drawn on when at least one pattern matched but yield is still below
// minYield — never the catalogue's own filtered-out low-likelihood
// hypotheses, which would bias supplemental insights toward whatever
// happened to almost match.
func supplementalPool() []types.Hypothesis {
	return []types.Hypothesis{
		{ID: "resource_contention", Statement: "Contention over a shared resource (CPU, memory, connections, locks) may be involved.", Likelihood: 0.35, SourcePatternID: "supplemental"},
		{ID: "configuration", Statement: "A recent configuration change may be contributing.", Likelihood: 0.30, SourcePatternID: "supplemental"},
		{ID: "dependency", Statement: "An upstream or downstream dependency may be the underlying cause.", Likelihood: 0.25, SourcePatternID: "supplemental"},
		{ID: "data_integrity", Statement: "A data integrity issue may be producing the observed symptoms.", Likelihood: 0.20, SourcePatternID: "supplemental"},
	}
}

// matchConfidence is §4.5's overall insight confidence: the strongest
// match's own score, nudged up by how many distinct pattern domains
// contributed to the match set (more independent domains agreeing raises
// confidence, capped at +0.1).
func matchConfidence(matches []patterns.Match) float64 {
	var best float64
	domains := map[string]bool{}
	for _, m := range matches {
		if m.Score > best {
			best = m.Score
		}
		if m.Pattern.Domain != "" {
			domains[m.Pattern.Domain] = true
		}
	}
	bonus := 0.05 * float64(len(domains)-1)
	if bonus > 0.1 {
		bonus = 0.1
	}
	if bonus < 0 {
		bonus = 0
	}
	return types.Clamp01(best + bonus)
}

func allRecommendations(matches []patterns.Match) []types.Recommendation {
	var all []types.Recommendation
	for _, m := range matches {
		all = append(all, m.Pattern.Recommendations...)
	}
	return all
}

// topologicalRecommendations orders recommendations by descending Priority,
// then resolves prerequisite ordering so that every prerequisite ID appears
// before the recommendation that depends on it. Cycles (which a
// well-formed catalogue should never produce) are broken by falling back
// to priority order for the remaining unresolved set.
func topologicalRecommendations(recs []types.Recommendation) []types.Recommendation {
	byID := make(map[string]types.Recommendation, len(recs))
	for _, r := range recs {
		byID[r.ID] = r
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority > recs[j].Priority })

	var ordered []types.Recommendation
	placed := map[string]bool{}

	remaining := append([]types.Recommendation(nil), recs...)
	for len(remaining) > 0 {
		progressed := false
		var next []types.Recommendation
		for _, r := range remaining {
			ready := true
			for _, prereq := range r.Prerequisites {
				if _, known := byID[prereq]; known && !placed[prereq] {
					ready = false
					break
				}
			}
			if ready {
				ordered = append(ordered, r)
				placed[r.ID] = true
				progressed = true
			} else {
				next = append(next, r)
			}
		}
		if !progressed {
			// cycle or unresolved external prerequisite: append remainder
			// in priority order rather than looping forever.
			ordered = append(ordered, next...)
			break
		}
		remaining = next
	}
	return ordered
}

func renderHypothesis(h types.Hypothesis, p types.Pattern, kt types.KeyTerms) string {
	tmpl := "Hypothesis: {{statement}} (pattern: {{pattern}}, likelihood {{likelihood}}%)"
	replacements := map[string]string{
		"statement":  substituteKeyTerms(h.Statement, kt),
		"pattern":    p.Name,
		"likelihood": fmt.Sprintf("%.0f", h.Likelihood*100),
	}
	return substitute(tmpl, replacements)
}

func renderRecommendation(r types.Recommendation, kt types.KeyTerms) string {
	tmpl := "Recommendation ({{type}}, priority {{priority}}): {{action}}"
	outcome := substituteKeyTerms(r.ExpectedOutcome, kt)
	if outcome != "" {
		tmpl += " — expected outcome: {{outcome}}"
	}
	replacements := map[string]string{
		"type":     string(r.Type),
		"priority": fmt.Sprintf("%d", r.Priority),
		"action":   substituteKeyTerms(r.Action, kt),
		"outcome":  outcome,
	}
	return substitute(tmpl, replacements)
}

func substitute(tmpl string, replacements map[string]string) string {
	out := tmpl
	for k, v := range replacements {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}

// substituteKeyTerms replaces the spec's five catalogue-authored
// placeholders with the extracted KeyTerms bags, falling back to a generic
// phrase when the corresponding bag is empty so no "{{...}}" marker ever
// survives into rendered text.
func substituteKeyTerms(text string, kt types.KeyTerms) string {
	if text == "" {
		return text
	}
	return substitute(text, map[string]string{
		"primarySubject": orDefault(kt.PrimarySubject, "the system"),
		"domainTerms":    orDefault(joinLimit(kt.DomainTerms, 0), "relevant components"),
		"actionVerbs":    orDefault(joinLimit(kt.ActionVerbs, 0), "operations"),
		"nounPhrases":    orDefault(joinLimit(kt.NounPhrases, 0), "system components"),
		"terms":          orDefault(joinLimit(kt.Terms, 5), "relevant aspects"),
	})
}

func joinLimit(words []string, limit int) string {
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// fallbackResult is returned when no pattern matched at all: a fixed
// hypothesis pair plus two diagnostic recommendations, so downstream
// formatting always receives a concrete next step rather than an empty
// insight list.
func fallbackResult() Result {
	hypotheses := []types.Hypothesis{
		{ID: "resource_contention", Statement: "Contention over a shared resource (CPU, memory, connections, locks) may be involved.", Likelihood: 0.5, SourcePatternID: "fallback"},
		{ID: "configuration", Statement: "A recent configuration change may be contributing.", Likelihood: 0.4, SourcePatternID: "fallback"},
	}
	recommendations := []types.Recommendation{
		{ID: "gather_data", Type: types.RecommendationDiagnostic, Action: "Gather more specific evidence about the problem before proceeding.", Priority: 9, SourcePatternID: "fallback"},
		{ID: "isolate_issue", Type: types.RecommendationDiagnostic, Action: "Isolate the issue to a single component or code path.", Prerequisites: []string{"gather_data"}, Priority: 8, SourcePatternID: "fallback"},
	}

	var insights []string
	for _, h := range hypotheses {
		insights = append(insights, renderHypothesis(h, types.Pattern{Name: "fallback"}, types.KeyTerms{}))
	}
	for _, r := range topologicalRecommendations(recommendations) {
		insights = append(insights, renderRecommendation(r, types.KeyTerms{}))
	}

	return Result{
		Insights:     insights,
		Confidence:   hypotheses[0].Likelihood,
		UsedFallback: true,
	}
}
