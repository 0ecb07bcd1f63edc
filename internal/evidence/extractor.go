// Package evidence scans reasoning or problem text for evidentiary
// statements, classifies each into a fixed typed catalogue, and scores the
// overall evidentiary quality of the extracted set.
//
// The catalogue-of-indicator-lists idiom here is grounded on the teacher's
// internal/analysis/evidence.go strong/weak-indicator classification; the
// quality formula itself follows the engine's own piecewise specification
// rather than the teacher's three-factor blend.
package evidence

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"unified-thinking/internal/types"
)

// pattern is one typed catalogue entry: a set of indicator words/phrases
// whose presence in a sentence classifies it as evidence of Type.
type pattern struct {
	evType   types.EvidenceType
	keywords []string
}

// catalogue order matters: the first pattern whose keywords match a
// sentence wins, and no later pattern is attempted against that sentence.
var catalogue = []pattern{
	{types.EvidenceTypeData, []string{"data shows", "data show", "data indicate", "according to the data", "data reveal"}},
	{types.EvidenceTypeStudy, []string{"study found", "study shows", "research found", "research shows", "studies show", "researchers found"}},
	{types.EvidenceTypeStatistic, []string{"%", "percent", "increase of", "decrease of", "ratio of", "rate of"}},
	{types.EvidenceTypeFact, []string{"it is known that", "it is a fact that", "in fact", "factually"}},
	{types.EvidenceTypeObservation, []string{"observed that", "we noticed", "it was observed", "noticeably", "observation shows"}},
	{types.EvidenceTypeReference, []string{"according to", "as stated in", "as reported by", "cited in", "per the"}},
	{types.EvidenceTypeExample, []string{"for example", "for instance", "such as", "e.g.", "as an example"}},
	{types.EvidenceTypeMeasurement, []string{"measured at", "measured to be", "recorded at", "logged at", "ms", "milliseconds", "latency"}},
}

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// Extractor keeps no per-sentence matching state: each sentence is
// classified on its own. The only state carried across calls is the
// mutex-guarded counter used to number evidence IDs.
type Extractor struct {
	mu      sync.Mutex
	counter int
}

// NewExtractor creates an Evidence Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Result is the extractor's output contract: extract(text) → { evidence[],
// count, quality }.
type Result struct {
	Evidence []types.Evidence
	Count    int
	Quality  float64
}

// Extract scans text for evidentiary sentences. Empty or non-evidentiary
// input yields the zero Result (Quality 0, Count 0, empty Evidence).
func (e *Extractor) Extract(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Evidence: []types.Evidence{}}
	}

	sentences := sentenceSplitter.Split(text, -1)
	seen := make(map[string]bool)
	items := make([]types.Evidence, 0, len(sentences))

	for _, raw := range sentences {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		key := strings.ToLower(sentence)
		if seen[key] {
			continue
		}

		evType, matched, ok := classify(sentence)
		if !ok {
			continue
		}
		seen[key] = true

		e.mu.Lock()
		e.counter++
		id := e.counter
		e.mu.Unlock()

		items = append(items, types.Evidence{
			ID:          idString(id),
			Content:     sentence,
			Type:        evType,
			Confidence:  confidenceFor(matched),
			Reliability: reliabilityFor(sentence),
			Relevance:   relevanceFor(sentence),
			CreatedAt:   time.Now(),
		})
	}

	quality := computeQuality(items)
	return Result{Evidence: items, Count: len(items), Quality: quality}
}

// classify tests the fixed catalogue in order; the first pattern that
// matches wins and no further patterns are attempted.
func classify(sentence string) (types.EvidenceType, int, bool) {
	lower := strings.ToLower(sentence)
	for _, p := range catalogue {
		matched := 0
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				matched++
			}
		}
		if matched > 0 {
			return p.evType, matched, true
		}
	}
	return "", 0, false
}

// confidenceFor scales with how many indicator keywords matched a single
// sentence, following the teacher's indicator-count-to-score idiom.
func confidenceFor(matchedKeywords int) float64 {
	return types.Clamp01(0.55 + 0.15*float64(matchedKeywords))
}

func reliabilityFor(sentence string) float64 {
	lower := strings.ToLower(sentence)
	score := 0.5
	for _, kw := range []string{"university", "institute", "journal", "government", "official", "peer-reviewed"} {
		if strings.Contains(lower, kw) {
			score += 0.1
			break
		}
	}
	if len(sentence) > 120 {
		score += 0.1
	}
	for _, kw := range []string{"maybe", "probably", "possibly", "might"} {
		if strings.Contains(lower, kw) {
			score -= 0.1
			break
		}
	}
	return types.Clamp01(score)
}

func relevanceFor(sentence string) float64 {
	score := 0.5
	switch {
	case len(sentence) > 150:
		score += 0.3
	case len(sentence) > 60:
		score += 0.2
	}
	if strings.ContainsAny(sentence, "0123456789") {
		score += 0.1
	}
	return types.Clamp01(score)
}

// computeQuality implements §4.1's deterministic quality formula.
func computeQuality(items []types.Evidence) float64 {
	n := len(items)
	if n == 0 {
		return 0
	}

	countScore := countScore(n)

	uniqueTypes := map[types.EvidenceType]bool{}
	var confSum float64
	for _, it := range items {
		uniqueTypes[it.Type] = true
		confSum += it.Confidence
	}
	diversityScore := float64(len(uniqueTypes)) / 4.0
	if diversityScore > 1 {
		diversityScore = 1
	}
	avgConfidence := confSum / float64(n)

	return types.Clamp01(0.4*countScore + 0.3*diversityScore + 0.3*avgConfidence)
}

// countScore is the piecewise count_score function from §4.1/§4.3's shared
// formula family.
func countScore(n int) float64 {
	switch {
	case n <= 3:
		return float64(n) / 3.0
	case n <= 7:
		return 0.9 + float64(n-3)*0.025
	default:
		v := 1.0 - float64(n-7)*0.01
		if v < 0.85 {
			return 0.85
		}
		return v
	}
}

func idString(n int) string {
	const hex = "0123456789abcdef"
	if n == 0 {
		return "ev-0"
	}
	b := []byte{}
	for n > 0 {
		b = append([]byte{hex[n%16]}, b...)
		n /= 16
	}
	return "ev-" + string(b)
}
