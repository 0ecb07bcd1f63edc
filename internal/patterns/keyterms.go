package patterns

import (
	"regexp"
	"strings"

	"unified-thinking/internal/types"
)

// ExtractKeyTerms pulls the glossary-defined KeyTerms bundle out of a piece
// of problem text: no dependency in the retrieved corpus does typed
// single-sentence part-of-speech tagging, so this is a deliberately cheap
// heuristic — a known-verb/stopword lookup plus adjacency runs for noun
// phrases — in the same spirit as the evidence extractor's regex cues.
func ExtractKeyTerms(text string) types.KeyTerms {
	tokens := tokenize(text)

	var nonStop []string
	var domainTerms []string
	var actionVerbs []string
	for _, tok := range tokens {
		if stopwords[tok] {
			continue
		}
		nonStop = append(nonStop, tok)
		if isActionVerb(tok) {
			actionVerbs = appendUnique(actionVerbs, tok)
		} else {
			domainTerms = appendUnique(domainTerms, tok)
		}
	}

	nounPhrases := nounPhraseRuns(tokens)

	var primarySubject string
	switch {
	case len(nounPhrases) > 0:
		primarySubject = nounPhrases[0]
	case len(domainTerms) > 0:
		primarySubject = domainTerms[0]
	}

	return types.KeyTerms{
		PrimarySubject: primarySubject,
		DomainTerms:    domainTerms,
		ActionVerbs:    actionVerbs,
		NounPhrases:    nounPhrases,
		Terms:          appendUnique(nil, nonStop...),
	}
}

var wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9'-]*`)

func tokenize(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	return raw
}

func appendUnique(into []string, words ...string) []string {
	seen := make(map[string]bool, len(into))
	for _, w := range into {
		seen[w] = true
	}
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		into = append(into, w)
	}
	return into
}

// nounPhraseRuns collects maximal runs of two or more consecutive
// non-stopword, non-verb tokens, in order of first appearance.
func nounPhraseRuns(tokens []string) []string {
	var phrases []string
	var run []string
	flush := func() {
		if len(run) >= 2 {
			phrases = append(phrases, strings.Join(run, " "))
		}
		run = nil
	}
	for _, tok := range tokens {
		if stopwords[tok] || isActionVerb(tok) {
			flush()
			continue
		}
		run = append(run, tok)
	}
	flush()
	return phrases
}

var stopwords = buildSet(
	"a", "an", "the", "is", "are", "was", "were", "be", "been", "being",
	"to", "of", "in", "on", "at", "for", "with", "by", "from", "as",
	"and", "or", "but", "if", "then", "than", "so", "that", "this",
	"these", "those", "it", "its", "we", "our", "they", "their",
	"will", "would", "should", "could", "can", "may", "might", "must",
	"do", "does", "did", "not", "no", "into", "about", "over", "after",
	"before", "during", "between", "which", "what", "when", "where",
	"why", "how", "i", "you", "he", "she", "them", "us", "there", "here",
)

func buildSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// verbBases is a small, fixed set of base forms for the action verbs likely
// to appear in an operational problem statement. isActionVerb matches a
// token after stripping the common "-ing"/"-ed"/"-es"/"-s" suffixes, so
// "failing", "failed" and "fails" all resolve to "fail".
var verbBases = buildSet(
	"investigate", "analyze", "optimize", "reduce", "increase", "decrease",
	"migrate", "deploy", "fix", "resolve", "identify", "determine",
	"improve", "review", "debug", "monitor", "scale", "restart",
	"upgrade", "rollback", "test", "validate", "implement", "build",
	"design", "plan", "assess", "evaluate", "diagnose", "troubleshoot",
	"configure", "provision", "restore", "replicate", "throttle",
	"cache", "retry", "fail", "timeout", "crash", "degrade", "recover",
	"spike", "leak", "block", "queue", "process", "handle", "route",
)

func isActionVerb(tok string) bool {
	if verbBases[tok] {
		return true
	}
	for _, suffix := range []string{"ing", "ed", "es", "s"} {
		if !strings.HasSuffix(tok, suffix) || len(tok) <= len(suffix) {
			continue
		}
		stem := strings.TrimSuffix(tok, suffix)
		if verbBases[stem] {
			return true
		}
		// silent trailing 'e' dropped before the suffix, e.g.
		// "migrated" -> "migrat" -> "migrate".
		if verbBases[stem+"e"] {
			return true
		}
	}
	return false
}
