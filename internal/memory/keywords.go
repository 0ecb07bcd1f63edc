package memory

import (
	"regexp"
	"strings"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true,
	"and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "through": true, "during": true, "before": true, "after": true,
	"is": true, "am": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "should": true, "could": true,
	"i": true, "me": true, "my": true, "we": true, "our": true,
	"you": true, "your": true, "he": true, "him": true, "his": true,
	"she": true, "her": true, "it": true, "its": true, "they": true, "them": true, "their": true,
	"this": true, "that": true, "these": true, "those": true,
	"as": true, "if": true, "how": true, "than": true, "too": true, "very": true, "can": true, "just": true, "also": true,
}

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)

// ExtractKeywords derives unique, stop-word-filtered lowercase tokens from
// content, for populating a remembered Memory's MemoryMetadata.Keywords.
func ExtractKeywords(content string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(content), "")
	words := strings.Fields(cleaned)

	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if stopWords[w] || len(w) <= 2 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
