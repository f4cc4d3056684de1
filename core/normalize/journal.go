package normalize

import (
	"regexp"
	"strings"
)

// journalExceptions lists substrings that identify titles which are never
// rewritten: preprint servers and aggregator series keep their exact
// names.
var journalExceptions = []string{"arXiv", "PapersOnLine"}

// listPunctuation matches separators that break word-boundary matching
// inside the abbreviation engine.
var listPunctuation = regexp.MustCompile(`[,;:]`)

// Journal normalizes a journal title. Titles on the exception list come
// back unchanged regardless of abbreviate. With abbreviate false the
// title passes through untouched; otherwise it goes through the engine
// and the over-abbreviation correction. engine may be nil only when
// abbreviate is false.
func Journal(title string, engine Abbreviator, abbreviate bool) string {
	for _, name := range journalExceptions {
		if strings.Contains(title, name) {
			return title
		}
	}
	if !abbreviate {
		return title
	}
	return applyAbbreviation(title, engine)
}

// applyAbbreviation strips list punctuation, feeds the result to the
// engine with a trailing space, and reverts every word the engine rewrote
// to itself plus a period. The revert pass compares against the
// pre-abbreviation word list, so words genuinely abbreviated by the
// engine keep their periods.
func applyAbbreviation(title string, engine Abbreviator) string {
	stripped := listPunctuation.ReplaceAllString(title, "")
	result := engine.Abbreviate(stripped + " ")

	words := make(map[string]bool)
	for _, w := range strings.Fields(result) {
		words[w] = true
	}
	for _, w := range strings.Fields(stripped) {
		if bad := w + "."; words[bad] {
			result = strings.ReplaceAll(result, bad, w)
		}
	}
	return result
}

// containsWord reports whether word appears in s as a whole
// whitespace-delimited word. The comparison is case-sensitive.
func containsWord(s, word string) bool {
	for _, w := range strings.Fields(s) {
		if w == word {
			return true
		}
	}
	return false
}
