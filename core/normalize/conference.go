package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// yearPrefix matches a leading block ending in a 2-4 digit number and
	// a dash or colon, e.g. "IEEE INFOCOM 2017 - ". Greedy, so the
	// longest such prefix wins.
	yearPrefix = regexp.MustCompile(`.*\s\d{2,4}\s?[:\-–—]\s+`)
	// embeddedYear matches a 4-digit year or apostrophe-prefixed 2-digit
	// year plus one trailing punctuation character, e.g. "2004." or "'17".
	embeddedYear = regexp.MustCompile(`(\d{4}|'\d{2})[.,;]?`)
	// trailingTag matches a trailing parenthesized group or a separator
	// followed by a single token, e.g. " (CDC)", ", AAMAS", " - WWW".
	trailingTag = regexp.MustCompile(`(\s+\(.+\)|[,;:\-–—]\s+\S+)\s*$`)
	// lowerRun matches a run of four or more lower-case ASCII letters.
	lowerRun = regexp.MustCompile(`[a-z]{4,}`)

	numOrdinal        = regexp.MustCompile(`(?i)\d+(st|nd|rd|th)\s+`)
	wordOrdinal       = regexp.MustCompile(`(?i)\S*(first|second|third|fourth|fifth|sixth|seventh|eight|ninth|tenth|tieth|dredth)\s+`)
	annualWord        = regexp.MustCompile(`(?i)(annual)\s+`)
	proceedingsPrefix = regexp.MustCompile(`(?i)(proceedings)\s*(of the)?\s+`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// stage is one rewrite step of the conference pipeline. A nil gate means
// the stage always runs.
type stage struct {
	name  string
	gate  func(Options) bool
	apply func(string, Abbreviator, Options) string
}

// conferenceStages is the fixed pipeline. Order is load-bearing:
// title-casing must precede ordinal stripping, and the proceedings policy
// must run after trailing acronyms are gone so an acronym is never
// mistaken for a missing "Proceedings".
var conferenceStages = []stage{
	{"year prefix", nil, func(s string, _ Abbreviator, _ Options) string {
		return yearPrefix.ReplaceAllString(s, "")
	}},
	{"embedded years", nil, func(s string, _ Abbreviator, _ Options) string {
		return embeddedYear.ReplaceAllString(s, "")
	}},
	{"trailing acronym", nil, func(s string, _ Abbreviator, _ Options) string {
		return trailingTag.ReplaceAllString(s, "")
	}},
	{"title case", nil, func(s string, _ Abbreviator, _ Options) string {
		return titleCase(s)
	}},
	{"ordinals", func(o Options) bool { return o.StripOrdinals }, func(s string, _ Abbreviator, _ Options) string {
		return stripOrdinals(s)
	}},
	{"annual", func(o Options) bool { return o.StripAnnual }, func(s string, _ Abbreviator, _ Options) string {
		return annualWord.ReplaceAllString(s, "")
	}},
	{"proceedings policy", nil, func(s string, _ Abbreviator, o Options) string {
		return applyProceedings(s, o.Proceedings)
	}},
	{"abbreviation", func(o Options) bool { return o.Abbreviate }, func(s string, e Abbreviator, _ Options) string {
		return applyAbbreviation(s, e)
	}},
	{"whitespace collapse", nil, func(s string, _ Abbreviator, _ Options) string {
		return whitespaceRun.ReplaceAllString(s, " ")
	}},
}

// Conference normalizes a conference or proceedings title by folding it
// through the stage pipeline. engine may be nil only when
// opts.Abbreviate is false.
func Conference(title string, engine Abbreviator, opts Options) string {
	s := title
	for _, st := range conferenceStages {
		if st.gate != nil && !st.gate(opts) {
			continue
		}
		s = st.apply(s, engine, opts)
	}
	return s
}

// titleCase uppercases the first letter of every run of four or more
// lower-case ASCII letters that starts at a word boundary. Shorter words
// and already-capitalized words keep their shape, which preserves
// acronyms and particles like "of" and "the". The boundary check is
// rune-aware so an accented letter before the run counts as part of the
// word.
func titleCase(s string) string {
	var b strings.Builder
	last := 0
	for _, loc := range lowerRun.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(s[:start])
			if prev == '_' || unicode.IsLetter(prev) || unicode.IsDigit(prev) {
				continue
			}
		}
		b.WriteString(s[last:start])
		b.WriteByte(s[start] - 'a' + 'A')
		b.WriteString(s[start+1 : end])
		last = end
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// stripOrdinals removes numeral ordinals ("4th") when any are present,
// otherwise spelled-out ordinals ("Twenty-Sixth"). Exactly one of the two
// patterns is applied per call, never both.
func stripOrdinals(s string) string {
	if numOrdinal.MatchString(s) {
		return numOrdinal.ReplaceAllString(s, "")
	}
	return wordOrdinal.ReplaceAllString(s, "")
}

// applyProceedings applies the three-way proceedings policy. The enforce
// check requires "Proceedings" as an exact whole word, so removal is
// case-insensitive but enforcement is not.
func applyProceedings(s string, p Policy) string {
	switch p {
	case PolicyRemove:
		return proceedingsPrefix.ReplaceAllString(s, "")
	case PolicyIgnore:
		return s
	default:
		if containsWord(s, "Proceedings") {
			return s
		}
		return "Proceedings of the " + s
	}
}
