// Package normalize rewrites journal and conference titles into a
// consistent, optionally abbreviated canonical form.
//
// Both normalizers are ordered pipelines of pure text-rewrite stages.
// Stage order is fixed: later stages assume earlier cleanup (title-casing
// runs before ordinal stripping, the proceedings policy runs after
// trailing acronyms are gone). Options only gate individual stages, never
// reorder them. Neither normalizer is idempotent: re-running one on its
// own output may prepend a second "Proceedings of the" or re-abbreviate
// words, so results are single-pass by contract.
package normalize

// Abbreviator turns a full title phrase into its abbreviated form. The
// contract is loose: zero or more words may be replaced by the word plus
// a trailing period, word order is preserved, and the engine may be
// case-sensitive.
type Abbreviator interface {
	Abbreviate(phrase string) string
}

// Policy controls how the conference normalizer treats the word
// "Proceedings".
type Policy int

const (
	// PolicyEnforce prepends "Proceedings of the " unless "Proceedings"
	// is already present as a whole word.
	PolicyEnforce Policy = iota
	// PolicyRemove strips "Proceedings", optionally followed by
	// "of the", wherever it occurs.
	PolicyRemove
	// PolicyIgnore leaves the title alone.
	PolicyIgnore
)

func (p Policy) String() string {
	switch p {
	case PolicyRemove:
		return "remove"
	case PolicyIgnore:
		return "ignore"
	default:
		return "enforce"
	}
}

// Options configures one normalization call. The zero value abbreviates
// nothing, enforces "Proceedings", and keeps ordinals and "Annual".
type Options struct {
	// Abbreviate applies the abbreviation engine to the cleaned title.
	Abbreviate bool
	// Proceedings selects the proceedings policy for conference titles.
	Proceedings Policy
	// StripOrdinals removes ordering words such as "4th" or "Twenty-Sixth".
	StripOrdinals bool
	// StripAnnual removes the word "Annual".
	StripAnnual bool
}
