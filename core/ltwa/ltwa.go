// Package ltwa abbreviates bibliographic titles following ISO 4, backed
// by an excerpt of the ISSN List of Title Word Abbreviations.
//
// Rules come in three shapes: exact words ("journal"), prefixes marked
// with a trailing dash ("network-"), and suffixes marked with a leading
// dash ("-ology"). An abbreviation of "n.a." pins a word to its full
// form. Matching prefers exact rules, then the longest prefix, then the
// longest suffix. Stopwords are dropped, and single-word titles come
// back unchanged.
package ltwa

import (
	"bufio"
	"bytes"
	"compress/gzip"
	_ "embed"
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/citewise/citewise/core/errors"
	"github.com/ulikunitz/xz"
)

//go:embed data/ltwa.tsv.xz
var embeddedTable []byte

//go:embed data/stopwords.txt
var embeddedStopwords string

// keepFull marks table rows whose word is never abbreviated.
const keepFull = "n.a."

// affix is a prefix or suffix rule with the dash already stripped.
type affix struct {
	pattern string
	abbrev  string
}

// Engine abbreviates title phrases word by word.
type Engine struct {
	exact    map[string]string // "" means keep the word in full
	prefixes []affix           // longest pattern first
	suffixes []affix           // longest pattern first
	stop     map[string]bool
}

// New returns an engine backed by the embedded LTWA excerpt.
func New() (*Engine, error) {
	r, err := xz.NewReader(bytes.NewReader(embeddedTable))
	if err != nil {
		return nil, errors.Wrap(err, "read embedded LTWA table")
	}
	return build(r, "embedded")
}

// NewFromFile returns an engine backed by an LTWA table on disk. The
// table may be plain TSV or compressed with xz or gzip; the format is
// detected from the leading magic bytes.
func NewFromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	var r io.Reader
	switch {
	case len(data) >= 6 && bytes.Equal(data[:6], []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}):
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "read xz table %s", path)
		}
		r = xr
	case len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "read gzip table %s", path)
		}
		defer gr.Close()
		r = gr
	default:
		r = bytes.NewReader(data)
	}
	return build(r, path)
}

// build parses tab-separated rows (word, abbreviation, languages) into an
// engine. The languages column is informational and ignored.
func build(r io.Reader, path string) (*Engine, error) {
	e := &Engine{
		exact: make(map[string]string),
		stop:  make(map[string]bool),
	}
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParse("LTWA", path, err.Error())
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < 2 {
			return nil, errors.NewParseLine("LTWA", path, line, "want at least 2 tab-separated columns")
		}
		pattern := strings.ToLower(strings.TrimSpace(rec[0]))
		abbrev := strings.ToLower(strings.TrimSpace(rec[1]))
		if pattern == "" || pattern == "-" {
			return nil, errors.NewParseLine("LTWA", path, line, "empty word pattern")
		}
		if abbrev == keepFull {
			abbrev = ""
		}
		switch {
		case strings.HasSuffix(pattern, "-"):
			e.prefixes = append(e.prefixes, affix{strings.TrimSuffix(pattern, "-"), abbrev})
		case strings.HasPrefix(pattern, "-"):
			e.suffixes = append(e.suffixes, affix{strings.TrimPrefix(pattern, "-"), strings.TrimPrefix(abbrev, "-")})
		default:
			e.exact[pattern] = abbrev
		}
	}
	sort.SliceStable(e.prefixes, func(i, j int) bool {
		return len(e.prefixes[i].pattern) > len(e.prefixes[j].pattern)
	})
	sort.SliceStable(e.suffixes, func(i, j int) bool {
		return len(e.suffixes[i].pattern) > len(e.suffixes[j].pattern)
	})
	e.loadStopwords()
	return e, nil
}

func (e *Engine) loadStopwords() {
	sc := bufio.NewScanner(strings.NewReader(embeddedStopwords))
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		e.stop[strings.ToLower(w)] = true
	}
}

// Rules returns the number of abbreviation rules loaded.
func (e *Engine) Rules() int {
	return len(e.exact) + len(e.prefixes) + len(e.suffixes)
}

// Abbreviate rewrites phrase word by word. Single-word phrases come back
// unchanged, as do phrases consisting only of stopwords.
func (e *Engine) Abbreviate(phrase string) string {
	words := strings.Fields(phrase)
	if len(words) <= 1 {
		return phrase
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		lower := strings.ToLower(w)
		if e.stop[lower] {
			continue
		}
		abbrev, ok := e.lookup(lower)
		if !ok || abbrev == "" {
			out = append(out, w)
			continue
		}
		out = append(out, shapeCase(w, abbrev))
	}
	if len(out) == 0 {
		return phrase
	}
	return strings.Join(out, " ")
}

// lookup resolves the abbreviation for a lower-cased word. An empty
// result with ok true means the word stays in full.
func (e *Engine) lookup(w string) (string, bool) {
	if abbrev, ok := e.exact[w]; ok {
		return abbrev, true
	}
	for _, p := range e.prefixes {
		if strings.HasPrefix(w, p.pattern) {
			return p.abbrev, true
		}
	}
	for _, s := range e.suffixes {
		if len(w) > len(s.pattern) && strings.HasSuffix(w, s.pattern) {
			return w[:len(w)-len(s.pattern)] + s.abbrev, true
		}
	}
	return "", false
}

// shapeCase transfers the source word's casing onto the abbreviation:
// an all-caps word stays all-caps, a capitalized word capitalizes the
// result.
func shapeCase(src, abbrev string) string {
	letters := 0
	allUpper := true
	for _, r := range src {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				allUpper = false
			}
		}
	}
	if letters >= 2 && allUpper {
		return strings.ToUpper(abbrev)
	}
	if first, size := utf8.DecodeRuneInString(src); size > 0 && unicode.IsUpper(first) {
		fr, fsize := utf8.DecodeRuneInString(abbrev)
		if fsize > 0 {
			return string(unicode.ToUpper(fr)) + abbrev[fsize:]
		}
	}
	return abbrev
}
