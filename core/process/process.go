// Package process runs the citewise pipeline over a parsed BibTeX
// database: it prunes noise fields, rewrites venue titles through the
// normalization pipelines, and reports every change as a colorized
// before/after diff.
package process

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/citewise/citewise/core/bibtex"
	"github.com/citewise/citewise/core/ltwa"
	"github.com/citewise/citewise/core/normalize"
	"github.com/citewise/citewise/core/tex"
	"github.com/citewise/citewise/internal/ui"
)

// The LTWA engine is the abbreviator the pipelines run against.
var _ normalize.Abbreviator = (*ltwa.Engine)(nil)

// pruneAlways lists the fields dropped from every entry regardless of
// type. Empty-valued fields are dropped on top of these.
var pruneAlways = []string{
	"shorttitle", "abstract", "pages", "keywords", "copyright", "note",
	"langid", "language", "urldate", "timestamp", "file", "groups",
}

// Extra fields dropped per entry type.
var (
	pruneArticle = []string{"editor", "publisher"}

	pruneInproceedings = []string{
		"editor", "publisher", "address", "series",
		"booktitleaddon", "eventtitle", "volume",
	}
)

// defaultReportType fills in for technical reports that carry no type
// field of their own.
const defaultReportType = "Technical Report"

// Processor rewrites BibTeX entries in place.
type Processor struct {
	engine  normalize.Abbreviator
	opts    normalize.Options
	palette *ui.Palette
	out     io.Writer
	quiet   bool
	log     *slog.Logger
}

// New returns a Processor that normalizes titles through engine under
// opts and prints change reports to out unless quiet is set.
func New(engine normalize.Abbreviator, opts normalize.Options, palette *ui.Palette, out io.Writer, quiet bool) *Processor {
	return &Processor{
		engine:  engine,
		opts:    opts,
		palette: palette,
		out:     out,
		quiet:   quiet,
		log:     slog.Default(),
	}
}

// Database processes every entry of db in order.
func (p *Processor) Database(db *bibtex.Database) {
	for _, ent := range db.Entries {
		p.Entry(ent)
	}
}

// Entry prunes ent and, depending on its type, normalizes the venue
// title. Entry types without a title-bearing field are left alone after
// pruning.
func (p *Processor) Entry(ent *bibtex.Entry) {
	pruneFields(ent, pruneAlways)
	for _, f := range ent.Fields() {
		if f.Value == "" {
			ent.Delete(f.Name)
		}
	}

	switch ent.Type {
	case "techreport":
		p.techreport(ent)
	case "article":
		p.article(ent)
	case "inproceedings":
		p.inproceedings(ent)
	}
}

// techreport rewrites the type field, defaulting it when absent. The
// value is kept brace-protected so BibTeX styles leave its casing alone.
func (p *Processor) techreport(ent *bibtex.Entry) {
	typ := defaultReportType
	if raw, ok := ent.Get("type"); ok {
		typ = tex.ToUnicode(raw)
	}
	normalized := normalize.Journal(typ, p.engine, p.opts.Abbreviate)
	ent.Set("type", "{"+normalized+"}")
	p.report(typ, normalized)
}

func (p *Processor) article(ent *bibtex.Entry) {
	pruneFields(ent, pruneArticle)

	raw, ok := ent.Get("journal")
	if !ok {
		p.log.Warn("article entry has no journal field", "key", ent.Key)
		return
	}
	journal := tex.ToUnicode(raw)
	normalized := normalize.Journal(journal, p.engine, p.opts.Abbreviate)
	ent.Set("journal", normalized)

	// Preprints reference their archive through the eprint fields; the
	// journal field is redundant noise on those entries.
	if ent.Has("eprint") && ent.Has("eprinttype") && ent.Has("primaryclass") {
		ent.Delete("journal")
	}

	p.report(journal, normalized)
}

// inproceedings rewrites the booktitle, brace-protected like techreport
// types.
func (p *Processor) inproceedings(ent *bibtex.Entry) {
	pruneFields(ent, pruneInproceedings)

	raw, ok := ent.Get("booktitle")
	if !ok {
		p.log.Warn("inproceedings entry has no booktitle field", "key", ent.Key)
		return
	}
	booktitle := tex.ToUnicode(raw)
	normalized := normalize.Conference(booktitle, p.engine, p.opts)
	ent.Set("booktitle", "{"+normalized+"}")
	p.report(booktitle, normalized)
}

// report prints an old -> new line for a changed title.
func (p *Processor) report(old, new string) {
	if p.quiet || old == new {
		return
	}
	oldC, newC := p.palette.Diff(old, new)
	fmt.Fprintf(p.out, "%s -> %s\n", oldC, newC)
}

func pruneFields(ent *bibtex.Entry, names []string) {
	for _, name := range names {
		ent.Delete(name)
	}
}
