// Package bibtex reads and writes BibTeX bibliography files.
//
// The parser is a hand-written byte scanner: BibTeX field values are
// brace-balanced rather than token-regular, so the format reads more
// naturally with an explicit cursor than through a grammar. Entries keep
// their field order so a parse-rewrite cycle stays reviewable in version
// control.
package bibtex

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/citewise/citewise/core/errors"
)

// Field is a single name/value pair on an entry. Names are stored
// lower-cased; values hold the text inside the outermost delimiters,
// verbatim.
type Field struct {
	Name  string
	Value string
}

// Entry is one BibTeX entry.
type Entry struct {
	Type string // entry type, lower-cased (e.g. "article")
	Key  string // citation key, exactly as written in the source

	fields []Field
}

// Get returns the value of the named field and whether it is present.
// Field names are case-insensitive.
func (e *Entry) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, f := range e.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether the named field is present.
func (e *Entry) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Set replaces the named field's value in place, or appends the field when
// it is not present yet.
func (e *Entry) Set(name, value string) {
	name = strings.ToLower(name)
	for i := range e.fields {
		if e.fields[i].Name == name {
			e.fields[i].Value = value
			return
		}
	}
	e.fields = append(e.fields, Field{Name: name, Value: value})
}

// Delete removes the named field, reporting whether it was present.
func (e *Entry) Delete(name string) bool {
	name = strings.ToLower(name)
	for i := range e.fields {
		if e.fields[i].Name == name {
			e.fields = append(e.fields[:i], e.fields[i+1:]...)
			return true
		}
	}
	return false
}

// Fields returns a copy of the entry's fields in source order.
func (e *Entry) Fields() []Field {
	out := make([]Field, len(e.fields))
	copy(out, e.fields)
	return out
}

// String serializes the entry with one field per line and every value
// wrapped in a single brace pair.
func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString("@")
	b.WriteString(e.Type)
	b.WriteString("{")
	b.WriteString(e.Key)
	b.WriteString(",\n")
	for _, f := range e.fields {
		b.WriteString("  ")
		b.WriteString(f.Name)
		b.WriteString(" = {")
		b.WriteString(f.Value)
		b.WriteString("},\n")
	}
	b.WriteString("}")
	return b.String()
}

// Database is an ordered collection of entries from one or more files.
type Database struct {
	Entries []*Entry

	keys   map[string]int
	macros map[string]string
	log    *slog.Logger
}

// NewDatabase returns an empty database with the standard month macros
// (jan..dec) predefined.
func NewDatabase() *Database {
	macros := make(map[string]string, len(monthMacros))
	for name, val := range monthMacros {
		macros[name] = val
	}
	return &Database{
		keys:   make(map[string]int),
		macros: macros,
		log:    slog.Default(),
	}
}

// Get returns the entry with the given citation key.
func (db *Database) Get(key string) (*Entry, bool) {
	i, ok := db.keys[key]
	if !ok {
		return nil, false
	}
	return db.Entries[i], true
}

// Parse reads BibTeX declarations from r and appends the entries to the
// database. Macros defined in earlier files stay visible in later ones.
// On a parse error nothing from r is added.
func (db *Database) Parse(r io.Reader, path string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.NewIO("read", path, err)
	}
	sc := newScanner(data, path, db.macros)
	entries, err := sc.scan()
	if err != nil {
		return err
	}
	for _, e := range entries {
		db.add(e, path)
	}
	return nil
}

// ParseString parses src as a complete BibTeX file into a new database.
func ParseString(src, path string) (*Database, error) {
	db := NewDatabase()
	if err := db.Parse(strings.NewReader(src), path); err != nil {
		return nil, err
	}
	return db, nil
}

// add appends e, replacing any earlier entry with the same key in place.
func (db *Database) add(e *Entry, path string) {
	if i, ok := db.keys[e.Key]; ok {
		db.log.Warn("duplicate entry key, keeping last occurrence", "key", e.Key, "path", path)
		db.Entries[i] = e
		return
	}
	db.keys[e.Key] = len(db.Entries)
	db.Entries = append(db.Entries, e)
}

// Write serializes every entry to w, each followed by a blank line.
func (db *Database) Write(w io.Writer) error {
	for _, e := range db.Entries {
		if _, err := fmt.Fprintf(w, "%s\n\n", e); err != nil {
			return err
		}
	}
	return nil
}
