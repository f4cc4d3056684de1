package bibtex

import (
	"fmt"
	"strings"

	"github.com/citewise/citewise/core/errors"
)

// monthMacros are the three-letter month abbreviations every BibTeX style
// predefines.
var monthMacros = map[string]string{
	"jan": "January", "feb": "February", "mar": "March",
	"apr": "April", "may": "May", "jun": "June",
	"jul": "July", "aug": "August", "sep": "September",
	"oct": "October", "nov": "November", "dec": "December",
}

// scanner walks raw BibTeX bytes with an explicit cursor, tracking the
// current line for error reporting.
type scanner struct {
	data   []byte
	pos    int
	line   int
	path   string
	macros map[string]string
}

func newScanner(data []byte, path string, macros map[string]string) *scanner {
	return &scanner{data: data, line: 1, path: path, macros: macros}
}

func (s *scanner) errf(format string, args ...any) error {
	return errors.NewParseLine("BibTeX", s.path, s.line, fmt.Sprintf(format, args...))
}

// advanceTo moves the cursor forward to pos, counting line breaks on the
// way.
func (s *scanner) advanceTo(pos int) {
	if pos > len(s.data) {
		pos = len(s.data)
	}
	for i := s.pos; i < pos; i++ {
		if s.data[i] == '\n' {
			s.line++
		}
	}
	s.pos = pos
}

func (s *scanner) eof() bool { return s.pos >= len(s.data) }

func (s *scanner) peek() byte {
	if s.pos < len(s.data) {
		return s.data[s.pos]
	}
	return 0
}

func (s *scanner) skipSpace() {
	i := s.pos
	for i < len(s.data) && isSpace(s.data[i]) {
		i++
	}
	s.advanceTo(i)
}

// skipToAt advances to the next '@'. Anything between declarations is an
// implicit comment.
func (s *scanner) skipToAt() {
	i := s.pos
	for i < len(s.data) && s.data[i] != '@' {
		i++
	}
	s.advanceTo(i)
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// isIdentByte reports whether c may appear in an entry type, field name,
// or macro name. BibTeX allows any printable character that is not a
// delimiter.
func isIdentByte(c byte) bool {
	if c <= ' ' || c == 0x7f {
		return false
	}
	switch c {
	case '"', '#', '%', '\'', '(', ')', ',', '=', '{', '}', '@':
		return false
	}
	return true
}

// ident consumes a run of identifier bytes.
func (s *scanner) ident() string {
	i := s.pos
	for i < len(s.data) && isIdentByte(s.data[i]) {
		i++
	}
	id := string(s.data[s.pos:i])
	s.advanceTo(i)
	return id
}

// scan parses declarations until end of input and returns the entries in
// source order. @string, @preamble, and @comment declarations are consumed
// but produce no entry.
func (s *scanner) scan() ([]*Entry, error) {
	var entries []*Entry
	for {
		s.skipToAt()
		if s.eof() {
			return entries, nil
		}
		s.advanceTo(s.pos + 1)
		entry, err := s.declaration()
		if err != nil {
			return nil, err
		}
		if entry != nil {
			entries = append(entries, entry)
		}
	}
}

func (s *scanner) declaration() (*Entry, error) {
	s.skipSpace()
	name := s.ident()
	if name == "" {
		return nil, s.errf("missing declaration type after @")
	}
	switch typ := strings.ToLower(name); typ {
	case "comment":
		return nil, s.comment()
	case "preamble":
		return nil, s.preamble()
	case "string":
		return nil, s.stringDef()
	default:
		return s.entry(typ)
	}
}

// open consumes the delimiter that opens a declaration body and returns
// the byte that closes it. Both @entry{...} and @entry(...) are valid.
func (s *scanner) open() (byte, error) {
	s.skipSpace()
	switch s.peek() {
	case '{':
		s.advanceTo(s.pos + 1)
		return '}', nil
	case '(':
		s.advanceTo(s.pos + 1)
		return ')', nil
	}
	return 0, s.errf("expected '{' or '(' to open declaration body")
}

func (s *scanner) expect(c byte) error {
	s.skipSpace()
	if s.peek() != c {
		return s.errf("expected %q", string(c))
	}
	s.advanceTo(s.pos + 1)
	return nil
}

// comment consumes an @comment body. Braced comments are brace-balanced,
// parenthesized ones run to the first ')', bare ones to end of line.
func (s *scanner) comment() error {
	s.skipSpace()
	switch s.peek() {
	case '{':
		_, err := s.braced()
		return err
	case '(':
		i := s.pos + 1
		for i < len(s.data) && s.data[i] != ')' {
			i++
		}
		if i >= len(s.data) {
			return s.errf("unterminated comment")
		}
		s.advanceTo(i + 1)
		return nil
	}
	i := s.pos
	for i < len(s.data) && s.data[i] != '\n' {
		i++
	}
	s.advanceTo(i)
	return nil
}

// preamble consumes an @preamble declaration. The value is parsed for
// balance but otherwise discarded.
func (s *scanner) preamble() error {
	closer, err := s.open()
	if err != nil {
		return err
	}
	if _, err := s.value(); err != nil {
		return err
	}
	return s.expect(closer)
}

// stringDef parses an @string macro definition and records it.
func (s *scanner) stringDef() error {
	closer, err := s.open()
	if err != nil {
		return err
	}
	s.skipSpace()
	name := strings.ToLower(s.ident())
	if name == "" {
		return s.errf("missing macro name in @string")
	}
	if err := s.expect('='); err != nil {
		return err
	}
	val, err := s.value()
	if err != nil {
		return err
	}
	if err := s.expect(closer); err != nil {
		return err
	}
	s.macros[name] = val
	return nil
}

// entry parses a regular entry: key, then comma-separated name=value
// fields until the closing delimiter.
func (s *scanner) entry(typ string) (*Entry, error) {
	closer, err := s.open()
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	key := s.entryKey(closer)
	if key == "" {
		return nil, s.errf("missing entry key in @%s", typ)
	}
	e := &Entry{Type: typ, Key: key}
	for {
		s.skipSpace()
		switch {
		case s.eof():
			return nil, s.errf("unterminated @%s entry %q", typ, key)
		case s.peek() == closer:
			s.advanceTo(s.pos + 1)
			return e, nil
		case s.peek() == ',':
			s.advanceTo(s.pos + 1)
			continue
		}
		name := strings.ToLower(s.ident())
		if name == "" {
			return nil, s.errf("expected field name in @%s entry %q", typ, key)
		}
		if err := s.expect('='); err != nil {
			return nil, err
		}
		val, err := s.value()
		if err != nil {
			return nil, err
		}
		e.Set(name, val)
	}
}

// entryKey reads the citation key: everything up to a comma, whitespace,
// or the closing delimiter, verbatim.
func (s *scanner) entryKey(closer byte) string {
	i := s.pos
	for i < len(s.data) {
		c := s.data[i]
		if c == ',' || c == closer || isSpace(c) {
			break
		}
		i++
	}
	key := string(s.data[s.pos:i])
	s.advanceTo(i)
	return key
}

// value parses a field value: one or more parts joined by '#'. Each part
// is a braced group, a quoted string, a bare number, or a macro name.
func (s *scanner) value() (string, error) {
	var b strings.Builder
	for {
		s.skipSpace()
		if s.eof() {
			return "", s.errf("unexpected end of input in field value")
		}
		c := s.peek()
		switch {
		case c == '{':
			part, err := s.braced()
			if err != nil {
				return "", err
			}
			b.WriteString(part)
		case c == '"':
			part, err := s.quoted()
			if err != nil {
				return "", err
			}
			b.WriteString(part)
		case isDigit(c):
			b.WriteString(s.number())
		case isIdentByte(c):
			name := strings.ToLower(s.ident())
			val, ok := s.macros[name]
			if !ok {
				return "", s.errf("undefined macro %q", name)
			}
			b.WriteString(val)
		default:
			return "", s.errf("unexpected character %q in field value", string(c))
		}
		s.skipSpace()
		if s.peek() == '#' {
			s.advanceTo(s.pos + 1)
			continue
		}
		return b.String(), nil
	}
}

func (s *scanner) number() string {
	i := s.pos
	for i < len(s.data) && isDigit(s.data[i]) {
		i++
	}
	n := string(s.data[s.pos:i])
	s.advanceTo(i)
	return n
}

// braced consumes a brace-balanced group starting at '{' and returns the
// inner text verbatim, nested braces included.
func (s *scanner) braced() (string, error) {
	depth := 0
	start := s.pos + 1
	for i := s.pos; i < len(s.data); i++ {
		switch s.data[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				inner := string(s.data[start:i])
				s.advanceTo(i + 1)
				return inner, nil
			}
		}
	}
	return "", s.errf("unterminated brace group")
}

// quoted consumes a quote-delimited value. Braces nest inside, and a
// quote inside a brace group does not terminate the value.
func (s *scanner) quoted() (string, error) {
	depth := 0
	start := s.pos + 1
	for i := s.pos + 1; i < len(s.data); i++ {
		switch s.data[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				s.advanceTo(i)
				return "", s.errf("unbalanced braces in quoted value")
			}
		case '"':
			if depth == 0 {
				inner := string(s.data[start:i])
				s.advanceTo(i + 1)
				return inner, nil
			}
		}
	}
	return "", s.errf("unterminated quoted value")
}
