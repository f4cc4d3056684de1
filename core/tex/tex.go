// Package tex converts TeX-encoded text to plain Unicode.
//
// BibTeX files written by reference managers carry accents and special
// characters as TeX control sequences ({\"o}, \'{e}, \ss) and protect
// capitalization with brace groups. ToUnicode resolves the sequences this
// package knows about, drops the grouping braces, and leaves everything it
// does not recognize untouched.
package tex

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/text/unicode/norm"
)

// texLexer tokenizes TeX source. Rules are tried in order: multi-letter
// control words before single-character control symbols, braces before
// plain text.
var texLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Command", Pattern: `\\[a-zA-Z]+`},
	{Name: "Escape", Pattern: `\\[^a-zA-Z]`},
	{Name: "Open", Pattern: `\{`},
	{Name: "Close", Pattern: `\}`},
	{Name: "Text", Pattern: `[^\\{}]+`},
})

var (
	texSymbols = texLexer.Symbols()
	symCommand = texSymbols["Command"]
	symEscape  = texSymbols["Escape"]
	symOpen    = texSymbols["Open"]
	symClose   = texSymbols["Close"]
	symText    = texSymbols["Text"]
)

// accentEscapes maps control-symbol accents to combining marks.
var accentEscapes = map[string]rune{
	"'": 0x0301, // acute
	"`": 0x0300, // grave
	`"`: 0x0308, // diaeresis
	"^": 0x0302, // circumflex
	"~": 0x0303, // tilde
	"=": 0x0304, // macron
	".": 0x0307, // dot above
}

// accentCommands maps control-word accents to combining marks.
var accentCommands = map[string]rune{
	"u": 0x0306, // breve
	"v": 0x030C, // caron
	"H": 0x030B, // double acute
	"c": 0x0327, // cedilla
	"k": 0x0328, // ogonek
	"r": 0x030A, // ring above
	"b": 0x0331, // macron below
	"d": 0x0323, // dot below
	"t": 0x0361, // tie
}

// symbolCommands maps control words to their expansion.
var symbolCommands = map[string]string{
	"ss": "ß", "SS": "SS",
	"ae": "æ", "AE": "Æ",
	"oe": "œ", "OE": "Œ",
	"aa": "å", "AA": "Å",
	"o": "ø", "O": "Ø",
	"l": "ł", "L": "Ł",
	"i": "ı", "j": "ȷ",
	"dh": "ð", "DH": "Ð",
	"th": "þ", "TH": "Þ",
	"ng": "ŋ", "NG": "Ŋ",
	"dag": "†", "ddag": "‡",
	"S": "§", "P": "¶",
	"copyright": "©", "pounds": "£",
	"textendash": "–", "textemdash": "—",
	"textquoteleft": "‘", "textquoteright": "’",
	"textquotedblleft": "“", "textquotedblright": "”",
	"ldots": "…", "dots": "…",
}

// droppedCommands are font and layout switches that expand to nothing.
var droppedCommands = map[string]struct{}{
	"em": {}, "it": {}, "bf": {}, "sc": {}, "sf": {}, "tt": {}, "rm": {},
	"textit": {}, "textbf": {}, "textsc": {}, "textsf": {}, "texttt": {},
	"textrm": {}, "textup": {}, "textmd": {}, "textnormal": {},
	"emph": {}, "mbox": {}, "hbox": {}, "relax": {},
}

// escapeSymbols maps control symbols to their expansion.
var escapeSymbols = map[string]string{
	"&": "&", "%": "%", "$": "$", "#": "#", "_": "_",
	"{": "{", "}": "}",
	",":  " ",
	"-":  "",
	"\\": " ",
	" ":  " ",
	"\t": " ",
	"\n": " ",
}

// ligatures rewrites TeX input conventions inside plain text runs. Longer
// patterns are listed first so they win over their prefixes.
var ligatures = strings.NewReplacer(
	"---", "—",
	"--", "–",
	"``", "“",
	"''", "”",
	"~", " ",
)

// ToUnicode converts TeX-encoded text to Unicode. It is total: input that
// does not tokenize (for example a trailing lone backslash) is returned
// unchanged, and unrecognized control words are kept verbatim.
func ToUnicode(s string) string {
	if !strings.ContainsAny(s, `\{}~`) && !strings.Contains(s, "--") &&
		!strings.Contains(s, "``") && !strings.Contains(s, "''") {
		return s
	}

	lex, err := texLexer.LexString("", s)
	if err != nil {
		return s
	}
	var toks []lexer.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return s
		}
		if tok.EOF() {
			break
		}
		toks = append(toks, tok)
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(toks); {
		i = decodeOne(&b, toks, i)
	}
	return norm.NFC.String(b.String())
}

// decodeOne decodes the token at i into b and returns the index of the next
// undecoded token.
func decodeOne(b *strings.Builder, toks []lexer.Token, i int) int {
	tok := toks[i]
	switch tok.Type {
	case symOpen, symClose:
		// Grouping braces carry no content.
		return i + 1

	case symText:
		b.WriteString(ligatures.Replace(tok.Value))
		return i + 1

	case symCommand:
		name := tok.Value[1:]
		if mark, ok := accentCommands[name]; ok {
			return applyAccent(b, toks, i+1, mark, true)
		}
		if repl, ok := symbolCommands[name]; ok {
			b.WriteString(repl)
			return absorbSpace(b, toks, i+1)
		}
		if _, ok := droppedCommands[name]; ok {
			return absorbSpace(b, toks, i+1)
		}
		b.WriteString(tok.Value)
		return i + 1

	case symEscape:
		c := tok.Value[1:]
		if mark, ok := accentEscapes[c]; ok {
			return applyAccent(b, toks, i+1, mark, false)
		}
		if repl, ok := escapeSymbols[c]; ok {
			b.WriteString(repl)
			return i + 1
		}
		b.WriteString(tok.Value)
		return i + 1
	}
	return i + 1
}

// applyAccent decodes the accent argument starting at i, attaches the
// combining mark after its first rune, and writes the NFC composition.
// Control-word accents (\c, \v, ...) absorb whitespace before their
// argument the way TeX delimits control words.
func applyAccent(b *strings.Builder, toks []lexer.Token, i int, mark rune, word bool) int {
	if word {
		for i < len(toks) && toks[i].Type == symText {
			trimmed := strings.TrimLeft(toks[i].Value, " \t\r\n")
			if trimmed != "" {
				toks[i].Value = trimmed
				break
			}
			i++
		}
	}
	if i >= len(toks) {
		return i
	}

	var arg strings.Builder
	var next int
	if toks[i].Type == symOpen {
		end := matchingClose(toks, i)
		for j := i + 1; j < end; {
			j = decodeOne(&arg, toks, j)
		}
		next = end + 1
		if next > len(toks) {
			next = len(toks)
		}
	} else if toks[i].Type == symText {
		r := []rune(ligatures.Replace(toks[i].Value))
		arg.WriteRune(r[0])
		b.WriteString(norm.NFC.String(arg.String() + string(mark)))
		b.WriteString(string(r[1:]))
		return i + 1
	} else {
		next = decodeOne(&arg, toks, i)
	}

	decoded := arg.String()
	if decoded == "" {
		return next
	}
	runes := []rune(decoded)
	b.WriteString(norm.NFC.String(string(runes[0]) + string(mark)))
	b.WriteString(string(runes[1:]))
	return next
}

// matchingClose returns the index of the Close token balancing the Open
// token at i, or len(toks) when the group never closes.
func matchingClose(toks []lexer.Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].Type {
		case symOpen:
			depth++
		case symClose:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(toks)
}

// absorbSpace drops the whitespace that delimits a control word from the
// text after it.
func absorbSpace(b *strings.Builder, toks []lexer.Token, i int) int {
	if i < len(toks) && toks[i].Type == symText {
		b.WriteString(ligatures.Replace(strings.TrimLeft(toks[i].Value, " \t\r\n")))
		return i + 1
	}
	return i
}
