package normalize

import (
	"strings"
	"testing"
)

// engineFunc adapts a function to the Abbreviator interface.
type engineFunc func(string) string

func (f engineFunc) Abbreviate(phrase string) string { return f(phrase) }

// tableEngine abbreviates from a fixed lower-cased word table, mimicking
// the word-plus-period output of a real engine. Unknown words pass
// through.
type tableEngine map[string]string

func (t tableEngine) Abbreviate(phrase string) string {
	words := strings.Fields(phrase)
	out := make([]string, len(words))
	for i, w := range words {
		if a, ok := t[strings.ToLower(w)]; ok {
			out[i] = a
		} else {
			out[i] = w
		}
	}
	return strings.Join(out, " ")
}

func TestJournalExceptionBypass(t *testing.T) {
	engine := engineFunc(func(string) string {
		t.Fatal("engine called for an exception title")
		return ""
	})
	tests := []string{
		"arXiv preprint arXiv:2001.00001",
		"IFAC-PapersOnLine",
	}
	for _, title := range tests {
		if got := Journal(title, engine, true); got != title {
			t.Errorf("Journal(%q) = %q, want unchanged", title, got)
		}
	}
}

func TestJournalNoAbbreviation(t *testing.T) {
	engine := engineFunc(func(string) string {
		t.Fatal("engine called with abbreviation disabled")
		return ""
	})
	title := "Journal of Fancy Things, Part B"
	if got := Journal(title, engine, false); got != title {
		t.Errorf("Journal(%q) = %q, want unchanged", title, got)
	}
}

func TestJournalEngineInput(t *testing.T) {
	var got string
	engine := engineFunc(func(phrase string) string {
		got = phrase
		return phrase
	})
	Journal("Journal of Fancy Things, Part B: Applications", engine, true)
	want := "Journal of Fancy Things Part B Applications "
	if got != want {
		t.Errorf("engine received %q, want %q", got, want)
	}
}

func TestJournalAbbreviation(t *testing.T) {
	engine := tableEngine{
		"journal":  "J.",
		"machine":  "Mach.",
		"learning": "Learn.",
		"research": "Res.",
	}
	got := Journal("Journal of Machine Learning Research", engine, true)
	want := "J. of Mach. Learn. Res."
	if got != want {
		t.Errorf("Journal() = %q, want %q", got, want)
	}
}

func TestJournalOverAbbreviationCorrection(t *testing.T) {
	engine := tableEngine{
		"journal": "J.",
		"process": "Process.",
		"control": "Control.",
	}
	got := Journal("Journal of Process Control", engine, true)
	want := "J. of Process Control"
	if got != want {
		t.Errorf("Journal() = %q, want %q", got, want)
	}
}

func TestJournalEmpty(t *testing.T) {
	engine := engineFunc(func(phrase string) string { return strings.TrimSpace(phrase) })
	if got := Journal("", engine, true); got != "" {
		t.Errorf("Journal(%q) = %q, want %q", "", got, "")
	}
}
