package ltwa

import (
	"compress/gzip"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/citewise/citewise/core/errors"
	"github.com/ulikunitz/xz"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestAbbreviate(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"journal", "Journal of Machine Learning Research", "J. Mach. Learn. Res."},
		{"conference", "Proceedings of the International Conference on Networks", "Proc. Int. Conf. Netw."},
		{"unknown word kept", "IEEE Transactions on Information Theory", "IEEE Trans. Inf. Theory"},
		{"word with period form", "Journal of Process Control", "J. Process. Control"},
		{"single word", "Nature", "Nature"},
		{"single abbreviatable word", "Physics", "Physics"},
		{"partial coverage", "Computing Surveys", "Comput. Surveys"},
		{"suffix rule", "Musicology Quarterly", "Musicol. Q."},
		{"prefix rule", "Networking Letters", "Netw. Lett."},
		{"prefix rule stem", "Academy of Management Review", "Acad. Manag. Rev."},
		{"german stopword", "Zeitschrift für Physik", "Z. Phys."},
		{"acronym untouched", "Communications of the ACM", "Commun. ACM"},
		{"all caps shape", "NETWORKS AND SYSTEMS", "NETW. SYST."},
		{"longer title", "Annual Review of Astronomy and Astrophysics", "Annu. Rev. Astron. Astrophys."},
		{"only stopwords", "Of the And", "Of the And"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Abbreviate(tt.in); got != tt.want {
				t.Errorf("Abbreviate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAbbreviatePinnedWords(t *testing.T) {
	e := newEngine(t)
	got := e.Abbreviate("Workshop on Quantum Control")
	want := "Workshop Quantum Control"
	if got != want {
		t.Errorf("Abbreviate() = %q, want %q", got, want)
	}
}

func TestRules(t *testing.T) {
	e := newEngine(t)
	if n := e.Rules(); n < 100 {
		t.Errorf("Rules() = %d, want at least 100", n)
	}
}

const customTable = "frobnication\tfrobn.\teng\nwidget\tn.a.\teng\n"

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tsv")
	if err := os.WriteFile(path, []byte(customTable), 0644); err != nil {
		t.Fatal(err)
	}
	e, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	got := e.Abbreviate("Frobnication of Widget Letters")
	want := "Frobn. Widget Letters"
	if got != want {
		t.Errorf("Abbreviate() = %q, want %q", got, want)
	}
}

func TestNewFromFileXZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tsv.xz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := xz.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(customTable)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	e, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	if got := e.Abbreviate("Frobnication Quarterly"); got != "Frobn. Quarterly" {
		t.Errorf("Abbreviate() = %q, want %q", got, "Frobn. Quarterly")
	}
}

func TestNewFromFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tsv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := gzip.NewWriter(f)
	if _, err := w.Write([]byte(customTable)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	e, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	if got := e.Abbreviate("Frobnication Quarterly"); got != "Frobn. Quarterly" {
		t.Errorf("Abbreviate() = %q, want %q", got, "Frobn. Quarterly")
	}
}

func TestNewFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tsv")
	src := "journal\tj.\teng\nonlyonecolumn\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFromFile(path)
	if err == nil {
		t.Fatal("NewFromFile() error = nil, want parse error")
	}
	var perr *errors.ParseError
	if !stderrors.As(err, &perr) {
		t.Fatalf("error %v is not a ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.tsv"))
	if err == nil {
		t.Fatal("NewFromFile() error = nil, want IO error")
	}
	var ioerr *errors.IOError
	if !stderrors.As(err, &ioerr) {
		t.Errorf("error %v is not an IOError", err)
	}
}
