package bibtex

import (
	"bytes"
	"testing"
)

func TestEntryFieldOps(t *testing.T) {
	e := &Entry{Type: "article", Key: "smith2004"}
	e.Set("title", "On Things")
	e.Set("journal", "Nature")
	e.Set("year", "2004")

	if got, _ := e.Get("Journal"); got != "Nature" {
		t.Errorf("Get(Journal) = %q, want %q", got, "Nature")
	}
	if !e.Has("year") {
		t.Error("Has(year) = false, want true")
	}
	if e.Has("editor") {
		t.Error("Has(editor) = true, want false")
	}

	// Updating an existing field keeps its position.
	e.Set("TITLE", "On Other Things")
	fields := e.Fields()
	if fields[0].Name != "title" || fields[0].Value != "On Other Things" {
		t.Errorf("fields[0] = %+v, want updated title first", fields[0])
	}

	if !e.Delete("journal") {
		t.Error("Delete(journal) = false, want true")
	}
	if e.Delete("journal") {
		t.Error("Delete(journal) second call = true, want false")
	}
	if e.Has("journal") {
		t.Error("Has(journal) = true after Delete")
	}

	got := make([]string, 0, len(e.Fields()))
	for _, f := range e.Fields() {
		got = append(got, f.Name)
	}
	want := []string{"title", "year"}
	if len(got) != len(want) {
		t.Fatalf("field names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field names = %v, want %v", got, want)
			break
		}
	}
}

func TestEntryString(t *testing.T) {
	e := &Entry{Type: "article", Key: "knuth1984"}
	e.Set("title", "Literate Programming")
	e.Set("journal", "The Computer Journal")

	want := `@article{knuth1984,
  title = {Literate Programming},
  journal = {The Computer Journal},
}`
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDatabaseWrite(t *testing.T) {
	db, err := ParseString(`@misc{a, note = {one},} @misc{b, note = {two},}`, "refs.bib")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	var buf bytes.Buffer
	if err := db.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := "@misc{a,\n  note = {one},\n}\n\n@misc{b,\n  note = {two},\n}\n\n"
	if got := buf.String(); got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	src := `@InProceedings{  deng2009 ,
  author    = {Deng, Jia and others},
  booktitle = {2009 IEEE Conference on Computer Vision} # { and Pattern Recognition},
  title     = "ImageNet: A Large-Scale Hierarchical Image Database",
  year      = 2009,
}`
	db, err := ParseString(src, "refs.bib")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	e, ok := db.Get("deng2009")
	if !ok {
		t.Fatal("Get(deng2009) missing")
	}
	want := `@inproceedings{deng2009,
  author = {Deng, Jia and others},
  booktitle = {2009 IEEE Conference on Computer Vision and Pattern Recognition},
  title = {ImageNet: A Large-Scale Hierarchical Image Database},
  year = {2009},
}`
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
