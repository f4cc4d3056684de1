// Package diff aligns two strings character by character and classifies
// each span of the alignment for display.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Op classifies one aligned span.
type Op int

const (
	// OpEqual covers text present in both strings.
	OpEqual Op = iota
	// OpInsert covers text present only in the new string.
	OpInsert
	// OpDelete covers text present only in the old string.
	OpDelete
	// OpReplaceMinor covers spans that differ only in letter case.
	OpReplaceMinor
	// OpReplaceMajor covers spans that differ beyond letter case.
	OpReplaceMajor
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplaceMinor:
		return "replace-minor"
	case OpReplaceMajor:
		return "replace-major"
	}
	return "unknown"
}

// Segment is one span of the alignment. Old is empty for inserts and New
// is empty for deletes. Concatenating every Old reproduces the old
// string exactly, and likewise for New.
type Segment struct {
	Op  Op
	Old string
	New string
}

// Segments aligns old and new rune by rune and returns the classified
// spans in order. Every character is significant: no junk heuristic is
// applied.
func Segments(old, new string) []Segment {
	a := strings.Split(old, "")
	b := strings.Split(new, "")
	m := difflib.NewMatcherWithJunk(a, b, false, nil)

	var segs []Segment
	for _, op := range m.GetOpCodes() {
		oldSpan := strings.Join(a[op.I1:op.I2], "")
		newSpan := strings.Join(b[op.J1:op.J2], "")
		switch op.Tag {
		case 'e':
			segs = append(segs, Segment{OpEqual, oldSpan, newSpan})
		case 'i':
			segs = append(segs, Segment{OpInsert, "", newSpan})
		case 'd':
			segs = append(segs, Segment{OpDelete, oldSpan, ""})
		case 'r':
			kind := OpReplaceMajor
			if strings.ToLower(oldSpan) == strings.ToLower(newSpan) {
				kind = OpReplaceMinor
			}
			segs = append(segs, Segment{kind, oldSpan, newSpan})
		}
	}
	return segs
}
