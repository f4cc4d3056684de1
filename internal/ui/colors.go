// Package ui renders role-based terminal styling for change reports.
//
// Styles are looked up by abstract role names ("text_success",
// "text_highlight") so the palette can be recolored from configuration
// without touching call sites. Color names follow the classic 16-color
// terminal convention: dark names map to plain ANSI colors, light names
// to the same colors in bold.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/citewise/citewise/core/diff"
	"github.com/citewise/citewise/core/errors"
	"github.com/muesli/termenv"
)

// Role names an abstract style slot in the palette.
type Role string

const (
	RoleSuccess        Role = "text_success"
	RoleWarning        Role = "text_warning"
	RoleError          Role = "text_error"
	RoleHighlight      Role = "text_highlight"
	RoleHighlightMinor Role = "text_highlight_minor"
	RoleActionDefault  Role = "action_default"
	RoleAction         Role = "action"
)

// defaultColors is the stock palette, overridable per role from
// configuration.
var defaultColors = map[Role]string{
	RoleSuccess:        "green",
	RoleWarning:        "yellow",
	RoleError:          "red",
	RoleHighlight:      "red",
	RoleHighlightMinor: "lightgray",
	RoleActionDefault:  "turquoise",
	RoleAction:         "blue",
}

// darkColors map to plain ANSI foreground colors.
var darkColors = map[string]int{
	"black":       0,
	"darkred":     1,
	"darkgreen":   2,
	"brown":       3,
	"darkyellow":  3,
	"darkblue":    4,
	"purple":      5,
	"darkmagenta": 5,
	"teal":        6,
	"darkcyan":    6,
	"lightgray":   7,
}

// lightColors map to bold ANSI foreground colors.
var lightColors = map[string]int{
	"darkgray":  0,
	"red":       1,
	"green":     2,
	"yellow":    3,
	"blue":      4,
	"fuchsia":   5,
	"magenta":   5,
	"turquoise": 6,
	"cyan":      6,
	"white":     7,
}

// Palette maps style roles to terminal styles. Construct one per process
// and share it; rendering is read-only.
type Palette struct {
	enabled bool
	styles  map[Role]lipgloss.Style
}

// NewPalette builds a palette for w. colors overrides default role
// colors by role name; unknown keys are ignored, but a known role naming
// a color outside the 16-color tables is a ValidationError. With enabled
// false every render is the identity.
func NewPalette(w io.Writer, colors map[string]string, enabled bool) (*Palette, error) {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI))
	p := &Palette{
		enabled: enabled,
		styles:  make(map[Role]lipgloss.Style, len(defaultColors)),
	}
	for role, name := range defaultColors {
		if override, ok := colors[string(role)]; ok {
			name = override
		}
		idx, bold, ok := lookupColor(name)
		if !ok {
			return nil, errors.NewValidation("ui.colors."+string(role), fmt.Sprintf("no such color %q", name))
		}
		style := renderer.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(idx)))
		if bold {
			style = style.Bold(true)
		}
		p.styles[role] = style
	}
	return p, nil
}

func lookupColor(name string) (idx int, bold, ok bool) {
	if n, found := darkColors[name]; found {
		return n, false, true
	}
	if n, found := lightColors[name]; found {
		return n, true, true
	}
	return 0, false, false
}

// Render styles text for the given role. An unknown role is a caller
// defect and panics.
func (p *Palette) Render(role Role, text string) string {
	style, ok := p.styles[role]
	if !ok {
		panic(fmt.Sprintf("ui: unknown style role %q", role))
	}
	if !p.enabled {
		return text
	}
	return style.Render(text)
}

// Diff returns old and new with their differences styled. Insertions get
// the success style, deletions the highlight style, and replacements the
// highlight style unless they only change letter case, which gets the
// minor style. The new side of a replacement is always styled as
// success. With styling disabled both strings pass through unchanged.
func (p *Palette) Diff(old, new string) (string, string) {
	if !p.enabled {
		return old, new
	}
	var oldOut, newOut strings.Builder
	for _, seg := range diff.Segments(old, new) {
		switch seg.Op {
		case diff.OpEqual:
			oldOut.WriteString(seg.Old)
			newOut.WriteString(seg.New)
		case diff.OpInsert:
			newOut.WriteString(p.Render(RoleSuccess, seg.New))
		case diff.OpDelete:
			oldOut.WriteString(p.Render(RoleHighlight, seg.Old))
		case diff.OpReplaceMinor:
			oldOut.WriteString(p.Render(RoleHighlightMinor, seg.Old))
			newOut.WriteString(p.Render(RoleSuccess, seg.New))
		case diff.OpReplaceMajor:
			oldOut.WriteString(p.Render(RoleHighlight, seg.Old))
			newOut.WriteString(p.Render(RoleSuccess, seg.New))
		}
	}
	return oldOut.String(), newOut.String()
}

// DiffValues stringifies two values and styles them wholesale: equal
// values pass through, unequal ones are highlighted in their entirety.
// String pairs get the character-level treatment from Diff.
func (p *Palette) DiffValues(a, b any) (string, string) {
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return p.Diff(sa, sb)
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	if sa == sb || !p.enabled {
		return sa, sb
	}
	return p.Render(RoleHighlight, sa), p.Render(RoleHighlight, sb)
}
