package ansipainter

// ANSI coloring of printed queries, by token role.

import (
	"strconv"
	"strings"
)

// ---- BEGIN code imported from https://github.com/fatih/color

// Attribute defines a single SGR Code
type Attribute int

const escape = "\x1b"

// Base attributes
const (
	Reset Attribute = iota
	Bold
	Faint
	Italic
	Underline
	BlinkSlow
	BlinkRapid
	ReverseVideo
	Concealed
	CrossedOut
)

// Foreground text colors
const (
	FgBlack Attribute = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground Hi-Intensity text colors
const (
	FgHiBlack Attribute = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

// Background text colors
const (
	BgBlack Attribute = iota + 40
	BgRed
	BgGreen
	BgYellow
	BgBlue
	BgMagenta
	BgCyan
	BgWhite
)

// Background Hi-Intensity text colors
const (
	BgHiBlack Attribute = iota + 100
	BgHiRed
	BgHiGreen
	BgHiYellow
	BgHiBlue
	BgHiMagenta
	BgHiCyan
	BgHiWhite
)

// ---- END code imported from github.com/fatih/color

const sgrReset = escape + "[0m" // Reset == 0

// ANSIPainter handles writing ANSI coloring escape codes to a
// strings.Builder. It is a mapping of printed-query token role — "keyword",
// "operator", "value", "quoted", "regex", "error" — to ANSI escape
// attribute code.
type ANSIPainter struct {
	// Mapping token role to ANSI Select Graphic Rendition (SGR).
	// https://en.wikipedia.org/wiki/ANSI_escape_code#SGR_(Select_Graphic_Rendition)_parameters
	sgrFromRole map[string]string
	painting    bool
}

// Paint writes the SGR code for the given role, if the painter styles it.
func (p *ANSIPainter) Paint(b *strings.Builder, role string) {
	sgr, ok := p.sgrFromRole[role]
	if ok {
		b.WriteString(sgr)
		p.painting = true
	} else {
		p.painting = false
	}
}

// Reset ends the styling started by the previous Paint, if any.
func (p *ANSIPainter) Reset(b *strings.Builder) {
	if p.painting {
		b.WriteString(sgrReset)
	}
}

// New creates a new ANSIPainter from a mapping of token roles to an array
// of ANSI attributes (colors and styles).
func New(attrsFromRole map[string][]Attribute) *ANSIPainter {
	p := ANSIPainter{}
	p.sgrFromRole = make(map[string]string)
	for role, attrs := range attrsFromRole {
		sgr := escape + "["
		for i, attr := range attrs {
			if i > 0 {
				sgr += ";"
			}
			sgr += strconv.Itoa(int(attr))
		}
		sgr += "m"
		p.sgrFromRole[role] = sgr
	}
	return &p
}

// NoColorPainter is a painter that emits no ANSI codes.
var NoColorPainter = New(nil)

// BWPainter styles without color, for monochrome terminals.
var BWPainter = New(map[string][]Attribute{
	"keyword":  {Bold},
	"operator": {Faint},
	"quoted":   {Underline},
	"regex":    {Underline},
	"error":    {ReverseVideo},
})

// DefaultPainter implements the stock default color scheme for `bibql`.
var DefaultPainter = New(map[string][]Attribute{
	"keyword":  {FgCyan},
	"operator": {Bold},
	"quoted":   {FgGreen},
	"regex":    {FgMagenta},
	"error":    {FgRed},
})

// PainterFromName maps known painter name to an ANSIPainter.
var PainterFromName = map[string]*ANSIPainter{
	"default":  DefaultPainter,
	"bw":       BWPainter,
	"no-color": NoColorPainter,
}
