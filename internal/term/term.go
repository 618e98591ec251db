// ABOUTME: Headless terminal emulator adapter over hinshun/vt10x
// ABOUTME: Decodes per-cell attributes into an explicit Cell bitflag struct

package term

import (
	"github.com/hinshun/vt10x"
	"github.com/mattn/go-runewidth"
)

// Attr is a closed set of per-cell style flags.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrStrikethrough
	AttrReverse
	AttrBlink
)

// vt10x does not export its attribute bits; these mirror the bit layout of
// the glyph mode word it maintains.
const (
	vtAttrReverse   = 1 << 0
	vtAttrUnderline = 1 << 1
	vtAttrBold      = 1 << 2
	vtAttrItalic    = 1 << 4
	vtAttrBlink     = 1 << 5
)

// Color is a terminal color value. Values below 256 are palette indices
// (0-15 ANSI, 16-255 xterm), values below 1<<24 are packed 24-bit RGB, and
// anything else is the default foreground/background sentinel.
type Color uint32

// DefaultColor marks a cell using the configured default color.
const DefaultColor Color = 1 << 24

// IsDefault reports whether c is the default-color sentinel.
func (c Color) IsDefault() bool { return c >= 1<<24 }

// Palette returns the palette index and true when c is a palette color.
func (c Color) Palette() (int, bool) {
	if c < 256 {
		return int(c), true
	}
	return 0, false
}

// RGB unpacks a 24-bit color. Only meaningful when the color is neither a
// palette index nor the default sentinel.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Cell is one grid position. A zero Rune means the position is blank.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Attr Attr
}

// Has reports whether all flags in mask are set.
func (a Attr) Has(mask Attr) bool { return a&mask == mask }

// Span returns how many columns the cell occupies: 2 for wide (CJK etc.)
// runes, otherwise 1.
func (c Cell) Span() int {
	if c.Rune == 0 {
		return 1
	}
	if runewidth.RuneWidth(c.Rune) == 2 {
		return 2
	}
	return 1
}

// Blank reports whether the cell has nothing to draw as a glyph.
func (c Cell) Blank() bool {
	return c.Rune == 0 || c.Rune == ' '
}

// Emulator owns the mutable terminal state. Feeding bytes mutates the grid;
// Snapshot returns a live read-only view into the same state.
type Emulator struct {
	vt vt10x.Terminal
}

// New creates an emulator with the given grid size.
func New(cols, rows int) *Emulator {
	return &Emulator{vt: vt10x.New(vt10x.WithSize(cols, rows))}
}

// Write feeds raw terminal output (escape sequences included) into the
// emulator. Implements io.Writer.
func (e *Emulator) Write(p []byte) (int, error) {
	return e.vt.Write(p)
}

// Resize changes the grid size, for asciicast resize events.
func (e *Emulator) Resize(cols, rows int) {
	e.vt.Resize(cols, rows)
}

// Snapshot returns a live view of the current screen. The view reads
// directly from emulator state: render it before the next Write.
func (e *Emulator) Snapshot() Snapshot {
	return Snapshot{vt: e.vt}
}

// Snapshot is a read-only view into emulator state. It is not a copy.
type Snapshot struct {
	vt vt10x.Terminal
}

// Size returns the grid dimensions in columns and rows.
func (s Snapshot) Size() (cols, rows int) {
	return s.vt.Size()
}

// Cell decodes the glyph at column x, row y.
func (s Snapshot) Cell(x, y int) Cell {
	g := s.vt.Cell(x, y)
	c := Cell{
		Rune: g.Char,
		FG:   decodeColor(g.FG, vt10x.DefaultFG),
		BG:   decodeColor(g.BG, vt10x.DefaultBG),
	}
	if g.Mode&vtAttrBold != 0 {
		c.Attr |= AttrBold
	}
	if g.Mode&vtAttrItalic != 0 {
		c.Attr |= AttrItalic
	}
	if g.Mode&vtAttrUnderline != 0 {
		c.Attr |= AttrUnderline
	}
	if g.Mode&vtAttrReverse != 0 {
		c.Attr |= AttrReverse
	}
	if g.Mode&vtAttrBlink != 0 {
		c.Attr |= AttrBlink
	}
	// vt10x has no strikethrough tracking (SGR 9); AttrStrikethrough stays
	// unset here but is honored by the rasterizer for synthetic screens.
	return c
}

// Cursor returns the cursor position.
func (s Snapshot) Cursor() (x, y int) {
	cur := s.vt.Cursor()
	return cur.X, cur.Y
}

// CursorHidden reports whether the emulator has hidden the cursor
// (DECTCEM reset).
func (s Snapshot) CursorHidden() bool {
	return !s.vt.CursorVisible()
}

func decodeColor(c vt10x.Color, def vt10x.Color) Color {
	if c == def || c >= 1<<24 {
		return DefaultColor
	}
	return Color(c)
}
