// ABOUTME: Color resolution for the rasterizer: names, hex, ANSI-16, xterm-256
// ABOUTME: Bare hex triplets without a leading # are normalized heuristically

package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/mauromedda/castmovie/internal/term"
)

// Palette is the 16 base ANSI colors. Themes may override it; the zero
// value is replaced by DefaultPalette.
type Palette [16]color.RGBA

// DefaultPalette returns the conventional xterm base-16 colors.
func DefaultPalette() Palette {
	return Palette{
		{0x00, 0x00, 0x00, 0xff}, // black
		{0xcd, 0x00, 0x00, 0xff}, // red
		{0x00, 0xcd, 0x00, 0xff}, // green
		{0xcd, 0xcd, 0x00, 0xff}, // yellow
		{0x00, 0x00, 0xee, 0xff}, // blue
		{0xcd, 0x00, 0xcd, 0xff}, // magenta
		{0x00, 0xcd, 0xcd, 0xff}, // cyan
		{0xe5, 0xe5, 0xe5, 0xff}, // light grey
		{0x7f, 0x7f, 0x7f, 0xff}, // dark grey
		{0xff, 0x00, 0x00, 0xff}, // light red
		{0x00, 0xff, 0x00, 0xff}, // light green
		{0xff, 0xff, 0x00, 0xff}, // light yellow
		{0x5c, 0x5c, 0xff, 0xff}, // light blue
		{0xff, 0x00, 0xff, 0xff}, // light magenta
		{0x00, 0xff, 0xff, 0xff}, // light cyan
		{0xff, 0xff, 0xff, 0xff}, // white
	}
}

// namedColors is the lookup table for configured color strings: the basic
// CSS color names.
var namedColors = map[string]color.RGBA{
	"black":   {0x00, 0x00, 0x00, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"lime":    {0x00, 0xff, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
	"cyan":    {0x00, 0xff, 0xff, 0xff},
	"magenta": {0xff, 0x00, 0xff, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
	"grey":    {0x80, 0x80, 0x80, 0xff},
	"silver":  {0xc0, 0xc0, 0xc0, 0xff},
	"maroon":  {0x80, 0x00, 0x00, 0xff},
	"olive":   {0x80, 0x80, 0x00, 0xff},
	"navy":    {0x00, 0x00, 0x80, 0xff},
	"purple":  {0x80, 0x00, 0x80, 0xff},
	"teal":    {0x00, 0x80, 0x80, 0xff},
	"orange":  {0xff, 0xa5, 0x00, 0xff},
	"brown":   {0xa5, 0x2a, 0x2a, 0xff},
}

// NormalizeColor resolves the bare-hex ambiguity: a string that is not a
// known name, has no leading #, and reads as a hex triplet gets the #
// prefix. Everything else passes through unchanged.
func NormalizeColor(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "#") {
		return s
	}
	if _, ok := namedColors[strings.ToLower(s)]; ok {
		return s
	}
	if isHexTriplet(s) {
		return "#" + s
	}
	return s
}

func isHexTriplet(s string) bool {
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// ParseColor turns a configured color string (name, "#rgb", "#rrggbb", or a
// bare hex triplet) into an RGBA value.
func ParseColor(s string) (color.RGBA, error) {
	s = NormalizeColor(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
		}
		r := uint8(v >> 8 & 0xf)
		g := uint8(v >> 4 & 0xf)
		b := uint8(v & 0xf)
		return color.RGBA{r*16 + r, g*16 + g, b*16 + b, 0xff}, nil
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
		}
		return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
	default:
		return color.RGBA{}, fmt.Errorf("malformed color %q", s)
	}
}

// xtermColor maps a 16-255 palette index to its RGBA value: 6x6x6 color
// cube at 16-231, grayscale ramp at 232-255.
func xtermColor(idx int) color.RGBA {
	if idx < 16 || idx > 255 {
		return color.RGBA{A: 0xff}
	}
	if idx >= 232 {
		v := uint8(8 + (idx-232)*10)
		return color.RGBA{v, v, v, 0xff}
	}
	idx -= 16
	steps := [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}
	return color.RGBA{
		steps[idx/36],
		steps[idx/6%6],
		steps[idx%6],
		0xff,
	}
}

// cellColor resolves a terminal color to RGBA: default sentinel -> def,
// 0-15 -> palette, 16-255 -> xterm table, otherwise packed 24-bit RGB.
func cellColor(c term.Color, def color.RGBA, pal *Palette) color.RGBA {
	if c.IsDefault() {
		return def
	}
	if idx, ok := c.Palette(); ok {
		if idx < 16 {
			return pal[idx]
		}
		return xtermColor(idx)
	}
	r, g, b := c.RGB()
	return color.RGBA{r, g, b, 0xff}
}
