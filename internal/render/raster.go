// ABOUTME: Core screen rasterizer: one terminal snapshot in, one RGBA image out
// ABOUTME: Per-cell bg/underline/strike/glyph drawing with antialias oversampling

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/mauromedda/castmovie/internal/term"
)

// referenceGlyph fixes the cell width; every variant must advance it the
// same number of pixels in a well-formed monospace family.
const referenceGlyph = 'X'

// Screen is the read-only view the rasterizer consumes. term.Snapshot
// satisfies it; tests use synthetic grids.
type Screen interface {
	Size() (cols, rows int)
	Cell(x, y int) term.Cell
	Cursor() (x, y int)
	CursorHidden() bool
}

// Options is the full rendering configuration, passed by value per call.
// Zero fields fall back to the defaults below.
type Options struct {
	Fonts       *FontSet       // nil: embedded Go Mono family
	Fallback    FallbackSource // nil: NoFallback
	FontSize    float64        // pixels; default 17
	LineSpacing int            // extra pixels between lines
	Margin      int            // default 5
	Foreground  string         // default "#00ff00"
	Background  string         // default "black"
	Palette     Palette        // zero: DefaultPalette
	Antialias   int            // oversampling factor; <=1 disables
	ShowCursor  bool           // draw a block cursor at the cursor cell
	Diag        func(format string, args ...any)
}

// DefaultOptions returns the defaults used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		FontSize:   17,
		Margin:     5,
		Foreground: "#00ff00",
		Background: "black",
	}
}

func (o Options) withDefaults() Options {
	if o.Fonts == nil {
		o.Fonts = DefaultFontSet()
	}
	if o.Fallback == nil {
		o.Fallback = NoFallback{}
	}
	if o.FontSize <= 0 {
		o.FontSize = 17
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Foreground == "" {
		o.Foreground = "#00ff00"
	}
	if o.Background == "" {
		o.Background = "black"
	}
	if o.Palette == (Palette{}) {
		o.Palette = DefaultPalette()
	}
	if o.Diag == nil {
		o.Diag = func(string, ...any) {}
	}
	return o
}

// Render rasterizes one screen snapshot. It is deterministic: the same
// snapshot and options produce byte-identical images. The only side effect
// is the optional Diag callback for missing glyphs.
func Render(s Screen, o Options) (*image.RGBA, error) {
	o = o.withDefaults()

	aa := o.Antialias
	size := o.FontSize
	margin := o.Margin
	lineSpace := o.LineSpacing
	if aa > 1 {
		size *= float64(aa)
		margin *= aa
		lineSpace *= aa
	}

	var faces [numVariants]font.Face
	for v := Normal; v < numVariants; v++ {
		f, err := o.Fonts.Face(v, size)
		if err != nil {
			return nil, err
		}
		faces[v] = f
	}

	adv, ok := faces[Normal].GlyphAdvance(referenceGlyph)
	if !ok {
		return nil, fmt.Errorf("font has no reference glyph %q", referenceGlyph)
	}
	cellW := adv.Ceil()
	metrics := faces[Normal].Metrics()
	ascent := metrics.Ascent.Ceil()
	cellH := ascent + metrics.Descent.Ceil() + lineSpace

	defFG, err := ParseColor(o.Foreground)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	defBG, err := ParseColor(o.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	cols, rows := s.Size()
	imgW := cols*cellW + 2*margin
	imgH := rows*cellH + 2*margin
	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))
	draw.Draw(img, img.Bounds(), image.NewUniform(defBG), image.Point{}, draw.Src)

	curX, curY := s.Cursor()
	showCursor := o.ShowCursor && !s.CursorHidden()
	lineThickness := 1
	if aa > 1 {
		lineThickness = aa
	}

	for y := 0; y < rows; y++ {
		xPos := margin
		yPos := margin + y*cellH
		for x := 0; x < cols; x++ {
			cell := s.Cell(x, y)
			// The emulator stores a wide rune in a single grid cell, so
			// the drawing position advances exactly one cell width per
			// column. The glyph, background and line decorations of a
			// wide cell still cover two cells of pixels; a styled
			// neighbor overdraws the right half.
			width := cell.Span() * cellW

			fg := cellColor(cell.FG, defFG, &o.Palette)
			bg := cellColor(cell.BG, defBG, &o.Palette)
			if cell.Attr.Has(term.AttrReverse) {
				fg, bg = bg, fg
			}
			// A reverse cell under the cursor swaps back to its
			// original colors.
			if showCursor && x == curX && y == curY {
				fg, bg = bg, fg
			}

			// The default background is already there; painting it
			// again would be a no-op.
			if bg != defBG {
				fillRect(img, xPos, yPos, xPos+width, yPos+cellH, bg)
			}

			face := faces[Normal]
			extra := 0
			if !cell.Blank() {
				v := variantFor(cell.Attr.Has(term.AttrBold), cell.Attr.Has(term.AttrItalic))
				face = faces[v]
				if !o.Fonts.Covers(v, cell.Rune) {
					if fb, found := o.Fallback.Resolve(cell.Rune, size); found {
						face = fb
						extra = extraAdvance(fb, cell.Rune, width)
					} else {
						o.Diag("no glyph for %q (U+%04X) in any configured font", cell.Rune, cell.Rune)
					}
				}
			}

			if cell.Attr.Has(term.AttrUnderline) {
				fillRect(img, xPos, yPos+cellH-lineThickness, xPos+width+extra, yPos+cellH, fg)
			}
			if cell.Attr.Has(term.AttrStrikethrough) {
				mid := yPos + cellH/2
				fillRect(img, xPos, mid, xPos+width+extra, mid+lineThickness, fg)
			}

			if !cell.Blank() {
				d := font.Drawer{
					Dst:  img,
					Src:  image.NewUniform(fg),
					Face: face,
					Dot:  fixed.P(xPos, yPos+ascent),
				}
				d.DrawString(string(cell.Rune))
			}

			// Fallback glyphs wider than the cell shift the rest of
			// the row right to avoid overlap.
			xPos += cellW + extra
		}
	}

	if aa > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, imgW/aa, imgH/aa))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		return dst, nil
	}
	return img, nil
}

// extraAdvance reports how many pixels a substitute glyph needs beyond the
// standard cell span.
func extraAdvance(face font.Face, r rune, span int) int {
	adv, ok := face.GlyphAdvance(r)
	if !ok {
		return 0
	}
	if w := adv.Ceil(); w > span {
		return w - span
	}
	return 0
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}
