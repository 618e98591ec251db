// ABOUTME: Font variant table for the rasterizer: normal/bold/italic/bold-italic
// ABOUTME: Parses OpenType fonts, builds size-keyed faces, checks glyph coverage

package render

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Variant selects one of the four style faces.
type Variant int

const (
	Normal Variant = iota
	Bold
	Italic
	BoldItalic

	numVariants
)

// FontSet holds the four parsed fonts of a monospace family. All variants
// must share the reference-glyph advance width or column alignment breaks;
// that is a caller contract, not checked here.
type FontSet struct {
	fonts [numVariants]*sfnt.Font

	mu    sync.Mutex // guards buf and faces; the default set is shared
	buf   sfnt.Buffer
	faces map[faceKey]font.Face
}

type faceKey struct {
	v    Variant
	size float64
}

// LoadFontSet reads the four font files. A malformed or unreadable font is
// fatal: rendering cannot proceed without typography.
func LoadFontSet(regular, bold, italic, boldItalic string) (*FontSet, error) {
	paths := [numVariants]string{regular, bold, italic, boldItalic}
	var data [numVariants][]byte
	for i, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading font: %w", err)
		}
		data[i] = b
	}
	return ParseFontSet(data[Normal], data[Bold], data[Italic], data[BoldItalic])
}

// ParseFontSet builds a FontSet from raw OpenType bytes.
func ParseFontSet(regular, bold, italic, boldItalic []byte) (*FontSet, error) {
	fs := &FontSet{faces: make(map[faceKey]font.Face)}
	for i, b := range [numVariants][]byte{regular, bold, italic, boldItalic} {
		f, err := opentype.Parse(b)
		if err != nil {
			return nil, fmt.Errorf("parsing font variant %d: %w", i, err)
		}
		fs.fonts[i] = f
	}
	return fs, nil
}

var (
	defaultSetOnce sync.Once
	defaultSet     *FontSet
)

// DefaultFontSet returns the embedded Go Mono family, used when no font
// paths are configured. The embedded fonts always parse.
func DefaultFontSet() *FontSet {
	defaultSetOnce.Do(func() {
		fs, err := ParseFontSet(gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF)
		if err != nil {
			panic(fmt.Sprintf("embedded font: %v", err))
		}
		defaultSet = fs
	})
	return defaultSet
}

// Face returns the face for a variant at the given pixel size. Faces are
// cached per size. Note that the faces themselves are not safe for
// concurrent drawing.
func (fs *FontSet) Face(v Variant, size float64) (font.Face, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	key := faceKey{v, size}
	if f, ok := fs.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fs.fonts[v], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("building face: %w", err)
	}
	fs.faces[key] = f
	return f, nil
}

// Covers reports whether the variant's font has a real glyph for r.
func (fs *FontSet) Covers(v Variant, r rune) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	idx, err := fs.fonts[v].GlyphIndex(&fs.buf, r)
	return err == nil && idx != 0
}

// variantFor maps cell bold/italic flags to the face table.
func variantFor(bold, italic bool) Variant {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Normal
	}
}
