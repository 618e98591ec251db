// ABOUTME: Tests for the font variant table and glyph coverage checks
// ABOUTME: The embedded Go Mono family backs all cases

package render

import "testing"

func TestVariantFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bold, italic bool
		want         Variant
	}{
		{false, false, Normal},
		{true, false, Bold},
		{false, true, Italic},
		{true, true, BoldItalic},
	}
	for _, tt := range tests {
		if got := variantFor(tt.bold, tt.italic); got != tt.want {
			t.Errorf("variantFor(%v, %v) = %v, want %v", tt.bold, tt.italic, got, tt.want)
		}
	}
}

func TestDefaultFontSetCoverage(t *testing.T) {
	t.Parallel()

	fs := DefaultFontSet()
	for v := Normal; v < numVariants; v++ {
		if !fs.Covers(v, 'X') {
			t.Errorf("variant %d should cover 'X'", v)
		}
	}
	if fs.Covers(Normal, '漢') {
		t.Error("Go Mono should not cover CJK")
	}
}

func TestFaceCaching(t *testing.T) {
	t.Parallel()

	if _, err := ParseFontSet(nil, nil, nil, nil); err == nil {
		t.Fatal("expected parse error for empty font data")
	}

	set := testFonts(t)
	a, err := set.Face(Bold, 12)
	if err != nil {
		t.Fatal(err)
	}
	b, err := set.Face(Bold, 12)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same variant and size should return the cached face")
	}
}

func TestMonospaceAdvanceContract(t *testing.T) {
	t.Parallel()

	// All four Go Mono variants advance the reference glyph identically;
	// column alignment depends on it.
	fs := testFonts(t)
	base := -1
	for v := Normal; v < numVariants; v++ {
		face, err := fs.Face(v, 17)
		if err != nil {
			t.Fatal(err)
		}
		adv, ok := face.GlyphAdvance(referenceGlyph)
		if !ok {
			t.Fatalf("variant %d: no reference glyph", v)
		}
		if base == -1 {
			base = adv.Ceil()
		} else if adv.Ceil() != base {
			t.Errorf("variant %d advance = %d, want %d", v, adv.Ceil(), base)
		}
	}
}

func TestLoadFontSetMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadFontSet("/nonexistent.ttf", "/nonexistent.ttf", "/nonexistent.ttf", "/nonexistent.ttf"); err == nil {
		t.Error("expected error for unreadable font path")
	}
}

func TestNoFallback(t *testing.T) {
	t.Parallel()

	if _, ok := (NoFallback{}).Resolve('x', 17); ok {
		t.Error("NoFallback should never resolve")
	}
}
