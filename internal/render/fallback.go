// ABOUTME: Fallback font lookup for glyphs missing from the primary family
// ABOUTME: DirSource scans font directories, fuzzy-matches family names, checks coverage

package render

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FallbackSource finds a substitute face for a rune the primary font lacks.
// Implementations are chosen at configuration time; the rasterizer never
// probes for availability at render time.
type FallbackSource interface {
	// Resolve returns a size-matched face containing a glyph for r, or
	// false when no configured fallback covers it.
	Resolve(r rune, size float64) (font.Face, bool)
}

// NoFallback disables fallback lookup.
type NoFallback struct{}

// Resolve always reports no coverage.
func (NoFallback) Resolve(rune, float64) (font.Face, bool) { return nil, false }

// DirSource resolves fallback glyphs from font files on disk. Candidate
// files are matched against the requested family names with fuzzy matching
// on the file name, in family priority order.
type DirSource struct {
	candidates [][]string // per family, ordered by match score
	fonts      map[string]*sfnt.Font
	faces      map[faceSizeKey]font.Face
	buf        sfnt.Buffer
}

type faceSizeKey struct {
	path string
	size float64
}

// DefaultFontDirs returns the conventional system and user font locations.
func DefaultFontDirs() []string {
	dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts", "/System/Library/Fonts", "/Library/Fonts"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, "Library", "Fonts"),
		)
	}
	return dirs
}

// NewDirSource scans dirs for font files and prepares per-family candidate
// lists. Families that match nothing simply contribute no candidates;
// fallback misses degrade at render time rather than failing here.
func NewDirSource(families []string, dirs ...string) *DirSource {
	if len(dirs) == 0 {
		dirs = DefaultFontDirs()
	}

	var paths []string
	var names []string
	for _, dir := range dirs {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable subtree, keep walking siblings
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".ttf", ".otf":
				paths = append(paths, path)
				names = append(names, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			}
			return nil
		})
	}

	src := &DirSource{
		candidates: make([][]string, len(families)),
		fonts:      make(map[string]*sfnt.Font),
		faces:      make(map[faceSizeKey]font.Face),
	}
	for i, fam := range families {
		matches := fuzzy.Find(strings.ReplaceAll(fam, " ", ""), names)
		for _, m := range matches {
			src.candidates[i] = append(src.candidates[i], paths[m.Index])
		}
	}
	return src
}

// Resolve walks families in priority order and returns the first face whose
// font covers r.
func (s *DirSource) Resolve(r rune, size float64) (font.Face, bool) {
	for _, cands := range s.candidates {
		for _, path := range cands {
			f, ok := s.load(path)
			if !ok {
				continue
			}
			idx, err := f.GlyphIndex(&s.buf, r)
			if err != nil || idx == 0 {
				continue
			}
			face, err := s.face(path, f, size)
			if err != nil {
				continue
			}
			return face, true
		}
	}
	return nil, false
}

func (s *DirSource) load(path string) (*sfnt.Font, bool) {
	if f, ok := s.fonts[path]; ok {
		return f, f != nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.fonts[path] = nil
		return nil, false
	}
	f, err := opentype.Parse(data)
	if err != nil {
		s.fonts[path] = nil // remember bad files, skip quietly next time
		return nil, false
	}
	s.fonts[path] = f
	return f, true
}

func (s *DirSource) face(path string, f *sfnt.Font, size float64) (font.Face, error) {
	key := faceSizeKey{path, size}
	if face, ok := s.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	s.faces[key] = face
	return face, nil
}
