// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Flags bind onto merged Settings; defaults come from the config file

package main

import (
	"flag"
	"strings"

	"github.com/mauromedda/castmovie/internal/config"
)

type cliArgs struct {
	verbose bool
	version bool
	cursor  bool // static cursor display when blinking is disabled
	set     map[string]bool
}

// parseFlags registers every conversion flag with defaults taken from s and
// parses the command line into it. The returned set records which flags
// were given explicitly, so theme values never override them.
func parseFlags(s *config.Settings) cliArgs {
	var args cliArgs
	var fallback string

	flag.IntVar(&s.Width, "width", s.Width, "Terminal columns (overrides the asciicast header)")
	flag.IntVar(&s.Height, "height", s.Height, "Terminal lines (overrides the asciicast header)")
	flag.StringVar(&s.Foreground, "fg", s.Foreground, "Default foreground color (name or hex)")
	flag.StringVar(&s.Background, "bg", s.Background, "Default background color (name or hex)")
	flag.StringVar(&s.FontRegular, "font", s.FontRegular, "Regular font file (all four font flags go together; default embedded Go Mono)")
	flag.StringVar(&s.FontBold, "font-bold", s.FontBold, "Bold font file")
	flag.StringVar(&s.FontItalic, "font-italic", s.FontItalic, "Italic font file")
	flag.StringVar(&s.FontBoldItalic, "font-bold-italic", s.FontBoldItalic, "Bold italic font file")
	flag.StringVar(&fallback, "fallback", strings.Join(s.FallbackFamilies, ","), "Comma-separated fallback font families for missing glyphs")
	flag.Float64Var(&s.FontSize, "font-size", s.FontSize, "Font size in pixels")
	flag.IntVar(&s.LineSpacing, "line-spacing", s.LineSpacing, "Extra pixels between lines")
	flag.IntVar(&s.Margin, "margin", s.Margin, "Margin around the screen in pixels")
	flag.IntVar(&s.Antialias, "aa", s.Antialias, "Antialiasing oversampling factor (0/1 disables)")
	flag.Float64Var(&s.CursorBlink, "cursor-blink", s.CursorBlink, "Cursor blink period in seconds (0 disables blinking)")
	flag.Float64Var(&s.LastFrameDuration, "last-frame", s.LastFrameDuration, "How long the final frame stays on screen, in seconds")
	flag.IntVar(&s.FPS, "fps", s.FPS, "Output video frame rate")
	flag.StringVar(&s.Theme, "theme", s.Theme, "YAML theme file (colors, palette, fonts)")
	flag.BoolVar(&args.cursor, "cursor", false, "Show a static cursor when blinking is disabled")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Usage = usage
	flag.Parse()

	if fallback != "" {
		s.FallbackFamilies = splitFamilies(fallback)
	}

	args.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { args.set[f.Name] = true })
	return args
}

func splitFamilies(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
