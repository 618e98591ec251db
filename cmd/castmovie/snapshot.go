// ABOUTME: The snapshot subcommand: render a recording's final screen to PNG
// ABOUTME: Usage: castmovie snapshot [flags] input.cast output.png

package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/mauromedda/castmovie/internal/asciicast"
	"github.com/mauromedda/castmovie/internal/config"
	cmlog "github.com/mauromedda/castmovie/internal/log"
	"github.com/mauromedda/castmovie/internal/render"
	termemu "github.com/mauromedda/castmovie/internal/term"
)

func runSnapshot(argv []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	s := config.Defaults()
	width := fs.Int("width", 0, "Terminal columns (overrides the asciicast header)")
	height := fs.Int("height", 0, "Terminal lines (overrides the asciicast header)")
	fs.StringVar(&s.Foreground, "fg", s.Foreground, "Default foreground color")
	fs.StringVar(&s.Background, "bg", s.Background, "Default background color")
	fs.Float64Var(&s.FontSize, "font-size", s.FontSize, "Font size in pixels")
	fs.IntVar(&s.Margin, "margin", s.Margin, "Margin in pixels")
	fs.IntVar(&s.Antialias, "aa", s.Antialias, "Antialiasing oversampling factor")
	cursor := fs.Bool("cursor", false, "Mark the cursor position")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: castmovie snapshot [flags] input.cast output.png")
		fs.PrintDefaults()
	}
	fs.Parse(argv)

	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}

	s.Width, s.Height = *width, *height
	cast, cols, rows, err := loadCast(s, fs.Arg(0))
	if err != nil {
		return err
	}

	emu := termemu.New(cols, rows)
	for i, ev := range cast.Outputs() {
		if ev.Type == asciicast.EventResize {
			c, r, err := asciicast.ParseResize(ev.Data)
			if err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
			emu.Resize(c, r)
			continue
		}
		if _, err := emu.Write([]byte(ev.Data)); err != nil {
			return fmt.Errorf("event %d: feeding emulator: %w", i, err)
		}
	}

	ro := render.DefaultOptions()
	ro.Foreground = s.Foreground
	ro.Background = s.Background
	ro.FontSize = s.FontSize
	ro.Margin = s.Margin
	ro.Antialias = s.Antialias
	ro.ShowCursor = *cursor
	ro.Diag = cmlog.Warn

	img, err := render.Render(emu.Snapshot(), ro)
	if err != nil {
		return err
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", accentStyle.Render("wrote"), fs.Arg(1))
	return nil
}
