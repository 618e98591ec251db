// ABOUTME: CLI entry point for castmovie: asciicast to video conversion
// ABOUTME: Intercepts rec/snapshot subcommands, otherwise converts input to output

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mauromedda/castmovie/internal/asciicast"
	"github.com/mauromedda/castmovie/internal/config"
	cmlog "github.com/mauromedda/castmovie/internal/log"
	"github.com/mauromedda/castmovie/internal/render"
	"github.com/mauromedda/castmovie/internal/sequence"
	termemu "github.com/mauromedda/castmovie/internal/term"
	"github.com/mauromedda/castmovie/internal/video"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  castmovie [flags] input.cast output.(mp4|mkv|mov|gif)
  castmovie rec [-c command] [-t title] output.cast
  castmovie snapshot [flags] input.cast output.png

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	// Intercept subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "rec":
			if err := runRec(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		case "snapshot":
			if err := runSnapshot(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	args := parseFlags(&settings)

	if args.version {
		fmt.Printf("castmovie %s (%s)\n", version, commit)
		os.Exit(0)
	}
	if args.verbose {
		cmlog.SetLevel(cmlog.LevelDebug)
	}

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}

	if err := run(settings, args, flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run converts one asciicast file into one video file.
func run(s config.Settings, args cliArgs, inPath, outPath string) error {
	s, theme, err := loadTheme(s, args.set)
	if err != nil {
		return err
	}

	cast, width, height, err := loadCast(s, inPath)
	if err != nil {
		return err
	}

	ro, err := buildRenderOptions(s, theme, args)
	if err != nil {
		return err
	}

	enc, err := video.NewEncoder(context.Background(), video.Options{
		Path: outPath,
		FPS:  s.FPS,
	})
	if err != nil {
		return err
	}

	emu := termemu.New(width, height)
	events := cast.Outputs()
	progress := term.IsTerminal(int(os.Stderr.Fd()))

	stills := 0
	var total float64
	sink := func(f sequence.Frame) error {
		if err := enc.WriteFrame(f.Image, f.Duration); err != nil {
			return err
		}
		stills++
		total += f.Duration
		if progress && stills%16 == 0 {
			fmt.Fprintf(os.Stderr, "\r%s %d stills, %d video frames",
				faintStyle.Render("rendering:"), stills, enc.FrameCount())
		}
		return nil
	}

	seqOpts := sequence.Options{
		Render:            ro,
		BlinkPeriod:       s.CursorBlink,
		LastFrameDuration: s.LastFrameDuration,
	}
	if err := sequence.Run(emu, events, seqOpts, sink); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if progress {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n",
		accentStyle.Render("wrote"), outPath,
		faintStyle.Render(fmt.Sprintf("(%d stills, %d frames, %.1fs)", stills, enc.FrameCount(), total)))
	return nil
}

// loadCast parses the input file and resolves the grid size: explicit
// settings win over the asciicast header; having neither is fatal.
func loadCast(s config.Settings, path string) (*asciicast.Cast, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	cast, err := asciicast.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}

	width, height := s.Width, s.Height
	if width == 0 {
		width = cast.Header.Width
	}
	if height == 0 {
		height = cast.Header.Height
	}
	if width == 0 || height == 0 {
		return nil, 0, 0, fmt.Errorf("%s has no header; -width and -height are required", path)
	}
	cmlog.Debug("input: %d events, %dx%d", len(cast.Events), width, height)
	return cast, width, height, nil
}

// loadTheme applies the configured theme without clobbering explicit flags.
func loadTheme(s config.Settings, set map[string]bool) (config.Settings, *config.Theme, error) {
	if s.Theme == "" {
		return s, nil, nil
	}
	th, err := config.LoadTheme(s.Theme)
	if err != nil {
		return s, nil, err
	}
	if !set["fg"] && th.Foreground != "" {
		s.Foreground = th.Foreground
	}
	if !set["bg"] && th.Background != "" {
		s.Background = th.Background
	}
	if !set["font"] && th.Fonts.Regular != "" {
		s.FontRegular = th.Fonts.Regular
		s.FontBold = th.Fonts.Bold
		s.FontItalic = th.Fonts.Italic
		s.FontBoldItalic = th.Fonts.BoldItalic
	}
	if !set["fallback"] && len(th.FallbackFamilies) > 0 {
		s.FallbackFamilies = th.FallbackFamilies
	}
	return s, th, nil
}

// buildRenderOptions assembles the rasterizer configuration from settings.
func buildRenderOptions(s config.Settings, theme *config.Theme, args cliArgs) (render.Options, error) {
	ro := render.DefaultOptions()
	ro.Foreground = s.Foreground
	ro.Background = s.Background
	ro.FontSize = s.FontSize
	ro.LineSpacing = s.LineSpacing
	ro.Margin = s.Margin
	ro.Antialias = s.Antialias
	ro.Diag = cmlog.Warn
	// With blinking disabled the cursor is shown only when asked for;
	// the blink policy toggles ShowCursor per sub-frame itself.
	ro.ShowCursor = args.cursor && s.CursorBlink == 0

	if s.FontRegular != "" {
		if s.FontBold == "" || s.FontItalic == "" || s.FontBoldItalic == "" {
			return ro, fmt.Errorf("the four font flags (-font, -font-bold, -font-italic, -font-bold-italic) must be set together")
		}
		fonts, err := render.LoadFontSet(s.FontRegular, s.FontBold, s.FontItalic, s.FontBoldItalic)
		if err != nil {
			return ro, err
		}
		ro.Fonts = fonts
	}

	if len(s.FallbackFamilies) > 0 {
		ro.Fallback = render.NewDirSource(s.FallbackFamilies)
	}

	if theme != nil && len(theme.Palette) > 0 {
		pal := render.DefaultPalette()
		for i, cs := range theme.Palette {
			c, err := render.ParseColor(cs)
			if err != nil {
				return ro, fmt.Errorf("theme palette[%d]: %w", i, err)
			}
			pal[i] = c
		}
		ro.Palette = pal
	}

	return ro, nil
}
