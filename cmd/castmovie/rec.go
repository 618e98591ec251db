// ABOUTME: The rec subcommand: record a live shell session to an asciicast file
// ABOUTME: Usage: castmovie rec [-c command] [-t title] output.cast

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mauromedda/castmovie/internal/record"
)

func runRec(argv []string) error {
	fs := flag.NewFlagSet("rec", flag.ExitOnError)
	command := fs.String("c", "", "Command to record (default: interactive shell)")
	title := fs.String("t", "", "Recording title for the asciicast header")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: castmovie rec [-c command] [-t title] output.cast")
		fs.PrintDefaults()
	}
	fs.Parse(argv)

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	out, err := os.Create(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", accentStyle.Render("recording to"), fs.Arg(0))
	if err := record.Run(out, record.Options{Command: *command, Title: *title}); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", accentStyle.Render("saved"), fs.Arg(0))
	return nil
}
