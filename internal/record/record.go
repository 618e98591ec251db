// ABOUTME: Live terminal session capture to asciicast v2 via a pty
// ABOUTME: Puts the controlling terminal in raw mode and tees pty output to the cast

package record

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/mauromedda/castmovie/internal/asciicast"
)

// Options configures a recording session.
type Options struct {
	Command string // run under "$SHELL -c"; empty starts an interactive shell
	Title   string
}

// Run records one session to out. It returns when the child process exits.
func Run(out io.Writer, o Options) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "bash"
	}

	var cmd *exec.Cmd
	if o.Command == "" {
		cmd = exec.Command(shell)
	} else {
		cmd = exec.Command(shell, "-c", o.Command)
	}
	cmd.Env = os.Environ()

	cols, rows := 80, 24
	if c, r, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cols, rows = c, r
	}

	w, err := asciicast.NewWriter(out, asciicast.Header{
		Version:   2,
		Width:     cols,
		Height:    rows,
		Timestamp: time.Now().Unix(),
		Title:     o.Title,
		Command:   o.Command,
	})
	if err != nil {
		return err
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return fmt.Errorf("starting pty: %w", err)
	}
	defer ptmx.Close()

	start := time.Now()
	var wmu sync.Mutex
	event := func(typ, data string) error {
		wmu.Lock()
		defer wmu.Unlock()
		return w.WriteEvent(time.Since(start).Seconds(), typ, data)
	}

	// Propagate window size changes to the child and record them.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				continue
			}
			if c, r, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				event(asciicast.EventResize, fmt.Sprintf("%dx%d", c, r))
			}
		}
	}()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	go io.Copy(ptmx, os.Stdin)

	buf := make([]byte, 32*1024)
	for {
		n, rerr := ptmx.Read(buf)
		if n > 0 {
			os.Stdout.Write(buf[:n])
			if err := event(asciicast.EventOutput, string(buf[:n])); err != nil {
				return err
			}
		}
		if rerr != nil {
			// The pty read fails with EIO once the child exits.
			break
		}
	}

	cmd.Wait()
	return w.Flush()
}
