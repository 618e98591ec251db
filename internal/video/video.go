// ABOUTME: Video assembly by piping raw RGBA frames into an ffmpeg subprocess
// ABOUTME: Display durations are converted to frame repeats at a fixed output fps

package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Options configures the assembler.
type Options struct {
	Path   string // output file; container chosen by extension
	FPS    int    // output frame rate; default 24
	FFmpeg string // binary name or path; default "ffmpeg"
}

type chunk struct {
	pix   []byte
	count int
}

// Encoder streams stills into a single video file. Frames are handed to a
// writer goroutine so rasterization overlaps encoder I/O; the feed itself
// stays strictly ordered.
type Encoder struct {
	opts Options

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer

	frames     chan chunk
	finishOnce sync.Once
	finishErr  error
	g          *errgroup.Group
	gctx       context.Context

	width, height int
	counter       frameCounter
	started       bool
	total         int
}

// frameCounter converts display durations into whole frame repeats at a
// fixed fps, carrying the rounding error so the total stays within half a
// frame of duration*fps.
type frameCounter struct {
	fps   int
	carry float64
}

func (c *frameCounter) add(duration float64) int {
	c.carry += duration * float64(c.fps)
	n := int(c.carry + 0.5)
	c.carry -= float64(n)
	return n
}

// NewEncoder verifies ffmpeg is available and prepares an encoder. The
// subprocess starts lazily on the first frame, once dimensions are known.
func NewEncoder(ctx context.Context, o Options) (*Encoder, error) {
	if o.FPS <= 0 {
		o.FPS = 24
	}
	if o.FFmpeg == "" {
		o.FFmpeg = "ffmpeg"
	}
	if _, err := exec.LookPath(o.FFmpeg); err != nil {
		return nil, fmt.Errorf("ffmpeg is required for video output: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	return &Encoder{
		opts:    o,
		frames:  make(chan chunk, 4),
		g:       g,
		gctx:    gctx,
		counter: frameCounter{fps: o.FPS},
	}, nil
}

// WriteFrame schedules one still for duration seconds of display. The
// encoder takes ownership of the image's pixel buffer. All frames must
// share the dimensions of the first one.
func (e *Encoder) WriteFrame(img *image.RGBA, duration float64) error {
	b := img.Bounds()
	if !e.started {
		if err := e.start(b.Dx(), b.Dy()); err != nil {
			return err
		}
	} else if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("frame size changed from %dx%d to %dx%d (terminal resize mid-recording is not supported for video output)",
			e.width, e.height, b.Dx(), b.Dy())
	}

	n := e.counter.add(duration)
	if n == 0 {
		return nil
	}
	e.total += n

	select {
	case e.frames <- chunk{pix: packed(img), count: n}:
		return nil
	case <-e.gctx.Done():
		return e.finish()
	}
}

// FrameCount returns how many raw frames have been scheduled so far.
func (e *Encoder) FrameCount() int { return e.total }

// Close flushes remaining frames, waits for ffmpeg, and surfaces its
// stderr tail on failure.
func (e *Encoder) Close() error {
	if !e.started {
		return fmt.Errorf("no frames written")
	}
	return e.finish()
}

func (e *Encoder) start(w, h int) error {
	e.width, e.height = w, h
	// Deliberately not CommandContext: group cancellation must not kill
	// ffmpeg before it flushes the container on stdin close.
	e.cmd = exec.Command(e.opts.FFmpeg, ffmpegArgs(w, h, e.opts.FPS, e.opts.Path)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("creating ffmpeg pipe: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	e.started = true
	e.g.Go(e.writeLoop)
	return nil
}

func (e *Encoder) writeLoop() error {
	for c := range e.frames {
		for i := 0; i < c.count; i++ {
			if _, err := e.stdin.Write(c.pix); err != nil {
				return fmt.Errorf("writing frame to ffmpeg: %w", err)
			}
		}
	}
	return nil
}

func (e *Encoder) finish() error {
	e.finishOnce.Do(func() {
		close(e.frames)

		werr := e.g.Wait()
		cerr := e.stdin.Close()
		perr := e.cmd.Wait()

		switch {
		case perr != nil:
			e.finishErr = fmt.Errorf("ffmpeg: %w: %s", perr, stderrTail(e.stderr.String()))
		case werr != nil:
			e.finishErr = werr
		default:
			e.finishErr = cerr
		}
	})
	return e.finishErr
}

// ffmpegArgs builds the encode invocation: rawvideo RGBA on stdin, H.264 in
// a streamable container unless the extension asks for a GIF. Odd
// dimensions are padded because yuv420p needs even ones.
func ffmpegArgs(w, h, fps int, path string) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
	}
	if strings.ToLower(filepath.Ext(path)) != ".gif" {
		args = append(args,
			"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
			"-c:v", "libx264",
			"-pix_fmt", "yuv420p",
			"-movflags", "+faststart",
		)
	}
	return append(args, path)
}

// packed returns the image's pixels as tightly packed RGBA rows.
func packed(img *image.RGBA) []byte {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if img.Stride == 4*w {
		return img.Pix
	}
	out := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		copy(out[y*4*w:(y+1)*4*w], img.Pix[y*img.Stride:y*img.Stride+4*w])
	}
	return out
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.Join(lines, " | ")
}
