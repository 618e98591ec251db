// ABOUTME: Frame sequencer: feeds asciicast events into the emulator in order
// ABOUTME: Assigns display durations via the simple or blinking-cursor policy

package sequence

import (
	"fmt"
	"image"

	"github.com/mauromedda/castmovie/internal/asciicast"
	"github.com/mauromedda/castmovie/internal/render"
	"github.com/mauromedda/castmovie/internal/term"
)

// Frame is one rendered still with its display duration in seconds.
type Frame struct {
	Image    *image.RGBA
	Duration float64
}

// Sink receives frames as they are produced, in display order.
type Sink func(Frame) error

// Options selects the timing policy. A zero BlinkPeriod gives every event
// exactly one frame lasting until the next event; a positive period
// subdivides each event's span into alternating cursor-shown/hidden
// sub-frames (shown for half a period first, then alternating full
// periods, the final sub-frame clamped so durations sum exactly).
type Options struct {
	Render            render.Options
	BlinkPeriod       float64 // seconds; 0 disables the blink policy
	LastFrameDuration float64 // seconds; default 3
}

// Run feeds events in timestamp order and rasterizes after each feed,
// before the next event mutates emulator state. Emulator state accumulates
// across events, so frames must not be reordered or skipped.
func Run(emu *term.Emulator, events []asciicast.Event, o Options, sink Sink) error {
	if o.LastFrameDuration <= 0 {
		o.LastFrameDuration = 3
	}

	for i, ev := range events {
		switch ev.Type {
		case asciicast.EventResize:
			cols, rows, err := asciicast.ParseResize(ev.Data)
			if err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
			emu.Resize(cols, rows)
		default:
			if _, err := emu.Write([]byte(ev.Data)); err != nil {
				return fmt.Errorf("event %d: feeding emulator: %w", i, err)
			}
		}

		start := ev.Time
		end := ev.Time + o.LastFrameDuration
		if i+1 < len(events) {
			end = events[i+1].Time
		}

		if err := emitFrames(emu.Snapshot(), start, end, o, sink); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func emitFrames(snap term.Snapshot, start, end float64, o Options, sink Sink) error {
	if o.BlinkPeriod > 0 && !snap.CursorHidden() {
		for n := 0; start < end; n++ {
			d := o.BlinkPeriod
			if n == 0 {
				d = o.BlinkPeriod / 2
			}
			if start+d > end {
				d = end - start
			}
			ro := o.Render
			ro.ShowCursor = n%2 == 0
			img, err := render.Render(snap, ro)
			if err != nil {
				return err
			}
			if err := sink(Frame{Image: img, Duration: d}); err != nil {
				return err
			}
			start += d
		}
		return nil
	}

	img, err := render.Render(snap, o.Render)
	if err != nil {
		return err
	}
	return sink(Frame{Image: img, Duration: end - start})
}

// Collect returns a sink that appends every frame to dst, for callers that
// want the whole sequence in memory.
func Collect(dst *[]Frame) Sink {
	return func(f Frame) error {
		*dst = append(*dst, f)
		return nil
	}
}
