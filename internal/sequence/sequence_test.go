// ABOUTME: Tests for frame sequencing: timing policies and event feeding
// ABOUTME: Verifies simple and blinking-cursor durations sum to the event span

package sequence

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"

	"github.com/mauromedda/castmovie/internal/asciicast"
	"github.com/mauromedda/castmovie/internal/render"
	"github.com/mauromedda/castmovie/internal/term"
)

// testOptions uses a private font set so parallel tests never share faces.
func testOptions(t *testing.T) Options {
	t.Helper()
	fonts, err := render.ParseFontSet(gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF)
	if err != nil {
		t.Fatal(err)
	}
	ro := render.DefaultOptions()
	ro.Fonts = fonts
	ro.FontSize = 10
	ro.Margin = 1
	return Options{Render: ro}
}

func durations(frames []Frame) []float64 {
	ds := make([]float64, len(frames))
	for i, f := range frames {
		ds[i] = f.Duration
	}
	return ds
}

func TestSimplePolicy(t *testing.T) {
	t.Parallel()

	events := []asciicast.Event{
		{Time: 0, Type: asciicast.EventOutput, Data: "a"},
		{Time: 1, Type: asciicast.EventOutput, Data: "b"},
		{Time: 3, Type: asciicast.EventOutput, Data: "c"},
	}
	o := testOptions(t)
	o.LastFrameDuration = 3

	var frames []Frame
	if err := Run(term.New(10, 2), events, o, Collect(&frames)); err != nil {
		t.Fatal(err)
	}

	want := []float64{1, 2, 3}
	got := durations(frames)
	if len(got) != len(want) {
		t.Fatalf("durations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("durations = %v, want %v", got, want)
			break
		}
	}
}

func TestBlinkPolicy(t *testing.T) {
	t.Parallel()

	events := []asciicast.Event{
		{Time: 0, Type: asciicast.EventOutput, Data: "a"},
	}
	o := testOptions(t)
	o.BlinkPeriod = 0.5
	o.LastFrameDuration = 2

	var frames []Frame
	if err := Run(term.New(10, 2), events, o, Collect(&frames)); err != nil {
		t.Fatal(err)
	}

	// Half a period with the cursor shown, then alternating full periods,
	// the last frame clamped so everything sums to the event span.
	want := []float64{0.25, 0.5, 0.5, 0.5, 0.25}
	got := durations(frames)
	if len(got) != len(want) {
		t.Fatalf("durations = %v, want %v", got, want)
	}
	var sum float64
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("durations = %v, want %v", got, want)
			break
		}
		sum += got[i]
	}
	if sum != 2 {
		t.Errorf("durations sum to %v, want exactly 2", sum)
	}

	// Adjacent sub-frames alternate cursor visibility, so their pixels differ.
	if bytes.Equal(frames[0].Image.Pix, frames[1].Image.Pix) {
		t.Error("cursor-shown and cursor-hidden frames are identical")
	}
	if !bytes.Equal(frames[0].Image.Pix, frames[2].Image.Pix) {
		t.Error("two cursor-shown frames of the same state differ")
	}
}

func TestBlinkWithHiddenCursor(t *testing.T) {
	t.Parallel()

	events := []asciicast.Event{
		{Time: 0, Type: asciicast.EventOutput, Data: "\x1b[?25la"},
	}
	o := testOptions(t)
	o.BlinkPeriod = 0.5
	o.LastFrameDuration = 2

	var frames []Frame
	if err := Run(term.New(10, 2), events, o, Collect(&frames)); err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1: blinking a hidden cursor is pointless", len(frames))
	}
	if frames[0].Duration != 2 {
		t.Errorf("duration = %v, want 2", frames[0].Duration)
	}
}

func TestResizeEvent(t *testing.T) {
	t.Parallel()

	events := []asciicast.Event{
		{Time: 0, Type: asciicast.EventOutput, Data: "a"},
		{Time: 1, Type: asciicast.EventResize, Data: "20x4"},
	}
	o := testOptions(t)
	o.LastFrameDuration = 1

	var frames []Frame
	if err := Run(term.New(10, 2), events, o, Collect(&frames)); err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	small := frames[0].Image.Bounds()
	big := frames[1].Image.Bounds()
	if big.Dx() <= small.Dx() || big.Dy() <= small.Dy() {
		t.Errorf("resize to 20x4 did not grow the frame: %v then %v", small, big)
	}
}

func TestBadResizePayload(t *testing.T) {
	t.Parallel()

	events := []asciicast.Event{
		{Time: 0, Type: asciicast.EventResize, Data: "bogus"},
	}
	discard := func(Frame) error { return nil }
	if err := Run(term.New(10, 2), events, testOptions(t), discard); err == nil {
		t.Error("expected error for malformed resize payload")
	}
}

func TestSinkErrorStopsRun(t *testing.T) {
	t.Parallel()

	events := []asciicast.Event{
		{Time: 0, Type: asciicast.EventOutput, Data: "a"},
		{Time: 1, Type: asciicast.EventOutput, Data: "b"},
	}
	sinkErr := errors.New("sink full")
	calls := 0
	err := Run(term.New(10, 2), events, testOptions(t), func(Frame) error {
		calls++
		return sinkErr
	})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("err = %v, want wrapped sink error", err)
	}
	if calls != 1 {
		t.Errorf("sink called %d times after failing, want 1", calls)
	}
}
