// ABOUTME: Tests for duration-to-frame conversion and ffmpeg invocation setup
// ABOUTME: The encoder subprocess itself is exercised end to end, not here

package video

import (
	"context"
	"image"
	"slices"
	"strings"
	"testing"
)

func TestFrameCounterCarriesRoundingError(t *testing.T) {
	t.Parallel()

	// 0.25s at 10fps is 2.5 frames: the half-frame carry alternates the
	// output between 3 and 2 so every four calls total exactly 10 frames.
	c := frameCounter{fps: 10}
	var got []int
	for i := 0; i < 4; i++ {
		got = append(got, c.add(0.25))
	}
	want := []int{3, 2, 3, 2}
	if !slices.Equal(got, want) {
		t.Errorf("repeats = %v, want %v", got, want)
	}
}

func TestFrameCounterExactDurations(t *testing.T) {
	t.Parallel()

	c := frameCounter{fps: 24}
	if n := c.add(1.0); n != 24 {
		t.Errorf("1s at 24fps = %d frames, want 24", n)
	}
	if n := c.add(0.5); n != 12 {
		t.Errorf("0.5s at 24fps = %d frames, want 12", n)
	}
}

func TestFrameCounterTinyDurations(t *testing.T) {
	t.Parallel()

	// Many sub-frame durations must not vanish: the carry accumulates until
	// a whole frame is due.
	c := frameCounter{fps: 10}
	total := 0
	for i := 0; i < 100; i++ {
		total += c.add(0.01)
	}
	if total != 10 {
		t.Errorf("100 x 0.01s at 10fps = %d frames, want 10", total)
	}
}

func TestFfmpegArgs(t *testing.T) {
	t.Parallel()

	args := strings.Join(ffmpegArgs(641, 385, 24, "out.mp4"), " ")
	for _, want := range []string{
		"-f rawvideo",
		"-pixel_format rgba",
		"-video_size 641x385",
		"-framerate 24",
		"-c:v libx264",
		"-pix_fmt yuv420p",
		"pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-movflags +faststart",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("args missing %q: %s", want, args)
		}
	}
	if !strings.HasSuffix(args, "out.mp4") {
		t.Errorf("output path should come last: %s", args)
	}
}

func TestFfmpegArgsGif(t *testing.T) {
	t.Parallel()

	args := strings.Join(ffmpegArgs(640, 384, 12, "demo.GIF"), " ")
	for _, banned := range []string{"libx264", "yuv420p", "faststart"} {
		if strings.Contains(args, banned) {
			t.Errorf("gif output should not carry %q: %s", banned, args)
		}
	}
}

func TestPacked(t *testing.T) {
	t.Parallel()

	tight := image.NewRGBA(image.Rect(0, 0, 3, 2))
	if got := packed(tight); len(got) != 3*2*4 {
		t.Errorf("tight image packed to %d bytes, want %d", len(got), 3*2*4)
	}

	// A subimage has a wider stride than its own row length.
	base := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for i := range base.Pix {
		base.Pix[i] = byte(i)
	}
	sub := base.SubImage(image.Rect(2, 1, 5, 3)).(*image.RGBA)
	got := packed(sub)
	if len(got) != 3*2*4 {
		t.Fatalf("subimage packed to %d bytes, want %d", len(got), 3*2*4)
	}
	wantFirst := base.Pix[1*base.Stride+2*4]
	if got[0] != wantFirst {
		t.Errorf("first packed byte = %d, want %d", got[0], wantFirst)
	}
}

func TestStderrTail(t *testing.T) {
	t.Parallel()

	short := "one error line"
	if got := stderrTail(short); got != short {
		t.Errorf("got %q", got)
	}

	long := "a\nb\nc\nd\ne\nf\n"
	got := stderrTail(long)
	if strings.Contains(got, "a") || strings.Contains(got, "b") {
		t.Errorf("tail kept early lines: %q", got)
	}
	if got != "c | d | e | f" {
		t.Errorf("tail = %q, want last four lines joined", got)
	}
}

func TestNewEncoderMissingBinary(t *testing.T) {
	t.Parallel()

	_, err := NewEncoder(context.Background(), Options{
		Path:   "out.mp4",
		FFmpeg: "definitely-not-a-real-encoder-binary",
	})
	if err == nil {
		t.Fatal("expected lookup error for a missing ffmpeg binary")
	}
}
