// ABOUTME: Asciicast v2 (JSON lines) parsing: header plus timestamped events
// ABOUTME: Tolerates headerless input when the caller supplies the grid size

package asciicast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Event types, per the asciicast v2 spec.
const (
	EventOutput = "o" // written to stdout
	EventInput  = "i" // read from stdin
	EventResize = "r" // terminal resize, data is "COLSxROWS"
)

// Header is the first line of an asciicast file.
type Header struct {
	Version   int    `json:"version"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Title     string `json:"title,omitempty"`
	Command   string `json:"command,omitempty"`
}

// Event is one timestamped frame. Time is seconds from recording start,
// monotonically nondecreasing (assumed, not validated).
type Event struct {
	Time float64
	Type string
	Data string
}

// Cast is a parsed recording.
type Cast struct {
	Header Header
	Events []Event
}

// Decode reads an asciicast stream. When the first line is a JSON object it
// is parsed as the header; otherwise every line must be an event array and
// the caller has to supply width/height itself.
func Decode(r io.Reader) (*Cast, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	cast := &Cast{}
	first := true
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if first && strings.HasPrefix(text, "{") {
			if err := json.Unmarshal([]byte(text), &cast.Header); err != nil {
				return nil, fmt.Errorf("line %d: parsing header: %w", line, err)
			}
			first = false
			continue
		}
		first = false
		ev, err := parseEvent(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cast.Events = append(cast.Events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading asciicast: %w", err)
	}
	return cast, nil
}

// parseEvent decodes one event line. Index 0 is the timestamp and the last
// index is the frame content; v2 files carry the event type in between.
func parseEvent(text string) (Event, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Event{}, fmt.Errorf("parsing event: %w", err)
	}
	if len(raw) < 2 {
		return Event{}, fmt.Errorf("event has %d elements, need at least 2", len(raw))
	}

	var ev Event
	if err := json.Unmarshal(raw[0], &ev.Time); err != nil {
		return Event{}, fmt.Errorf("parsing event time: %w", err)
	}
	if err := json.Unmarshal(raw[len(raw)-1], &ev.Data); err != nil {
		return Event{}, fmt.Errorf("parsing event data: %w", err)
	}
	ev.Type = EventOutput
	if len(raw) >= 3 {
		if err := json.Unmarshal(raw[1], &ev.Type); err != nil {
			return Event{}, fmt.Errorf("parsing event type: %w", err)
		}
	}
	return ev, nil
}

// Outputs filters the recording down to the events that feed the emulator:
// output plus resize events.
func (c *Cast) Outputs() []Event {
	evs := make([]Event, 0, len(c.Events))
	for _, ev := range c.Events {
		switch ev.Type {
		case EventOutput, EventResize:
			evs = append(evs, ev)
		}
	}
	return evs
}

// ParseResize decodes the "COLSxROWS" payload of a resize event.
func ParseResize(data string) (cols, rows int, err error) {
	c, r, ok := strings.Cut(strings.TrimSpace(data), "x")
	if !ok {
		return 0, 0, fmt.Errorf("malformed resize %q", data)
	}
	cols, err = strconv.Atoi(c)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed resize %q: %w", data, err)
	}
	rows, err = strconv.Atoi(r)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed resize %q: %w", data, err)
	}
	return cols, rows, nil
}
