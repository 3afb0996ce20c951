// Package replay parses keypad event scripts and feeds them through a session.
//
// A script has one event per line: "<offset-ms> down|up <key>". Blank lines and
// lines starting with '#' are ignored. Offsets are relative to the start of the
// replay and must not decrease.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/tenkey/internal/session"
)

// Kind is the event direction.
type Kind int

// Event kinds.
const (
	Down Kind = iota
	Up
)

// Event is a single scripted key transition.
type Event struct {
	Offset time.Duration
	Kind   Kind
	Key    string
	Line   int
}

// Parse reads an event script.
func Parse(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	lineNo := 0
	var last time.Duration
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected \"<ms> down|up <key>\", got %q", lineNo, line)
		}
		ms, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil || ms < 0 || ms > math.MaxInt64/int64(time.Millisecond) {
			return nil, fmt.Errorf("line %d: invalid offset %q", lineNo, fields[0])
		}
		offset := time.Duration(ms) * time.Millisecond
		if offset < last {
			return nil, fmt.Errorf("line %d: offset %dms is before previous event", lineNo, ms)
		}
		last = offset

		var kind Kind
		switch strings.ToLower(fields[1]) {
		case "down":
			kind = Down
		case "up":
			kind = Up
		default:
			return nil, fmt.Errorf("line %d: unknown event %q", lineNo, fields[1])
		}
		events = append(events, Event{Offset: offset, Kind: kind, Key: fields[2], Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Step is the outcome of one replayed event.
type Step struct {
	Event   Event
	Gesture session.Gesture
}

// Run delivers events to s with timestamps relative to start and returns one
// Step per event.
func Run(s *session.Session, events []Event, start time.Time) []Step {
	steps := make([]Step, 0, len(events))
	for _, ev := range events {
		now := start.Add(ev.Offset)
		step := Step{Event: ev}
		switch ev.Kind {
		case Down:
			step.Gesture = s.OnKeyDown(ev.Key, now)
		case Up:
			s.OnKeyUp(ev.Key, now)
		}
		steps = append(steps, step)
	}
	return steps
}

// String renders the event in script form.
func (e Event) String() string {
	kind := "down"
	if e.Kind == Up {
		kind = "up"
	}
	return fmt.Sprintf("%d %s %s", e.Offset.Milliseconds(), kind, e.Key)
}
