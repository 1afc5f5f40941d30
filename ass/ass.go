// Package ass parses ASS/SSA subtitle documents just far enough for
// playback: the [Events] section with its Dialogue lines and timestamps.
// Styling sections are carried through to the rasterization engine as
// raw text and are not interpreted here.
package ass

import (
	"errors"
	"strings"
)

// Parsing errors.
var (
	// ErrNoEvents is returned when the document has no [Events] section.
	ErrNoEvents = errors.New("ass: no events section")

	// ErrBadTimestamp is returned for a timestamp that is not H:MM:SS.CC.
	ErrBadTimestamp = errors.New("ass: malformed timestamp")
)

// Event is one timed Dialogue entry. Start and End are milliseconds from
// the beginning of playback.
type Event struct {
	Start int64
	End   int64
	Style string
	Name  string
	Text  string
}

// Active reports whether the event is visible at the given time.
// The start bound is inclusive, the end bound exclusive.
func (e Event) Active(timeMS int64) bool {
	return timeMS >= e.Start && timeMS < e.End
}

// PlainText returns the event text as display lines: override blocks
// ({\...}) stripped, \N and \n treated as line breaks, \h as a space.
func (e Event) PlainText() []string {
	var b strings.Builder
	b.Grow(len(e.Text))

	inOverride := false
	for i := 0; i < len(e.Text); i++ {
		c := e.Text[i]
		switch {
		case inOverride:
			if c == '}' {
				inOverride = false
			}
		case c == '{':
			inOverride = true
		case c == '\\' && i+1 < len(e.Text):
			switch e.Text[i+1] {
			case 'N', 'n':
				b.WriteByte('\n')
				i++
			case 'h':
				b.WriteByte(' ')
				i++
			default:
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}

	return strings.Split(b.String(), "\n")
}

// Script is a parsed subtitle document.
type Script struct {
	Events []Event
}

// MaxEnd returns the maximum end timestamp across all events in
// milliseconds, 0 when there are no timed entries.
func (s *Script) MaxEnd() int64 {
	var end int64
	for _, e := range s.Events {
		if e.End > end {
			end = e.End
		}
	}
	return end
}

// EventsAt returns the events visible at the given time, in document
// order.
func (s *Script) EventsAt(timeMS int64) []Event {
	var visible []Event
	for _, e := range s.Events {
		if e.Active(timeMS) {
			visible = append(visible, e)
		}
	}
	return visible
}
