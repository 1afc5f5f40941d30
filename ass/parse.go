package ass

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	sectionEvents  = "[events]"
	formatPrefix   = "format:"
	dialoguePrefix = "dialogue:"
)

// defaultEventFormat is the V4+ field order used when an [Events]
// section carries no Format line.
var defaultEventFormat = []string{
	"Layer", "Start", "End", "Style", "Name",
	"MarginL", "MarginR", "MarginV", "Effect", "Text",
}

// Parse decodes and parses an ASS/SSA document. The byte stream may be
// UTF-8 (with or without BOM), UTF-16 with BOM, or a legacy Windows-1252
// single-byte encoding; anything else the decoder can represent is
// carried through verbatim.
//
// The parser is lenient with individual entries: malformed Dialogue
// lines are skipped. A document without an [Events] section at all
// fails with ErrNoEvents.
func Parse(data []byte) (*Script, error) {
	text, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("ass: decode: %w", err)
	}

	var (
		script      Script
		inEvents    bool
		foundEvents bool
		format      = defaultEventFormat
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			inEvents = strings.EqualFold(line, sectionEvents)
			if inEvents {
				foundEvents = true
				format = defaultEventFormat
			}
			continue
		}
		if !inEvents {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, formatPrefix):
			format = splitFields(line[len(formatPrefix):], -1)
		case strings.HasPrefix(lower, dialoguePrefix):
			ev, err := parseDialogue(line[len(dialoguePrefix):], format)
			if err != nil {
				// Lenient: a single bad entry does not fail the document.
				continue
			}
			script.Events = append(script.Events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ass: scan: %w", err)
	}

	if !foundEvents {
		return nil, ErrNoEvents
	}
	return &script, nil
}

// decode converts the raw document bytes to a UTF-8 string. A BOM, when
// present, always wins; otherwise valid UTF-8 is passed through and
// anything else is treated as Windows-1252.
func decode(data []byte) (string, error) {
	var t transform.Transformer
	if utf8.Valid(data) {
		t = unicode.BOMOverride(transform.Nop)
	} else {
		t = unicode.BOMOverride(charmap.Windows1252.NewDecoder())
	}

	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseDialogue parses the comma-separated fields of one Dialogue line
// according to the section's Format ordering. The final field (Text) may
// itself contain commas, so the split is capped at the field count.
func parseDialogue(rest string, format []string) (Event, error) {
	fields := splitFields(rest, len(format))
	if len(fields) < len(format) {
		return Event{}, fmt.Errorf("ass: dialogue has %d fields, format names %d", len(fields), len(format))
	}

	var ev Event
	for i, name := range format {
		value := fields[i]
		switch name {
		case "Start":
			start, err := parseTimestamp(value)
			if err != nil {
				return Event{}, err
			}
			ev.Start = start
		case "End":
			end, err := parseTimestamp(value)
			if err != nil {
				return Event{}, err
			}
			ev.End = end
		case "Style":
			ev.Style = value
		case "Name":
			ev.Name = value
		case "Text":
			ev.Text = value
		}
	}
	return ev, nil
}

// splitFields splits a comma-separated field list, trimming whitespace.
// n caps the number of fields (the last field keeps its commas); n < 0
// means no cap.
func splitFields(s string, n int) []string {
	parts := strings.SplitN(s, ",", n)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// parseTimestamp converts an ASS timestamp (H:MM:SS.CC, centisecond
// precision) to milliseconds.
func parseTimestamp(s string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}

	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}

	secParts := strings.SplitN(parts[2], ".", 2)
	seconds, err := strconv.ParseInt(secParts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}
	var centis int64
	if len(secParts) == 2 {
		centis, err = strconv.ParseInt(secParts[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
		}
	}

	return ((hours*3600+minutes*60+seconds)*1000 + centis*10), nil
}
