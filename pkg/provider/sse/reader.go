// Package sse decodes the Server-Sent Events framing used by the upstream
// streaming endpoints.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds a single SSE line. Generated code arrives in small
// deltas, so 1 MiB leaves ample headroom.
const maxLineSize = 1 << 20

// Event is one dispatched SSE event. Name is empty when the upstream sent
// no "event:" field.
type Event struct {
	Name string
	Data string
}

// Reader reads SSE events from an upstream response body.
//
// Reader is not safe for concurrent use.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader returns a Reader that decodes events from r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next event. It returns io.EOF when the stream ends
// cleanly. A partially received event at EOF is still dispatched.
// Comment lines (":" prefix) and unknown fields are ignored; multiple
// "data:" lines are joined with "\n".
func (r *Reader) Next() (Event, error) {
	var (
		ev      Event
		data    []string
		hasData bool
	)

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if hasData {
				ev.Data = strings.Join(data, "\n")
				return ev, nil
			}
			// A blank line without data resets the pending event name.
			ev = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			ev.Name = value
		case "data":
			data = append(data, value)
			hasData = true
		}
	}

	if err := r.scanner.Err(); err != nil {
		return Event{}, err
	}
	if hasData {
		ev.Data = strings.Join(data, "\n")
		return ev, nil
	}
	return Event{}, io.EOF
}
