package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Reserved event types written by the wrapper itself. Adapters never emit
// these, so they can share a log with adapter events.
const (
	EventTypeStart = "aiwr_start"
	EventTypeMeta  = "aiwr_meta"
)

// Event is one decoded JSON object line from an adapter's output stream
type Event map[string]interface{}

// NewStartEvent builds the session-start marker
func NewStartEvent(prompt, agent, model string) Event {
	ev := Event{
		"type":   EventTypeStart,
		"prompt": prompt,
		"agent":  agent,
	}
	if model != "" {
		ev["model"] = model
	}
	return ev
}

// NewLinkEvent builds the linkage marker recording a child's parent session
func NewLinkEvent(parentID string) Event {
	return Event{
		"type":      EventTypeMeta,
		"parent_id": parentID,
	}
}

// DecodeEvent decodes a single JSON object. Numbers are kept as json.Number
// so re-encoding does not lose precision.
func DecodeEvent(data []byte) (Event, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, fmt.Errorf("not a JSON object")
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON object")
	}
	return ev, nil
}

// Encode returns the event as a single line of JSON without a trailing newline
func (e Event) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Type returns the "type" discriminator, or "" if absent
func (e Event) Type() string {
	return e.String("type")
}

// String returns a string field, or "" if the field is absent or not a string
func (e Event) String(key string) string {
	s, _ := e[key].(string)
	return s
}

// Map returns a nested object field, or nil if absent or not an object
func (e Event) Map(key string) Event {
	switch v := e[key].(type) {
	case map[string]interface{}:
		return Event(v)
	case Event:
		return v
	default:
		return nil
	}
}

// Has reports whether the field is present
func (e Event) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// IsMarker reports whether the event was written by the wrapper rather than an adapter
func (e Event) IsMarker() bool {
	return strings.HasPrefix(e.Type(), "aiwr_")
}

// IsLink reports whether the event is a linkage marker
func (e Event) IsLink() bool {
	return e.Type() == EventTypeMeta
}

// ParentID returns the parent session id of a linkage marker
func (e Event) ParentID() string {
	if !e.IsLink() {
		return ""
	}
	return e.String("parent_id")
}
