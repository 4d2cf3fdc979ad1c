// Package session stores adapter event streams as JSONL logs in a dated
// directory tree and rebuilds session context from them.
package session

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/aiwr/internal"
)

// ResumeSeparator marks where a resumed run's events begin in a log file
const ResumeSeparator = "----------"

// Log buffers the events of one run until they are saved
type Log struct {
	path   string
	resume bool
	events []internal.Event
}

// NewLog creates a log buffer. path may be empty until the session id is
// known. resume means the run continues an existing session.
func NewLog(path string, resume bool) *Log {
	return &Log{path: path, resume: resume}
}

func (l *Log) SetPath(path string) { l.path = path }
func (l *Log) Path() string        { return l.path }
func (l *Log) Len() int            { return len(l.events) }

// Append buffers an event. Nothing is written until Save.
func (l *Log) Append(ev internal.Event) {
	l.events = append(l.events, ev)
}

// Save writes buffered events and returns the file path, or "" when there
// was nothing to write. An existing file is appended to, behind a separator
// line when the log belongs to a resumed run.
func (l *Log) Save() (string, error) {
	if l.path == "" || len(l.events) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	for _, ev := range l.events {
		data, err := ev.Encode()
		if err != nil {
			return "", &internal.StorageError{Path: l.path, Op: "write", Err: err}
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return "", &internal.StorageError{Path: l.path, Op: "write", Err: err}
	}

	_, statErr := os.Stat(l.path)
	exists := statErr == nil

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return "", &internal.StorageError{Path: l.path, Op: "open", Err: err}
	}
	defer f.Close()

	if l.resume && exists {
		if _, err := f.WriteString(ResumeSeparator + "\n"); err != nil {
			return "", &internal.StorageError{Path: l.path, Op: "write", Err: err}
		}
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return "", &internal.StorageError{Path: l.path, Op: "write", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &internal.StorageError{Path: l.path, Op: "write", Err: err}
	}

	internal.Logger("session").Debug("saved log", "path", l.path, "events", len(l.events), "resume", l.resume)
	l.events = nil
	return l.path, nil
}

// Load reads every event of a log file in order. Separator and blank lines
// are skipped; any other line that does not decode fails the whole load.
func Load(path string) ([]internal.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &internal.StorageError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), MaxLineSize)

	events := []internal.Event{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == ResumeSeparator {
			continue
		}
		ev, err := internal.DecodeEvent([]byte(line))
		if err != nil {
			return nil, &internal.CorruptLogError{Path: path, Line: lineNo, Err: err}
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &internal.CorruptLogError{Path: path, Line: lineNo + 1, Err: err}
		}
		return nil, &internal.StorageError{Path: path, Op: "read", Err: err}
	}
	return events, nil
}

// MaxLineSize bounds a single event line, stored or streamed
const MaxLineSize = 16 * 1024 * 1024
