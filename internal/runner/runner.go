// Package runner executes one agent run: it spawns the tool, streams its
// events into a session log and prints the wrapper's own status lines.
package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/agent"
	"github.com/iksnae/aiwr/internal/session"
)

// ExitInterrupted is the exit code of a run stopped by SIGINT or SIGTERM
const ExitInterrupted = 130

// Recorder is told about every saved session log
type Recorder interface {
	Record(id, parentID, path string) error
}

// Options configure a run
type Options struct {
	Agent     agent.Agent
	Prompt    string
	ExtraArgs []string
	// ParentID links a new session under an existing one
	ParentID string
	// SessionID continues an existing session instead of starting one
	SessionID string
	Debug     bool
	// KillGrace is how long an interrupted tool has to exit before SIGKILL
	KillGrace time.Duration

	Dir      *session.Directory
	Recorder Recorder
	Stdout   io.Writer
}

// Runner executes one run. It is not reusable.
type Runner struct {
	opts   Options
	argv   []string
	log    *session.Log
	acc    *agent.Accumulator
	logger *log.Logger

	// sessionID is the id the log is stored under once known
	sessionID string
	// toolSessionID is the first id the tool reported
	toolSessionID string
}

// New prepares a run. Nothing is printed or spawned until Run.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.KillGrace <= 0 {
		opts.KillGrace = internal.DefaultKillGrace
	}

	r := &Runner{
		opts:   opts,
		argv:   opts.Agent.BuildCommand(opts.Prompt, opts.ExtraArgs, opts.SessionID),
		log:    session.NewLog("", opts.SessionID != ""),
		acc:    agent.NewAccumulator(opts.Agent),
		logger: internal.Logger("runner"),
	}
	return r
}

// Command returns the argv the tool is started with
func (r *Runner) Command() []string {
	return r.argv
}

// SessionID returns the id the run was logged under, once known
func (r *Runner) SessionID() string {
	return r.sessionID
}

// Run starts the tool and blocks until it exits or ctx is cancelled.
// Cancelling ctx sends SIGTERM and, after the kill grace, SIGKILL. The log
// is saved on every path once the tool has started. The returned code is
// the tool's exit code, or ExitInterrupted when ctx was cancelled.
func (r *Runner) Run(ctx context.Context) (code int, err error) {
	name := r.opts.Agent.Name()
	model := r.opts.Agent.Model(r.opts.ExtraArgs)

	r.println("Start agent...")
	start := internal.NewStartEvent(r.opts.Prompt, name, model)
	r.printEvent(start)
	r.log.Append(start)
	// a continued session already carries its linkage marker
	if r.opts.ParentID != "" && r.opts.SessionID == "" {
		r.log.Append(internal.NewLinkEvent(r.opts.ParentID))
	}

	if r.opts.Debug {
		r.println("[DEBUG] " + shellquote.Join(r.argv...))
	}

	path, err := exec.LookPath(r.argv[0])
	if err != nil {
		return 1, &internal.ExecutableNotFoundError{Command: r.argv[0], Err: err}
	}

	cmd := exec.CommandContext(ctx, path, r.argv[1:]...)
	cmd.Stderr = io.Discard
	cmd.Cancel = func() error {
		r.logger.Debug("interrupt, terminating tool", "pid", cmd.Process.Pid, "grace", r.opts.KillGrace)
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.opts.KillGrace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 1, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("start %s: %w", r.argv[0], err)
	}
	r.logger.Debug("started tool", "agent", name, "pid", cmd.Process.Pid)

	defer func() {
		if ferr := r.finalize(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	if rerr := readLines(stdout, session.MaxLineSize, r.handleLine, r.dropLongLine); rerr != nil {
		r.logger.Warn("stopped reading tool output", "err", rerr)
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return ExitInterrupted, nil
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		return 0, nil
	case errors.As(waitErr, &exitErr):
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		return 1, nil
	default:
		return 1, fmt.Errorf("wait %s: %w", r.argv[0], waitErr)
	}
}

func (r *Runner) handleLine(line string) {
	ev, ok := r.opts.Agent.ParseLine(line)
	if !ok {
		r.logger.Debug("dropped non-event line", "line", truncate(line, 80))
		return
	}
	r.log.Append(ev)

	if r.toolSessionID == "" {
		if id := r.opts.Agent.ExtractSessionID(ev); id != "" {
			r.toolSessionID = id
			r.printJSON(struct {
				SessionID string `json:"session_id"`
				Agent     string `json:"agent"`
			}{id, r.opts.Agent.Name()})
			r.assignSession(id)
		}
	}

	r.acc.Feed(ev)
}

func (r *Runner) dropLongLine(size int) {
	r.logger.Warn("dropped oversized output line", "bytes", size, "max", session.MaxLineSize)
}

// readLines calls fn for every line of rd. A line longer than limit is
// skipped whole and reported to tooLong; reading continues after it.
func readLines(rd io.Reader, limit int, fn func(string), tooLong func(size int)) error {
	br := bufio.NewReaderSize(rd, 64*1024)
	var line []byte
	size := 0
	for {
		frag, more, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		size += len(frag)
		if size <= limit {
			line = append(line, frag...)
		}
		if more {
			continue
		}
		if size > limit {
			tooLong(size)
		} else {
			fn(string(line))
		}
		line = line[:0]
		size = 0
	}
}

// assignSession fixes the id and log path. A continued session keeps its
// own id and file; a new one takes the tool's id.
func (r *Runner) assignSession(toolID string) {
	id := r.opts.SessionID
	if id == "" {
		id = toolID
	}
	r.sessionID = id
	r.log.SetPath(r.resolvePath(id))
}

func (r *Runner) resolvePath(id string) string {
	if r.opts.SessionID != "" {
		if path, err := r.opts.Dir.Locate(id); err == nil {
			return path
		}
	}
	path, err := r.opts.Dir.LogPath(id, r.opts.ParentID)
	if err != nil {
		r.logger.Error("could not place log under parent, using today's bucket", "session", id, "err", err)
		return filepath.Join(r.opts.Dir.Root(), r.opts.Dir.Today(), id+session.LogExt)
	}
	return path
}

// finalize runs exactly once per started tool
func (r *Runner) finalize() error {
	if r.sessionID == "" {
		id := r.opts.SessionID
		if id == "" {
			id = uuid.NewString()[:8]
		}
		r.assignSession(id)
	}

	if r.opts.SessionID != "" {
		// the session may have been promoted under a child while we ran
		if path, err := r.opts.Dir.Locate(r.sessionID); err == nil && path != r.log.Path() {
			r.logger.Debug("continued session moved, following it", "from", r.log.Path(), "to", path)
			r.log.SetPath(path)
		}
	}

	if result := r.acc.Result(); result != "" {
		r.printJSON(struct {
			Result string `json:"result"`
			Agent  string `json:"agent"`
		}{result, r.opts.Agent.Name()})
	}

	path, err := r.log.Save()
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	r.logger.Debug("session saved", "session", r.sessionID, "path", path)

	if r.opts.Recorder != nil {
		parentID, err := session.ParentID(path)
		if err == nil {
			err = r.opts.Recorder.Record(r.sessionID, parentID, path)
		}
		if err != nil {
			r.logger.Warn("index not updated, run 'aiwr index rebuild'", "session", r.sessionID, "err", err)
		}
	}
	return nil
}

func (r *Runner) println(s string) {
	_, _ = fmt.Fprintln(r.opts.Stdout, s)
}

func (r *Runner) printEvent(ev internal.Event) {
	data, err := ev.Encode()
	if err != nil {
		r.logger.Error("encode event", "err", err)
		return
	}
	r.println(string(data))
}

func (r *Runner) printJSON(v interface{}) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		r.logger.Error("encode status line", "err", err)
		return
	}
	_, _ = io.WriteString(r.opts.Stdout, buf.String())
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
