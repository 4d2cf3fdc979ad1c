package cmd

import (
	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/agent"
	"github.com/iksnae/aiwr/internal/index"
	"github.com/iksnae/aiwr/internal/runner"
	"github.com/iksnae/aiwr/internal/session"
	"github.com/spf13/cobra"
)

// runRequest is one agent invocation as the CLI understood it
type runRequest struct {
	agent     string
	prompt    string
	parentID  string
	sessionID string
	extraArgs []string
}

// workspace is the session directory plus the optional index behind it
type workspace struct {
	dir   *session.Directory
	index *index.Index
}

// openWorkspace opens the log root and, when enabled, the sqlite index.
// An index that fails to open is logged and skipped; the logs stay usable.
func openWorkspace() *workspace {
	ws := &workspace{dir: session.NewDirectory(cfg.ResolveLogDir())}
	if !cfg.Index {
		return ws
	}

	ix, err := index.Open(cfg.ResolveIndexPath())
	if err != nil {
		internal.LogWarn("Index unavailable, scanning logs instead: %v", err)
		return ws
	}
	ws.index = ix
	ws.dir.WithChildFinder(ix)
	return ws
}

func (ws *workspace) Close() {
	if ws.index == nil {
		return
	}
	if err := ws.index.Close(); err != nil {
		internal.LogWarn("Failed to close index: %v", err)
	}
}

// recorder returns the index as a runner.Recorder, or nil when disabled
func (ws *workspace) recorder() runner.Recorder {
	if ws.index == nil {
		return nil
	}
	return ws.index
}

// runAgent executes one run and turns a non-zero tool exit into exitError
func runAgent(cmd *cobra.Command, req runRequest) error {
	a, err := agent.Get(req.agent)
	if err != nil {
		return err
	}

	ws := openWorkspace()
	defer ws.Close()

	r := runner.New(runner.Options{
		Agent:     a,
		Prompt:    req.prompt,
		ExtraArgs: req.extraArgs,
		ParentID:  req.parentID,
		SessionID: req.sessionID,
		Debug:     debug,
		KillGrace: cfg.KillGrace,
		Dir:       ws.dir,
		Recorder:  ws.recorder(),
		Stdout:    cmd.OutOrStdout(),
	})

	code, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}
