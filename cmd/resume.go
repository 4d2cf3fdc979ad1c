package cmd

import (
	"fmt"

	"github.com/iksnae/aiwr/internal/agent"
	"github.com/iksnae/aiwr/internal/session"
	"github.com/spf13/cobra"
)

var (
	resumeModel    string
	resumeMaxLines int
)

var resumeCmd = &cobra.Command{
	Use:   "resume <session-id> [addition] [-- extra tool args]",
	Short: "Start a new run seeded with a previous session's transcript",
	Long: `Start a new run of the session's agent with a prompt built from the
session's log: its original prompt, status and transcript, followed by an
optional addition.`,
	Args: positionalArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResume(cmd, args, func(d *session.Directory, id, extra string) (string, error) {
			return session.BuildResumePrompt(d, id, extra)
		})
	},
}

var resumeTreeCmd = &cobra.Command{
	Use:   "resume-tree <session-id> [addition] [-- extra tool args]",
	Short: "Start a new run seeded with a whole session tree",
	Long: `Start a new run of the root session's agent with a prompt built from
the session and all of its descendants. Each session's transcript is cut to
--max-lines, keeping the head and the tail.`,
	Args: positionalArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxLines := resumeMaxLines
		if !cmd.Flags().Changed("max-lines") {
			maxLines = cfg.TreeMaxLines
		}
		return runResume(cmd, args, func(d *session.Directory, id, extra string) (string, error) {
			return session.BuildTreePrompt(d, id, extra, maxLines)
		})
	},
}

type promptBuilder func(d *session.Directory, id, extra string) (string, error)

func runResume(cmd *cobra.Command, args []string, build promptBuilder) error {
	positional, extra := splitDash(cmd, args)
	if len(positional) == 0 {
		return fmt.Errorf("missing session id")
	}
	id := positional[0]
	addition := ""
	if len(positional) > 1 {
		addition = positional[1]
	}

	ws := openWorkspace()
	name, err := ws.dir.SessionAgent(id)
	if err != nil {
		ws.Close()
		return err
	}
	prompt, err := build(ws.dir, id, addition)
	ws.Close()
	if err != nil {
		return err
	}

	toolArgs := extra
	if resumeModel != "" {
		model, err := agent.ResolveModel(name, resumeModel)
		if err != nil {
			return err
		}
		toolArgs = append([]string{"--model", model.ID}, agent.MergeExtraArgs(model.ExtraArgs, extra)...)
	}

	return runAgent(cmd, runRequest{
		agent:     name,
		prompt:    prompt,
		extraArgs: toolArgs,
	})
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(resumeTreeCmd)

	for _, c := range []*cobra.Command{resumeCmd, resumeTreeCmd} {
		c.Flags().StringVar(&resumeModel, "model", "", "Model alias for the new run (default: the tool's own default)")
	}
	resumeTreeCmd.Flags().IntVar(&resumeMaxLines, "max-lines", 0, "Transcript lines kept per session (default from config, 50)")
}
