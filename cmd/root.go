package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/agent"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logDir     string

	agentName string
	parentID  string
	sessionID string
	modelName string
	debug     bool

	// cfg is loaded before any command runs
	cfg *internal.Config
)

// exitError carries a tool's exit code out of a command without an error message
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// rootCmd runs a prompt when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "aiwr [prompt] [-- extra tool args]",
	Short: "Run AI coding assistants with session-tree logging",
	Long: `aiwr runs an AI coding-assistant CLI (claude, codex, gemini, opencode),
streams its JSON events to stdout and logs them as JSONL under a dated
session directory. Sessions can be nested with --parent and resumed later
from their logs.

Quick Start:
  aiwr "fix the failing test"                  # run the default agent
  aiwr --agent codex --model gpt52 "add tests"  # pick agent and model
  aiwr --parent abc123 "review the change"      # log as a child session
  aiwr list                                     # show the session tree
  aiwr resume-tree abc123 "now open a PR"       # continue a whole tree

Arguments after -- are passed to the tool unchanged.`,
	Version:       "dev",
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if logDir != "" {
			// exported so nested aiwr calls made by the tool log under the same root
			if err := os.Setenv(internal.EnvLogDir, logDir); err != nil {
				return err
			}
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		positional, extra := splitDash(cmd, args)
		if len(positional) == 0 {
			_ = cmd.Help()
			return &exitError{code: 1}
		}
		if len(positional) > 1 {
			return fmt.Errorf("expected a single prompt argument, got %d (quote the prompt, put tool flags after --)", len(positional))
		}

		name := agentName
		if name == "" {
			name = cfg.ResolveDefaultAgent()
		}

		var model agent.Model
		var err error
		if modelName != "" {
			model, err = agent.ResolveModel(name, modelName)
		} else {
			model, err = agent.DefaultModel(name)
		}
		if err != nil {
			return err
		}

		toolArgs := append([]string{"--model", model.ID}, agent.MergeExtraArgs(model.ExtraArgs, extra)...)
		return runAgent(cmd, runRequest{
			agent:     name,
			prompt:    positional[0],
			parentID:  parentID,
			sessionID: sessionID,
			extraArgs: toolArgs,
		})
	},
}

// SetVersionInfo sets the version printed by --version
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// splitDash separates positional arguments from those after "--"
func splitDash(cmd *cobra.Command, args []string) (positional, extra []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}

// positionalArgs checks the argument count before "--"; anything after it
// belongs to the tool
func positionalArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		positional, _ := splitDash(cmd, args)
		if n := len(positional); n < min || n > max {
			return fmt.Errorf("accepts between %d and %d arg(s) before --, received %d", min, max, n)
		}
		return nil
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./.aiwr/config.yaml, then ~/.config/aiwr/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Session log root (overrides $"+internal.EnvLogDir+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print the tool command before running it")

	rootCmd.Flags().StringVar(&agentName, "agent", "", "Agent to use ("+strings.Join(agent.Names(), ", ")+"); default $"+internal.EnvDefaultAgent+" or claude")
	rootCmd.Flags().StringVar(&parentID, "parent", "", "Parent session ID for nested calls")
	rootCmd.Flags().StringVar(&sessionID, "session", "", "Continue an existing session (appends to its log)")
	rootCmd.Flags().StringVar(&modelName, "model", "", "Model alias (see 'aiwr models')")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
