package cmd

import (
	"fmt"

	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/index"
	"github.com/iksnae/aiwr/internal/session"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the session linkage index",
	Long: `The index is a SQLite file recording each session's parent so child
lookups do not scan every log. Enable it with "index: true" in config.yaml.
The logs stay authoritative; the index can be rebuilt from them at any time.`,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the session logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.ResolveIndexPath()
		ix, err := index.Open(path)
		if err != nil {
			return err
		}
		defer ix.Close()

		d := session.NewDirectory(cfg.ResolveLogDir())
		var count int
		err = internal.ShowProgress(cmd.Context(), cmd.ErrOrStderr(), "Indexing "+d.Root(), func() error {
			n, rerr := ix.Rebuild(d)
			count = n
			return rerr
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Indexed %d session(s) into %s", count, path))
		if !cfg.Index {
			internal.PrintWarning(cmd.ErrOrStderr(), "The index is disabled; set \"index: true\" in config.yaml to use it")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexRebuildCmd)
}
