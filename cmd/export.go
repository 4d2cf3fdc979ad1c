package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/export"
	"github.com/iksnae/aiwr/internal/session"
	"github.com/spf13/cobra"
)

var (
	format     string
	outputDir  string
	compress   bool
	exportTree bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [session-id...]",
	Short: "Export sessions to file",
	Long: `Export sessions to various formats (` + strings.Join(export.Formats, ", ") + `), one file per
session. With no ids every logged session is exported. --tree also exports
the descendants of each given session. Use 'aiwr list' to see session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		ws := openWorkspace()
		defer ws.Close()

		var sessions []*internal.Session
		var written []string
		steps := []internal.ProgressStep{
			{
				Message: "Loading sessions",
				Fn: func() error {
					nodes, err := selectNodes(ws.dir, args, exportTree)
					if err != nil {
						return err
					}
					normalizer := session.NewNormalizer()
					for _, node := range nodes {
						s, err := normalizer.Normalize(node, ws.dir.Bucket(node.Path))
						if err != nil {
							internal.LogWarn("Skipping session %s: %v", node.ID, err)
							continue
						}
						sessions = append(sessions, s)
					}
					return nil
				},
			},
			{
				Message: fmt.Sprintf("Writing %s files to %s", exporter.Extension(), outputDir),
				Fn: func() error {
					paths, werr := export.WriteFile(exporter, sessions, outputDir, compress)
					written = paths
					return werr
				},
			},
		}
		if err := internal.ShowProgressWithSteps(cmd.Context(), cmd.ErrOrStderr(), steps); err != nil {
			return err
		}

		if len(written) == 0 {
			internal.PrintWarning(cmd.ErrOrStderr(), "No sessions exported")
			return nil
		}
		for _, path := range written {
			internal.LogDebug("Wrote %s", path)
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", len(written), outputDir))
		return nil
	},
}

// selectNodes returns the sessions named by ids, or every session when ids
// is empty. withTree adds each named session's descendants.
func selectNodes(d *session.Directory, ids []string, withTree bool) ([]*session.Node, error) {
	var roots []*session.Node
	if len(ids) == 0 {
		groups, err := d.Roots()
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			roots = append(roots, g.Nodes...)
		}
		withTree = true
	} else {
		for _, id := range ids {
			node, err := d.Tree(id)
			if err != nil {
				return nil, err
			}
			roots = append(roots, node)
		}
	}

	seen := map[string]bool{}
	var nodes []*session.Node
	var walk func(n *session.Node)
	walk = func(n *session.Node) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		nodes = append(nodes, n)
		if withTree {
			for _, child := range n.Children {
				walk(child)
			}
		}
	}
	for _, n := range roots {
		walk(n)
	}
	return nodes, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.Formats, ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().BoolVar(&compress, "compress", false, "Compress each file with zstd")
	exportCmd.Flags().BoolVar(&exportTree, "tree", false, "Also export each session's descendants")
}
