package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/aiwr/internal/agent"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models [agent]",
	Short: "Show the model aliases of each agent",
	Long: `Show every model alias an agent accepts with --model, the model ID it
maps to and any extra arguments it adds. The default model is marked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agents := agent.All()
		if len(args) == 1 {
			a, err := agent.Get(args[0])
			if err != nil {
				return err
			}
			agents = []agent.Agent{a}
		}
		writeModelsTable(cmd.OutOrStdout(), agents)
		return nil
	},
}

func writeModelsTable(w io.Writer, agents []agent.Agent) {
	for i, a := range agents {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(capitalize(a.Name())+" models:"))
		fmt.Fprintf(w, "  %-12s %-9s %-30s %s\n", "Alias", "Default", "Model ID", "Extra args")
		fmt.Fprintf(w, "  %s %s %s %s\n", strings.Repeat("-", 12), strings.Repeat("-", 9), strings.Repeat("-", 30), strings.Repeat("-", 15))

		for _, m := range a.Models() {
			def := ""
			if m.Default {
				def = "✓"
			}
			extra := "-"
			if len(m.ExtraArgs) > 0 {
				extra = strings.Join(m.ExtraArgs, ", ")
			}
			// %-9s pads by bytes; the check mark is three
			fmt.Fprintf(w, "  %-12s %s %-30s %s\n", m.Alias, padRunes(def, 9), m.ID, extra)
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func padRunes(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
