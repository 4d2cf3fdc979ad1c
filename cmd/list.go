package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/aiwr/internal/session"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

// listPromptWidth is the longest prompt printed before truncation
const listPromptWidth = 50

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions as a tree, grouped by date",
	Long: `List every root session under the log root with its child sessions
indented beneath it, newest date first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws := openWorkspace()
		defer ws.Close()

		groups, err := ws.dir.Roots()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(groups) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		writeSessionList(out, groups)
		return nil
	},
}

func writeSessionList(w io.Writer, groups []session.DateGroup) {
	for _, group := range groups {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Sessions (%s):", group.Date)))
		for _, node := range group.Nodes {
			writeListNode(w, node, 0)
		}
		fmt.Fprintln(w)
	}
}

func writeListNode(w io.Writer, node *session.Node, depth int) {
	prefix := ""
	if depth > 0 {
		prefix = strings.Repeat("  ", depth) + "└─ "
	}

	prompt := node.Prompt
	if prompt == "" {
		prompt = "unknown"
	}
	prompt = truncateRunes(strings.Join(strings.Fields(prompt), " "), listPromptWidth)

	status := node.Status
	if status == "" {
		status = "unknown"
	}

	fmt.Fprintf(w, "%s%s  [%s]  [%s]  \"%s\"\n", prefix, node.ID, node.Agent, status, prompt)
	for _, child := range node.Children {
		writeListNode(w, child, depth+1)
	}
}

// truncateRunes shortens s to max runes, ending in "..." when cut
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	rootCmd.AddCommand(listCmd)
}
