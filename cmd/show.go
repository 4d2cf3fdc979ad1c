package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/session"
	"github.com/spf13/cobra"
)

var (
	showLimit  int
	showTree   bool
	showEvents bool
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	toolMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	messageContentStyle = lipgloss.NewStyle().
				PaddingLeft(2)
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's conversation",
	Long: `Display one session: its agent, model, status and linkage, followed
by the conversation reconstructed from its log. --tree prints the session's
subtree instead, --events prints the raw logged events.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws := openWorkspace()
		defer ws.Close()

		node, err := ws.dir.Tree(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch {
		case showTree:
			writeListNode(out, node, 0)
			return nil
		case showEvents:
			return writeEvents(out, node.Events)
		}

		s, err := session.NewNormalizer().Normalize(node, ws.dir.Bucket(node.Path))
		if err != nil {
			return fmt.Errorf("failed to normalize session: %w", err)
		}
		displaySessionHeader(out, s)

		messages := s.Messages
		total := len(messages)
		if showLimit > 0 && showLimit < total {
			messages = messages[:showLimit]
		}
		for i, msg := range messages {
			displayMessage(out, i+1, msg, total)
		}
		if showLimit > 0 && showLimit < total {
			fmt.Fprintln(out, sessionMetaStyle.Italic(true).Render(fmt.Sprintf("... (%d more message(s))", total-showLimit)))
		}
		return nil
	},
}

func displaySessionHeader(w io.Writer, s *internal.Session) {
	fmt.Fprintln(w, sessionHeaderStyle.Render(fmt.Sprintf("Session %s (%s)", s.ID, s.Agent)))

	meta := s.Metadata
	var parts []string
	if meta.Model != "" {
		parts = append(parts, "Model: "+meta.Model)
	}
	parts = append(parts, "Status: "+orDefault(meta.Status, "unknown"))
	if meta.Date != "" {
		parts = append(parts, "Date: "+meta.Date)
	}
	if meta.ParentID != "" {
		parts = append(parts, "Parent: "+meta.ParentID)
	}
	if len(meta.Children) > 0 {
		parts = append(parts, "Children: "+strings.Join(meta.Children, ", "))
	}
	parts = append(parts, fmt.Sprintf("Messages: %d", len(s.Messages)))
	fmt.Fprintln(w, sessionMetaStyle.Render(strings.Join(parts, " • ")))
	fmt.Fprintln(w)
}

func displayMessage(w io.Writer, index int, msg internal.Message, total int) {
	var label string
	switch msg.Actor {
	case "user":
		label = userMessageStyle.Render("User")
	case "assistant":
		label = assistantMessageStyle.Render("Assistant")
	default:
		label = toolMessageStyle.Render(msg.Actor)
	}
	fmt.Fprintln(w, label+" "+idStyle.Render(fmt.Sprintf("[%d/%d]", index, total)))

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		content = "(empty message)"
	}
	fmt.Fprintln(w, messageContentStyle.Render(wrapText(content, 80)))
	fmt.Fprintln(w)
}

func writeEvents(w io.Writer, events []internal.Event) error {
	for _, ev := range events {
		data, err := ev.Encode()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		current := ""
		for _, word := range words {
			switch {
			case current == "":
				current = word
			case len(current)+len(word)+1 > width:
				wrapped = append(wrapped, current)
				current = word
			default:
				current += " " + word
			}
		}
		if current != "" {
			wrapped = append(wrapped, current)
		}
	}

	return strings.Join(wrapped, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().BoolVar(&showTree, "tree", false, "Show the session and its descendants")
	showCmd.Flags().BoolVar(&showEvents, "events", false, "Print the raw logged events as JSONL")
}
