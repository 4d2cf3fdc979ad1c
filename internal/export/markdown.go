package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/aiwr/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	meta := session.Metadata

	_, _ = fmt.Fprintf(w, "# Session %s\n\n", session.ID)
	_, _ = fmt.Fprintf(w, "**Agent:** %s  \n", session.Agent)
	if meta.Model != "" {
		_, _ = fmt.Fprintf(w, "**Model:** %s  \n", meta.Model)
	}
	if meta.Status != "" {
		_, _ = fmt.Fprintf(w, "**Status:** %s  \n", meta.Status)
	}
	if meta.Date != "" {
		_, _ = fmt.Fprintf(w, "**Date:** %s  \n", meta.Date)
	}
	if meta.ParentID != "" {
		_, _ = fmt.Fprintf(w, "**Parent:** %s  \n", meta.ParentID)
	}
	if len(meta.Children) > 0 {
		_, _ = fmt.Fprintf(w, "**Children:** %s  \n", strings.Join(meta.Children, ", "))
	}
	_, _ = fmt.Fprintf(w, "**Source:** %s  \n", session.Source)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range session.Messages {
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", msg.Actor, escapeMarkdown(msg.Content))

		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
