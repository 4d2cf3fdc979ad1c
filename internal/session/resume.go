package session

import (
	"fmt"
	"strings"

	"github.com/iksnae/aiwr/internal"
)

// BuildResumePrompt renders one session's context as the prompt for a new
// run. extra, when set, is appended verbatim as a user addition.
func BuildResumePrompt(d *Directory, id, extra string) (string, error) {
	path, err := d.Locate(id)
	if err != nil {
		return "", err
	}
	info, err := Extract(path)
	if err != nil {
		return "", err
	}

	parts := []string{
		"[PREVIOUS SESSION CONTEXT]",
		"Session ID: " + info.ID,
		"Agent: " + info.Agent,
		"Original prompt: " + orUnknown(info.Prompt),
		"Status: " + orUnknown(info.Status),
		"",
		"Output log:",
		"---",
		strings.Join(transcript(info.Events, 0), "\n"),
		"---",
		"",
		"[CONTINUATION]",
		"Please continue from where you left off.",
	}
	if extra != "" {
		parts = append(parts, "User addition: "+extra)
	}
	return strings.Join(parts, "\n"), nil
}

// BuildTreePrompt renders a session and all its descendants, depth first.
// Each node's transcript keeps at most maxLines lines; maxLines <= 0 uses
// the default.
func BuildTreePrompt(d *Directory, id, extra string, maxLines int) (string, error) {
	if maxLines <= 0 {
		maxLines = internal.DefaultTreeMaxLines
	}
	root, err := d.Tree(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeNode(&b, root, 0, maxLines)

	parts := []string{
		"[PREVIOUS SESSION TREE]",
		"",
		b.String(),
		"",
		"[CONTINUATION]",
		"Please continue the root session, considering all child session results.",
	}
	if extra != "" {
		parts = append(parts, "User addition: "+extra)
	}
	return strings.Join(parts, "\n"), nil
}

func writeNode(b *strings.Builder, n *Node, depth, maxLines int) {
	indent := strings.Repeat("  ", depth)
	if depth == 0 {
		fmt.Fprintf(b, "== Root Session: %s (%s) ==\n", n.ID, n.Agent)
	} else {
		fmt.Fprintf(b, "%s== Child Session: %s (%s) ==\n", indent, n.ID, n.Agent)
	}
	fmt.Fprintf(b, "%sPrompt: %s\n", indent, orUnknown(n.Prompt))
	fmt.Fprintf(b, "%sStatus: %s\n", indent, orUnknown(n.Status))
	fmt.Fprintf(b, "%sOutput:\n", indent)
	lines := transcript(n.Events, maxLines)
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(indent + "  " + line)
	}

	for _, child := range n.Children {
		b.WriteString("\n\n")
		writeNode(b, child, depth+1, maxLines)
	}
}

// transcript re-encodes every event except linkage markers, one per line.
// With maxLines > 0 a longer transcript keeps its first and last halves
// around an omission marker.
func transcript(events []internal.Event, maxLines int) []string {
	var lines []string
	for _, ev := range events {
		if ev.IsLink() {
			continue
		}
		data, err := ev.Encode()
		if err != nil {
			continue
		}
		lines = append(lines, string(data))
	}

	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	half := maxLines / 2
	omitted := len(lines) - 2*half
	out := make([]string, 0, 2*half+3)
	out = append(out, lines[:half]...)
	out = append(out, "...", fmt.Sprintf("[%d lines omitted]", omitted), "...")
	return append(out, lines[len(lines)-half:]...)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
