package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/agent"
)

// Normalizer converts session trees into the export format
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts one node. Children appear as ids only; export each
// node separately to get their messages.
func (n *Normalizer) Normalize(node *Node, date string) (*internal.Session, error) {
	if node == nil || node.Info == nil {
		return nil, fmt.Errorf("session is nil")
	}

	a, err := agent.Get(node.Agent)
	if err != nil {
		return nil, err
	}
	messages := n.messages(a, node.Events)

	metadata := internal.Metadata{
		ParentID:     node.ParentID,
		Prompt:       node.Prompt,
		Model:        node.Model,
		Status:       node.Status,
		Result:       node.Result,
		Date:         date,
		EventCount:   len(node.Events),
		MessageCount: len(messages),
	}
	for _, child := range node.Children {
		metadata.Children = append(metadata.Children, child.ID)
	}

	return &internal.Session{
		ID:       node.ID,
		Agent:    node.Agent,
		Source:   node.Path,
		Messages: messages,
		Metadata: metadata,
	}, nil
}

// messages folds events into a conversation. Consecutive result fragments
// that the agent would not reset between are merged into one message.
func (n *Normalizer) messages(a agent.Agent, events []internal.Event) []internal.Message {
	messages := []internal.Message{}
	last := func() *internal.Message {
		if len(messages) == 0 {
			return nil
		}
		return &messages[len(messages)-1]
	}
	addUser := func(text string) {
		if m := last(); m != nil && m.Actor == "user" && m.Content == text {
			return
		}
		messages = append(messages, internal.Message{Actor: "user", Content: text})
	}

	for _, ev := range events {
		switch {
		case ev.IsLink():
			continue
		case ev.Type() == internal.EventTypeStart:
			if prompt := ev.String("prompt"); prompt != "" {
				addUser(prompt)
			}
			continue
		case strings.HasPrefix(ev.Type(), "tool"):
			messages = append(messages, internal.Message{Actor: "tool", Content: toolLabel(ev)})
			continue
		}

		if prompt := a.ExtractPrompt(ev); prompt != "" {
			addUser(prompt)
		}
		result := a.ExtractResult(ev)
		if result == "" {
			continue
		}
		if m := last(); m != nil && m.Actor == "assistant" && !a.ShouldResetResult(ev) {
			m.Content += result
			continue
		}
		messages = append(messages, internal.Message{Actor: "assistant", Content: result})
	}
	return messages
}

func toolLabel(ev internal.Event) string {
	for _, key := range []string{"tool_name", "name"} {
		if name := ev.String(key); name != "" {
			return ev.Type() + ": " + name
		}
	}
	return ev.Type()
}

// Bucket returns the date bucket a log path lives in, or "" when the path
// is outside the root
func (d *Directory) Bucket(path string) string {
	rel, err := filepath.Rel(d.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}
