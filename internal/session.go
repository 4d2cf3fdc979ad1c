package internal

// Session represents a normalized agent session, used for export
type Session struct {
	ID       string    `json:"id" yaml:"id"`
	Agent    string    `json:"agent" yaml:"agent"`
	Source   string    `json:"source" yaml:"source"` // log file path
	Messages []Message `json:"messages" yaml:"messages"`
	Metadata Metadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Message represents a normalized message
type Message struct {
	Actor   string `json:"actor" yaml:"actor"` // "user", "assistant", "tool"
	Content string `json:"content" yaml:"content"`
}

// Metadata contains additional session information
type Metadata struct {
	ParentID     string   `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Children     []string `json:"children,omitempty" yaml:"children,omitempty"`
	Prompt       string   `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Model        string   `json:"model,omitempty" yaml:"model,omitempty"`
	Status       string   `json:"status,omitempty" yaml:"status,omitempty"`
	Result       string   `json:"result,omitempty" yaml:"result,omitempty"`
	Date         string   `json:"date,omitempty" yaml:"date,omitempty"`
	EventCount   int      `json:"event_count" yaml:"event_count"`
	MessageCount int      `json:"message_count" yaml:"message_count"`
}
