package internal

// CreateTestSession creates a test session with sample data
func CreateTestSession(id string) *Session {
	return &Session{
		ID:     id,
		Agent:  "claude",
		Source: "/logs/2026-01-01/" + id + ".jsonl",
		Messages: []Message{
			{Actor: "user", Content: "Fix the failing test"},
			{Actor: "assistant", Content: "The test now passes."},
		},
		Metadata: Metadata{
			Prompt:       "Fix the failing test",
			Model:        "opus",
			Status:       "completed",
			Result:       "The test now passes.",
			Date:         "2026-01-01",
			EventCount:   5,
			MessageCount: 2,
		},
	}
}

// CreateTestSessionWithMessages creates a test session with custom messages
func CreateTestSessionWithMessages(id string, messages []Message) *Session {
	return &Session{
		ID:       id,
		Agent:    "claude",
		Source:   "/logs/2026-01-01/" + id + ".jsonl",
		Messages: messages,
		Metadata: Metadata{
			MessageCount: len(messages),
		},
	}
}
