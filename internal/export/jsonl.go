package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/aiwr/internal"
)

// JSONLExporter writes one line per message, each tagged with its session
type JSONLExporter struct{}

type jsonlLine struct {
	Session string `json:"session"`
	Agent   string `json:"agent"`
	Actor   string `json:"actor"`
	Content string `json:"content"`
}

func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, msg := range session.Messages {
		line := jsonlLine{
			Session: session.ID,
			Agent:   session.Agent,
			Actor:   msg.Actor,
			Content: msg.Content,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
