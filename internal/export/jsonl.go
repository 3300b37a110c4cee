package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/session-dashboard/internal"
)

// JSONLExporter exports transcripts in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i, msg := range transcript.Messages {
		obj := map[string]interface{}{
			"session_id": transcript.Session.ID,
			"role":       msg.Role.String(),
			"content":    msg.Content,
		}
		if msg.Timestamp != "" {
			obj["timestamp"] = msg.Timestamp
		}

		if err := enc.Encode(obj); err != nil {
			return &internal.ExportError{Format: "jsonl", Err: fmt.Errorf("failed to encode message %d: %w", i, err)}
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

func (e *JSONLExporter) ContentType() string {
	return "application/x-ndjson"
}
