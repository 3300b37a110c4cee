package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/session-dashboard/internal"
)

// JSONExporter exports transcripts in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a transcript to JSON format
func (e *JSONExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(transcript); err != nil {
		return &internal.ExportError{Format: "json", Err: err}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}

func (e *JSONExporter) ContentType() string {
	return "application/json"
}
