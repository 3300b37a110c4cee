package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/session-dashboard/internal"
)

// Exporter writes a transcript in one format
type Exporter interface {
	Export(transcript *internal.Transcript, w io.Writer) error
	Extension() string
	ContentType() string
}

// Formats lists the accepted format names
var Formats = []string{"jsonl", "md", "yaml", "json"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, &internal.ExportError{
			Format: format,
			Err:    fmt.Errorf("unsupported format (supported: %s)", strings.Join(Formats, ", ")),
		}
	}
}

// Filename is the download name for a transcript in the exporter's format
func Filename(id internal.SessionID, e Exporter) string {
	return fmt.Sprintf("session-%s.%s", sanitize(id.String()), e.Extension())
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
