package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/session-dashboard/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	s := transcript.Session

	title := s.Title
	if title == "" {
		title = "Session " + s.ID.String()
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(title))

	_, _ = fmt.Fprintf(w, "**ID:** %s  \n", s.ID)
	if s.Topic != "" {
		_, _ = fmt.Fprintf(w, "**Topic:** %s  \n", escapeMarkdown(s.Topic))
	}
	if s.CreatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", s.CreatedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(transcript.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	if len(transcript.Messages) == 0 {
		_, _ = fmt.Fprintf(w, "_%s_\n", internal.NoticeEmptyConversation)
		return nil
	}

	for i, msg := range transcript.Messages {
		timestamp := ""
		if msg.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp)
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, escapeMarkdown(msg.Content))

		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes bold/underline markers outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	inCodeBlock := false

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "```"):
			inCodeBlock = !inCodeBlock
		case !inCodeBlock:
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

func (e *MarkdownExporter) ContentType() string {
	return "text/markdown; charset=utf-8"
}
