package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/session-dashboard/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
		want       []string
		notWant    []string
	}{
		{
			name:       "basic transcript",
			transcript: internal.TestTranscript("test1"),
			want: []string{
				"# Test Conversation",
				"**ID:** test1",
				"**Topic:** testing",
				"**Messages:** 2",
				"## Messages",
				"**user:** (2024-05-01T09:00:00Z)",
				"Hello, how are you?",
				"**assistant:**",
			},
		},
		{
			name: "untitled transcript",
			transcript: &internal.Transcript{
				Session: internal.TestSummary("test2", "", "", "", ""),
				Messages: []internal.DisplayMessage{
					{Role: internal.RoleUser, IsUser: true, Content: "Hi"},
				},
			},
			want:    []string{"# Session test2", "**Messages:** 1"},
			notWant: []string{"**Topic:**", "**Created:**"},
		},
		{
			name: "empty transcript",
			transcript: &internal.Transcript{
				Session: internal.TestSummary("test3", "2024-05-01", "Empty", "", ""),
			},
			want: []string{"**Messages:** 0", internal.NoticeEmptyConversation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			if err := exporter.Export(tt.transcript, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(output, notWant) {
					t.Errorf("Output should not contain %q, got:\n%s", notWant, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_EscapesContent(t *testing.T) {
	transcript := &internal.Transcript{
		Session: internal.TestSummary("7", "", "**Bold** title", "__rent__", ""),
		Messages: []internal.DisplayMessage{
			{Role: internal.RoleUser, IsUser: true, Content: "Is it **really** available?"},
			{Role: internal.RoleAssistant, Content: "Yes:\n```\n**kept** as is\n```\nsee __notes__"},
		},
	}

	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(transcript, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# \\*\\*Bold\\*\\* title",
		"**Topic:** \\_\\_rent\\_\\_",
		"Is it \\*\\*really\\*\\* available?",
		"```\n**kept** as is\n```",
		"see \\_\\_notes\\_\\_",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// role labels themselves stay bold
	if !strings.Contains(out, "**user:**") || !strings.Contains(out, "**assistant:**") {
		t.Errorf("role labels not rendered bold:\n%s", out)
	}
}
