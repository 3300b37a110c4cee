package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/session-dashboard/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name         string
		transcript   *internal.Transcript
		wantMessages int
	}{
		{
			name:         "basic transcript",
			transcript:   internal.TestTranscript("test1"),
			wantMessages: 2,
		},
		{
			name: "empty transcript",
			transcript: &internal.Transcript{
				Session:  internal.TestSummary("test2", "", "", "", ""),
				Messages: []internal.DisplayMessage{},
			},
			wantMessages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.transcript, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			var decoded struct {
				Session struct {
					ID string `json:"id"`
				} `json:"session"`
				Messages []struct {
					Role    string `json:"role"`
					IsUser  bool   `json:"is_user"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("JSONExporter.Export() produced invalid JSON: %v", err)
			}
			if decoded.Session.ID != tt.transcript.Session.ID.String() {
				t.Errorf("session id = %q, want %q", decoded.Session.ID, tt.transcript.Session.ID)
			}
			if len(decoded.Messages) != tt.wantMessages {
				t.Fatalf("messages = %d, want %d", len(decoded.Messages), tt.wantMessages)
			}
			if tt.wantMessages > 0 {
				if decoded.Messages[0].Role != "user" || !decoded.Messages[0].IsUser {
					t.Errorf("first message = %+v, want user", decoded.Messages[0])
				}
				if decoded.Messages[1].Role != "assistant" {
					t.Errorf("second message role = %q, want assistant", decoded.Messages[1].Role)
				}
			}
		})
	}
}

func TestJSONExporter_Indented(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(internal.TestTranscript("x"), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  \"session\"")) {
		t.Errorf("JSON output is not indented:\n%s", buf.String())
	}
}
