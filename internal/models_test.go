package internal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSessionID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SessionID
		wantErr bool
	}{
		{"string id", `"abc-123"`, "abc-123", false},
		{"numeric id", `42`, "42", false},
		{"large numeric id", `9007199254740993`, "9007199254740993", false},
		{"null id", `null`, "", false},
		{"object id", `{}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id SessionID
			err := json.Unmarshal([]byte(tt.input), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, id, tt.want)
			}
		})
	}
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  PayloadKind
		wantCount int
	}{
		{"empty", "", PayloadAbsent, 0},
		{"whitespace", "   ", PayloadAbsent, 0},
		{"json null", "null", PayloadAbsent, 0},
		{"not json", "not json", PayloadJSON, 0},
		{"json string", `"[{\"text\":\"hi\"}]"`, PayloadJSON, 0},
		{"object", `{"text":"hi"}`, PayloadSingle, 1},
		{"array", `[{"text":"a"},{"text":"b"}]`, PayloadMany, 2},
		{"array with scalars", `[{"text":"a"},3,"x"]`, PayloadMany, 3},
		{"number", `7`, PayloadInvalid, 0},
		{"trailing data", `{"a":1} {"b":2}`, PayloadJSON, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePayload([]byte(tt.input))
			if got.Kind != tt.wantKind {
				t.Errorf("ParsePayload(%q).Kind = %v, want %v", tt.input, got.Kind, tt.wantKind)
			}
			if len(got.Records) != tt.wantCount {
				t.Errorf("ParsePayload(%q) has %d records, want %d", tt.input, len(got.Records), tt.wantCount)
			}
		})
	}
}

func TestParsePayload_JSONStringUnwrapped(t *testing.T) {
	got := ParsePayload([]byte(`"[{\"text\":\"hi\"}]"`))
	if got.Text != `[{"text":"hi"}]` {
		t.Errorf("Text = %q, want inner JSON", got.Text)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input  string
		want   time.Time
		wantOK bool
	}{
		{"2024-05-01T09:00:00Z", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), true},
		{"2024-05-01T09:00:00.123456+00:00", time.Date(2024, 5, 1, 9, 0, 0, 123456000, time.UTC), true},
		{"2024-05-01T11:00:00+02:00", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), true},
		{"2024-05-01T09:00:00", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), true},
		{"2024-05-01 09:00:00", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), true},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPayloadKind_String(t *testing.T) {
	kinds := map[PayloadKind]string{
		PayloadAbsent:  "absent",
		PayloadJSON:    "json",
		PayloadSingle:  "single",
		PayloadMany:    "many",
		PayloadInvalid: "invalid",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("PayloadKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
