package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// SessionID is the string form of a session id. The store emits it as either
// a JSON string or a JSON number.
type SessionID string

// UnmarshalJSON accepts string, number and null ids
func (id *SessionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to parse session id: %w", err)
		}
		*id = SessionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to parse session id: %w", err)
	}
	*id = SessionID(n.String())
	return nil
}

func (id SessionID) String() string {
	return string(id)
}

// SessionSummary represents one chat_sessions row as listed by the store
type SessionSummary struct {
	ID            SessionID `json:"id" yaml:"id"`
	CreatedAt     string    `json:"created_at" yaml:"created_at"`
	Title         string    `json:"title,omitempty" yaml:"title,omitempty"`
	Topic         string    `json:"topic,omitempty" yaml:"topic,omitempty"`
	SourceIP      string    `json:"source_ip,omitempty" yaml:"source_ip,omitempty"`
	HasTranscript bool      `json:"has_transcript" yaml:"has_transcript"`
	MessageCount  int       `json:"message_count" yaml:"message_count"`
}

// createdAtLayouts covers PostgREST timestamptz output and SQLite text timestamps
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a stored timestamp. Values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreatedTime returns the parsed creation time and whether it parsed
func (s SessionSummary) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(s.CreatedAt)
}

// PayloadKind tags the shape of a RawPayload
type PayloadKind int

const (
	PayloadAbsent PayloadKind = iota
	PayloadJSON
	PayloadSingle
	PayloadMany
	PayloadInvalid
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadAbsent:
		return "absent"
	case PayloadJSON:
		return "json"
	case PayloadSingle:
		return "single"
	case PayloadMany:
		return "many"
	default:
		return "invalid"
	}
}

// Record is one message-like element of a stored transcript
type Record map[string]any

// RawPayload is the stored transcript of a session: absent, JSON text still
// to be decoded, one record, or a sequence of records.
type RawPayload struct {
	Kind    PayloadKind
	Text    string
	Records []Record
}

// AbsentPayload returns the "no transcript" payload
func AbsentPayload() RawPayload {
	return RawPayload{Kind: PayloadAbsent}
}

// JSONPayload wraps JSON-encoded text
func JSONPayload(text string) RawPayload {
	return RawPayload{Kind: PayloadJSON, Text: text}
}

// SinglePayload wraps a single record
func SinglePayload(r Record) RawPayload {
	return RawPayload{Kind: PayloadSingle, Records: []Record{r}}
}

// ManyPayload wraps a sequence of records
func ManyPayload(rs []Record) RawPayload {
	return RawPayload{Kind: PayloadMany, Records: rs}
}

// IsAbsent reports whether the session has no transcript
func (p RawPayload) IsAbsent() bool {
	return p.Kind == PayloadAbsent
}

// ParsePayload builds a RawPayload from the bytes of a stored conversations value.
// Bytes that are not valid JSON are kept as text and fail later during normalization.
func ParsePayload(data []byte) RawPayload {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return AbsentPayload()
	}
	if !json.Valid(trimmed) {
		return JSONPayload(string(data))
	}
	v, err := decodeJSON(trimmed)
	if err != nil {
		return JSONPayload(string(data))
	}
	return payloadFromValue(v)
}

func payloadFromValue(v any) RawPayload {
	switch val := v.(type) {
	case nil:
		return AbsentPayload()
	case string:
		return JSONPayload(val)
	case map[string]any:
		return SinglePayload(Record(val))
	case []any:
		return ManyPayload(recordsFromSlice(val))
	default:
		return RawPayload{Kind: PayloadInvalid}
	}
}

// recordsFromSlice keeps positions; non-object elements become empty records
func recordsFromSlice(values []any) []Record {
	records := make([]Record, 0, len(values))
	for _, v := range values {
		if m, ok := v.(map[string]any); ok {
			records = append(records, Record(m))
		} else {
			records = append(records, Record{})
		}
	}
	return records
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}
