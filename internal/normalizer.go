package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SenderRole is who authored a displayed message
type SenderRole int

const (
	RoleAssistant SenderRole = iota
	RoleUser
)

func (r SenderRole) String() string {
	if r == RoleUser {
		return "user"
	}
	return "assistant"
}

// MarshalJSON renders the role as its string name
func (r SenderRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// MarshalYAML renders the role as its string name
func (r SenderRole) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// SuccessSentinel is a marker value written by the store that is not a message
const SuccessSentinel = "SUCCESS"

// senderTags maps known sender/type tags to roles. Anything else is an assistant.
var senderTags = map[string]SenderRole{
	"user":      RoleUser,
	"bot":       RoleAssistant,
	"assistant": RoleAssistant,
	"luci":      RoleAssistant,
}

// contentFields are checked in order; the first non-empty string wins
var contentFields = []string{"text", "content", "message"}

// DisplayMessage represents a normalized transcript message
type DisplayMessage struct {
	Role      SenderRole `json:"role" yaml:"role"`
	IsUser    bool       `json:"is_user" yaml:"is_user"`
	Content   string     `json:"content" yaml:"content"`
	Timestamp string     `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Original  Record     `json:"original,omitempty" yaml:"-"`
}

// ClassifySender maps a sender or type tag to a role
func ClassifySender(tag string) SenderRole {
	if role, ok := senderTags[tag]; ok {
		return role
	}
	return RoleAssistant
}

// Normalize converts a raw payload into display messages. It never fails:
// undecodable payloads yield an empty transcript and are only logged.
func Normalize(raw RawPayload) []DisplayMessage {
	records, err := coerceRecords(raw)
	if err != nil {
		LogWarn("Failed to decode conversation payload: %v", err)
		return []DisplayMessage{}
	}

	messages := make([]DisplayMessage, 0, len(records))
	for _, rec := range records {
		msg := normalizeRecord(rec)
		if msg.Content == "" || msg.Content == SuccessSentinel {
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

// CountMessages returns the number of messages Normalize would display
func CountMessages(raw RawPayload) int {
	return len(Normalize(raw))
}

// coerceRecords turns every payload shape into a sequence of records
func coerceRecords(raw RawPayload) ([]Record, error) {
	switch raw.Kind {
	case PayloadJSON:
		v, err := decodeJSON([]byte(raw.Text))
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("failed to parse conversations text: %w", err)}
		}
		switch val := v.(type) {
		case map[string]any:
			return []Record{Record(val)}, nil
		case []any:
			return recordsFromSlice(val), nil
		default:
			return nil, nil
		}
	case PayloadSingle, PayloadMany:
		return raw.Records, nil
	default:
		return nil, nil
	}
}

func normalizeRecord(rec Record) DisplayMessage {
	role := RoleAssistant
	if ClassifySender(stringField(rec, "sender")) == RoleUser || ClassifySender(stringField(rec, "type")) == RoleUser {
		role = RoleUser
	}

	content := ""
	for _, field := range contentFields {
		if v := stringField(rec, field); v != "" {
			content = v
			break
		}
	}

	return DisplayMessage{
		Role:      role,
		IsUser:    role == RoleUser,
		Content:   content,
		Timestamp: timestampField(rec),
		Original:  rec,
	}
}

func stringField(rec Record, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

// timestampField passes strings through and keeps numbers in their literal form
func timestampField(rec Record) string {
	switch v := rec["timestamp"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
