package internal

import (
	"context"
	"fmt"
)

// Transcript is a session summary together with its normalized messages
type Transcript struct {
	Session  SessionSummary   `json:"session" yaml:"session"`
	Messages []DisplayMessage `json:"messages" yaml:"messages"`
}

// LoadTranscript fetches and normalizes one visible session through store.
// Sessions hidden by the exclusion list are reported as not found.
func LoadTranscript(ctx context.Context, store SessionStore, id SessionID) (*Transcript, error) {
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var summary *SessionSummary
	visible := Exclusions().Visible(sessions)
	for i := range visible {
		if visible[i].ID == id {
			summary = &visible[i]
			break
		}
	}
	if summary == nil {
		return nil, &StoreError{Op: "get", ID: id, NotFound: true, Err: ErrSessionNotFound}
	}

	payload, err := store.GetSessionPayload(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewTranscript(*summary, payload), nil
}

// NewTranscript normalizes payload for summary
func NewTranscript(summary SessionSummary, payload RawPayload) *Transcript {
	messages := Normalize(payload)
	if messages == nil {
		messages = []DisplayMessage{}
	}
	return &Transcript{Session: summary, Messages: messages}
}
