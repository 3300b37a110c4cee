package internal

import (
	"context"
	"sync"
)

// FakeStore is an in-memory SessionStore for tests. Payload fetches for an id
// registered with Gate block until the gate is released or ctx is done.
type FakeStore struct {
	mu       sync.Mutex
	sessions []SessionSummary
	payloads map[SessionID]RawPayload
	listErr  error
	getErrs  map[SessionID]error
	gates    map[SessionID]chan struct{}

	ListCalls int
	GetCalls  map[SessionID]int
}

// NewFakeStore creates a FakeStore listing sessions
func NewFakeStore(sessions ...SessionSummary) *FakeStore {
	return &FakeStore{
		sessions: sessions,
		payloads: make(map[SessionID]RawPayload),
		getErrs:  make(map[SessionID]error),
		gates:    make(map[SessionID]chan struct{}),
		GetCalls: make(map[SessionID]int),
	}
}

// SetPayload sets the transcript returned for id
func (f *FakeStore) SetPayload(id SessionID, p RawPayload) *FakeStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[id] = p
	return f
}

// SetListError makes ListSessions fail with err
func (f *FakeStore) SetListError(err error) *FakeStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
	return f
}

// SetPayloadError makes GetSessionPayload(id) fail with err
func (f *FakeStore) SetPayloadError(id SessionID, err error) *FakeStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErrs[id] = err
	return f
}

// Gate blocks payload fetches for id until the returned func is called
func (f *FakeStore) Gate(id SessionID) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[id] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Calls returns how many times GetSessionPayload(id) was called
func (f *FakeStore) Calls(id SessionID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetCalls[id]
}

func (f *FakeStore) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.listErr != nil {
		return nil, &StoreError{Op: "list", Err: f.listErr}
	}
	out := make([]SessionSummary, len(f.sessions))
	copy(out, f.sessions)
	return out, nil
}

func (f *FakeStore) GetSessionPayload(ctx context.Context, id SessionID) (RawPayload, error) {
	f.mu.Lock()
	f.GetCalls[id]++
	gate := f.gates[id]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return RawPayload{}, &StoreError{Op: "get", ID: id, Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getErrs[id]; err != nil {
		return RawPayload{}, &StoreError{Op: "get", ID: id, Err: err}
	}
	p, ok := f.payloads[id]
	if !ok {
		return RawPayload{}, &StoreError{Op: "get", ID: id, NotFound: true, Err: ErrSessionNotFound}
	}
	return p, nil
}

// TestSummary creates a summary with a transcript, created at createdAt
func TestSummary(id, createdAt, title, topic, ip string) SessionSummary {
	return SessionSummary{
		ID:            SessionID(id),
		CreatedAt:     createdAt,
		Title:         title,
		Topic:         topic,
		SourceIP:      ip,
		HasTranscript: true,
	}
}

// TestPayload builds a many-record payload of alternating user and assistant messages
func TestPayload(texts ...string) RawPayload {
	records := make([]Record, 0, len(texts))
	for i, text := range texts {
		sender := "user"
		if i%2 == 1 {
			sender = "assistant"
		}
		records = append(records, Record{"sender": sender, "text": text})
	}
	return ManyPayload(records)
}

// TestTranscript creates a two-message transcript for session id
func TestTranscript(id string) *Transcript {
	return &Transcript{
		Session: TestSummary(id, "2024-05-01T09:00:00Z", "Test Conversation", "testing", "10.0.0.1"),
		Messages: []DisplayMessage{
			{Role: RoleUser, IsUser: true, Content: "Hello, how are you?", Timestamp: "2024-05-01T09:00:00Z"},
			{Role: RoleAssistant, Content: "I'm doing well, thank you!"},
		},
	}
}
