package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/qmuntal/stateless"

	"github.com/iksnae/session-dashboard/internal/metrics"
)

// List states
const (
	StateUnconfigured = "Unconfigured"
	StateIdle         = "Idle"
	StateLoadingList  = "LoadingList"
	StateListLoaded   = "ListLoaded"
	StateListError    = "ListError"
)

// Transcript states
const (
	StateNoSelection     = "NoSelection"
	StateLoadingMessages = "LoadingMessages"
	StateMessagesLoaded  = "MessagesLoaded"
	StateMessagesEmpty   = "MessagesEmpty"
	StateMessagesError   = "MessagesError"
)

// Triggers
const (
	triggerReload       = "Reload"
	triggerListFetched  = "ListFetched"
	triggerListFailed   = "ListFailed"
	triggerSelect       = "Select"
	triggerMessagesOK   = "MessagesFetched"
	triggerMessagesNone = "MessagesEmpty"
	triggerMessagesFail = "MessagesFailed"
)

// Informational notices for transcripts with nothing to show
const (
	NoticeEmptyConversation = "This conversation is empty"
	NoticeNoTranscript      = "No transcript found for this session"
)

// ViewState is a consistent copy of the dashboard state for rendering
type ViewState struct {
	ListState       string           `json:"list_state"`
	TranscriptState string           `json:"transcript_state"`
	ConfigError     string           `json:"config_error,omitempty"`
	ListError       string           `json:"list_error,omitempty"`
	TranscriptError string           `json:"transcript_error,omitempty"`
	Notice          string           `json:"notice,omitempty"`
	Sessions        []SessionSummary `json:"sessions"`
	Visible         []SessionSummary `json:"visible"`
	Criteria        FilterCriteria   `json:"criteria"`
	DateRange       DateRange        `json:"date_range"`
	SelectedID      SessionID        `json:"selected_id,omitempty"`
	Messages        []DisplayMessage `json:"messages"`
	SidebarOpen     bool             `json:"sidebar_open"`
	FiltersOpen     bool             `json:"filters_open"`
}

// Total is the number of sessions held after exclusion
func (v ViewState) Total() int {
	return len(v.Sessions)
}

// IsFiltered reports whether any filter criterion is active
func (v ViewState) IsFiltered() bool {
	return !v.Criteria.IsEmpty()
}

// IsSelected reports whether id is the selected session
func (v ViewState) IsSelected(id SessionID) bool {
	return v.SelectedID != "" && v.SelectedID == id
}

// ViewController owns the dashboard state: the session list, the filters and
// the transcript of the selected session. List and transcript fail independently.
//
// Store calls run without holding the lock. Overlapping reloads race and
// the last to finish wins. Transcript loads are tagged with a sequence
// number and only the latest one is applied.
type ViewController struct {
	store      SessionStore
	exclusions ExclusionList
	metrics    *metrics.Metrics

	mu         sync.Mutex
	list       *stateless.StateMachine
	transcript *stateless.StateMachine
	configErr  error

	all        []SessionSummary
	visible    []SessionSummary
	criteria   FilterCriteria
	selectedID SessionID
	messages   []DisplayMessage
	listErr    string
	msgErr     string
	notice     string
	seq        uint64

	sidebarOpen bool
	filtersOpen bool
}

// ControllerOption customizes a ViewController
type ControllerOption func(*ViewController)

// WithMetrics records session gauges and discarded loads
func WithMetrics(m *metrics.Metrics) ControllerOption {
	return func(c *ViewController) {
		c.metrics = m
	}
}

// NewViewController creates a controller over store
func NewViewController(store SessionStore, opts ...ControllerOption) *ViewController {
	c := &ViewController{
		store:       store,
		exclusions:  Exclusions(),
		list:        newListMachine(StateIdle),
		transcript:  newTranscriptMachine(),
		all:         []SessionSummary{},
		visible:     []SessionSummary{},
		messages:    []DisplayMessage{},
		sidebarOpen: true,
		filtersOpen: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if store == nil {
		c.configErr = &ConfigError{Field: "store", Reason: "no session store configured"}
		c.list = newListMachine(StateUnconfigured)
	}
	return c
}

// NewUnconfiguredViewController creates a controller that reports cfgErr and never calls a store
func NewUnconfiguredViewController(cfgErr error, opts ...ControllerOption) *ViewController {
	c := NewViewController(nil, opts...)
	if cfgErr != nil {
		c.configErr = cfgErr
	}
	return c
}

func newListMachine(initial string) *stateless.StateMachine {
	sm := stateless.NewStateMachine(initial)
	sm.Configure(StateIdle).
		Permit(triggerReload, StateLoadingList)
	sm.Configure(StateLoadingList).
		PermitReentry(triggerReload).
		Permit(triggerListFetched, StateListLoaded).
		Permit(triggerListFailed, StateListError)
	sm.Configure(StateListLoaded).
		Permit(triggerReload, StateLoadingList).
		PermitReentry(triggerListFetched).
		Permit(triggerListFailed, StateListError)
	sm.Configure(StateListError).
		Permit(triggerReload, StateLoadingList).
		Permit(triggerListFetched, StateListLoaded).
		PermitReentry(triggerListFailed)
	sm.Configure(StateUnconfigured)
	return sm
}

func newTranscriptMachine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(StateNoSelection)
	sm.Configure(StateNoSelection).
		Permit(triggerSelect, StateLoadingMessages)
	sm.Configure(StateLoadingMessages).
		PermitReentry(triggerSelect).
		Permit(triggerMessagesOK, StateMessagesLoaded).
		Permit(triggerMessagesNone, StateMessagesEmpty).
		Permit(triggerMessagesFail, StateMessagesError)
	for _, done := range []string{StateMessagesLoaded, StateMessagesEmpty, StateMessagesError} {
		sm.Configure(done).
			Permit(triggerSelect, StateLoadingMessages)
	}
	return sm
}

// fire moves a machine; the configured graphs permit every trigger the controller sends
func fire(sm *stateless.StateMachine, trigger string) {
	if err := sm.Fire(trigger); err != nil {
		LogError("State transition %s failed: %v", trigger, err)
	}
}

// LoadAllSessions fetches the session list, drops excluded and empty sessions,
// orders it newest first and selects the newest session.
func (c *ViewController) LoadAllSessions(ctx context.Context) error {
	c.mu.Lock()
	if c.configErr != nil {
		err := c.configErr
		c.mu.Unlock()
		return err
	}
	fire(c.list, triggerReload)
	c.listErr = ""
	c.mu.Unlock()

	LogInfo("Loading sessions...")
	fetched, err := c.store.ListSessions(ctx)
	if err != nil {
		LogError("Failed to load session list: %v", err)
		c.mu.Lock()
		c.listErr = fmt.Sprintf("Failed to load session list: %v", err)
		fire(c.list, triggerListFailed)
		c.mu.Unlock()
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	kept := c.exclusions.Visible(fetched)
	SortNewestFirst(kept)
	LogInfo("Sessions total: %d, after exclusions: %d", len(fetched), len(kept))

	c.mu.Lock()
	c.all = kept
	c.visible = FilterSessions(kept, c.criteria)
	fire(c.list, triggerListFetched)
	c.updateGauges()
	var first SessionID
	if len(kept) > 0 {
		first = kept[0].ID
	}
	c.mu.Unlock()

	if first == "" {
		return nil
	}
	return c.SelectSession(ctx, first)
}

// SelectSession selects id and loads its transcript
func (c *ViewController) SelectSession(ctx context.Context, id SessionID) error {
	return c.LoadMessages(ctx, id)
}

// LoadMessages selects id, then fetches and normalizes its transcript. Only
// sessions in the loaded list can be opened, so excluded sessions stay hidden.
// A response is applied only if no newer load was issued meanwhile.
func (c *ViewController) LoadMessages(ctx context.Context, id SessionID) error {
	if id == "" {
		return nil
	}

	c.mu.Lock()
	if c.configErr != nil {
		err := c.configErr
		c.mu.Unlock()
		return err
	}
	c.seq++
	seq := c.seq
	c.selectedID = id
	fire(c.transcript, triggerSelect)
	c.msgErr = ""
	c.notice = ""
	if !c.isListed(id) {
		err := &StoreError{Op: "get", ID: id, NotFound: true, Err: ErrSessionNotFound}
		c.failTranscript(id, err)
		c.mu.Unlock()
		return fmt.Errorf("failed to load messages: %w", err)
	}
	c.mu.Unlock()

	payload, err := c.store.GetSessionPayload(ctx, id)
	var messages []DisplayMessage
	if err == nil {
		messages = Normalize(payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		LogDebug("Discarding stale transcript for %s (request %d, latest %d)", id, seq, c.seq)
		if c.metrics != nil {
			c.metrics.StaleLoadsDiscarded.Inc()
		}
		return nil
	}

	switch {
	case err != nil:
		c.failTranscript(id, err)
		return fmt.Errorf("failed to load messages: %w", err)
	case payload.IsAbsent():
		c.messages = []DisplayMessage{}
		c.notice = NoticeNoTranscript
		fire(c.transcript, triggerMessagesNone)
	case len(messages) == 0:
		c.messages = messages
		c.notice = NoticeEmptyConversation
		fire(c.transcript, triggerMessagesNone)
	default:
		c.messages = messages
		fire(c.transcript, triggerMessagesOK)
	}
	return nil
}

// isListed reports whether id is in the loaded, exclusion-filtered list. Callers hold mu.
func (c *ViewController) isListed(id SessionID) bool {
	for _, s := range c.all {
		if s.ID == id {
			return true
		}
	}
	return false
}

// failTranscript records a transcript failure. Callers hold mu.
func (c *ViewController) failTranscript(id SessionID, err error) {
	LogError("Failed to load conversation %s: %v", id, err)
	c.messages = []DisplayMessage{}
	if errors.Is(err, ErrSessionNotFound) {
		c.msgErr = fmt.Sprintf("Session %s was not found", id)
	} else {
		c.msgErr = fmt.Sprintf("Failed to load conversation: %v", err)
	}
	fire(c.transcript, triggerMessagesFail)
}

// ApplyFilters recomputes the visible list without fetching
func (c *ViewController) ApplyFilters(criteria FilterCriteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
	c.visible = FilterSessions(c.all, criteria)
	c.updateGauges()
}

// ClearFilters resets all criteria
func (c *ViewController) ClearFilters() {
	c.ApplyFilters(FilterCriteria{})
}

// ToggleSidebar flips the sidebar visibility
func (c *ViewController) ToggleSidebar() {
	c.mu.Lock()
	c.sidebarOpen = !c.sidebarOpen
	c.mu.Unlock()
}

// ToggleFilters flips the filter panel visibility
func (c *ViewController) ToggleFilters() {
	c.mu.Lock()
	c.filtersOpen = !c.filtersOpen
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state
func (c *ViewController) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := ViewState{
		ListState:       fmt.Sprint(c.list.MustState()),
		TranscriptState: fmt.Sprint(c.transcript.MustState()),
		ListError:       c.listErr,
		TranscriptError: c.msgErr,
		Notice:          c.notice,
		Sessions:        cloneSummaries(c.all),
		Visible:         cloneSummaries(c.visible),
		Criteria:        c.criteria,
		DateRange:       DateRangeOf(c.all),
		SelectedID:      c.selectedID,
		Messages:        cloneMessages(c.messages),
		SidebarOpen:     c.sidebarOpen,
		FiltersOpen:     c.filtersOpen,
	}
	if c.configErr != nil {
		state.ConfigError = c.configErr.Error()
	}
	return state
}

func (c *ViewController) updateGauges() {
	if c.metrics != nil {
		c.metrics.UpdateSessionCounts(len(c.all), len(c.visible))
	}
}

func cloneSummaries(in []SessionSummary) []SessionSummary {
	out := make([]SessionSummary, len(in))
	copy(out, in)
	return out
}

func cloneMessages(in []DisplayMessage) []DisplayMessage {
	out := make([]DisplayMessage, len(in))
	copy(out, in)
	return out
}
