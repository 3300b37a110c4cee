package web

import (
	"html/template"
	"net/url"
	"time"

	"github.com/iksnae/session-dashboard/internal"
)

var templateFuncs = template.FuncMap{
	"day":         formatDay,
	"created":     formatCreated,
	"sessionName": sessionName,
	"speaker":     speaker,
	"pathID":      pathID,
}

// formatDay renders a filter bound for a date input; zero is empty
func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(internal.DayLayout)
}

func formatCreated(value string) string {
	t, ok := internal.ParseTimestamp(value)
	if !ok {
		return value
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func sessionName(s internal.SessionSummary) string {
	if s.Title != "" {
		return s.Title
	}
	return "Session " + s.ID.String()
}

func speaker(m internal.DisplayMessage) string {
	if m.IsUser {
		return "User"
	}
	return "Luci"
}

// pathID escapes an id for use as one URL path segment
func pathID(id internal.SessionID) string {
	return url.PathEscape(id.String())
}
