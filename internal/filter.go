package internal

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DayLayout is the format of date filter inputs
const DayLayout = "2006-01-02"

// FilterCriteria holds the operator's list filters. Zero dates mean "no bound".
type FilterCriteria struct {
	Text     string    `json:"text"`
	DateFrom time.Time `json:"date_from,omitempty"`
	DateTo   time.Time `json:"date_to,omitempty"`
}

// IsEmpty reports whether no criterion is set
func (c FilterCriteria) IsEmpty() bool {
	return c.Text == "" && c.DateFrom.IsZero() && c.DateTo.IsZero()
}

// DateRange is the min and max creation day across a set of sessions
type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// ParseDay parses a YYYY-MM-DD input. An empty input returns the zero time.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DayLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}

// startOfDay is midnight of t's calendar day in t's location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay is the last instant of t's calendar day, covering all of 23:59:59
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FilterSessions returns the sessions matching every set criterion, in input order.
// A session whose creation time does not parse fails any date bound that is set.
func FilterSessions(all []SessionSummary, criteria FilterCriteria) []SessionSummary {
	query := strings.ToLower(criteria.Text)

	var from, to time.Time
	if !criteria.DateFrom.IsZero() {
		from = startOfDay(criteria.DateFrom)
	}
	if !criteria.DateTo.IsZero() {
		to = endOfDay(criteria.DateTo)
	}

	result := make([]SessionSummary, 0, len(all))
	for _, s := range all {
		if query != "" && !matchesText(s, query) {
			continue
		}
		if !from.IsZero() || !to.IsZero() {
			created, ok := s.CreatedTime()
			if !ok {
				continue
			}
			if !from.IsZero() && created.Before(from) {
				continue
			}
			if !to.IsZero() && created.After(to) {
				continue
			}
		}
		result = append(result, s)
	}
	return result
}

func matchesText(s SessionSummary, query string) bool {
	return strings.Contains(strings.ToLower(s.ID.String()), query) ||
		strings.Contains(strings.ToLower(s.Title), query) ||
		strings.Contains(strings.ToLower(s.Topic), query)
}

// SortNewestFirst orders sessions by creation time, newest first. Sessions with
// unparseable timestamps keep their relative order at the end.
func SortNewestFirst(sessions []SessionSummary) {
	sort.SliceStable(sessions, func(i, j int) bool {
		ti, okI := sessions[i].CreatedTime()
		tj, okJ := sessions[j].CreatedTime()
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI:
			return true
		default:
			return false
		}
	})
}

// DateRangeOf returns the UTC day bounds of the parseable creation times
func DateRangeOf(sessions []SessionSummary) DateRange {
	var minT, maxT time.Time
	found := false
	for _, s := range sessions {
		t, ok := s.CreatedTime()
		if !ok {
			continue
		}
		if !found || t.Before(minT) {
			minT = t
		}
		if !found || t.After(maxT) {
			maxT = t
		}
		found = true
	}
	if !found {
		return DateRange{}
	}
	return DateRange{
		Min: minT.UTC().Format(DayLayout),
		Max: maxT.UTC().Format(DayLayout),
	}
}
