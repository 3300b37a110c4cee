package internal

// excludedIPs are internal/test clients whose sessions are never shown
var excludedIPs = newExclusionList(
	"2.138.132.39",
	"2.138.102.219",
	"80.103.58.188",
	"79.153.26.117",
	"83.56.222.120",
)

// ExclusionList is a read-only set of source IPs
type ExclusionList struct {
	ips map[string]struct{}
}

func newExclusionList(ips ...string) ExclusionList {
	set := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		set[ip] = struct{}{}
	}
	return ExclusionList{ips: set}
}

// Exclusions returns the fixed process-wide exclusion list
func Exclusions() ExclusionList {
	return excludedIPs
}

// Contains reports an exact match of ip
func (l ExclusionList) Contains(ip string) bool {
	_, ok := l.ips[ip]
	return ok
}

// Len returns the number of excluded IPs
func (l ExclusionList) Len() int {
	return len(l.ips)
}

// Visible drops excluded sessions and sessions without a transcript
func (l ExclusionList) Visible(sessions []SessionSummary) []SessionSummary {
	out := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		if l.Contains(s.SourceIP) || !s.HasTranscript {
			continue
		}
		out = append(out, s)
	}
	return out
}
