package mapper

import "time"

// datePatterns is the fixed resolution order for free-text dates. Day-first
// is deliberately tried before month-first, so "03/04/2025" resolves to
// 3 April 2025 regardless of locale. Do not reorder.
var datePatterns = []string{
	"02/01/2006",
	"01/02/2006",
	"2006-01-02",
	"02-01-2006",
}

// ResolveDate parses a free-text date against the fixed pattern list and
// returns the first successful parse. ok is false when no pattern matches;
// callers bucketing by month skip such rows but keep the record in table
// views.
func ResolveDate(s string) (time.Time, bool) {
	for _, pattern := range datePatterns {
		if t, err := time.Parse(pattern, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
