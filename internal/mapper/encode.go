package mapper

import "strings"

// BasicColumns is the fixed physical layout of the basic calendar format.
var BasicColumns = []string{
	"DATE",
	"VILLA",
	"TYPE_CLEAN",
	"PAX",
	"START_TIME",
	"RESERVATION_STATUS",
	"LAUNDRY",
	"COMMENTS",
}

// basicAliases lists, per physical column, the input keys accepted for it in
// priority order. Callers are inconsistent about key names (villa vs
// property, comments vs notes), so each column tolerates the variants seen in
// the wild.
var basicAliases = map[string][]string{
	"DATE":               {"date", "booking_date"},
	"VILLA":              {"villa", "property", "location"},
	"TYPE_CLEAN":         {"type_clean", "clean_type", "type"},
	"PAX":                {"pax", "guests"},
	"START_TIME":         {"start_time", "time"},
	"RESERVATION_STATUS": {"reservation_status", "status"},
	"LAUNDRY":            {"laundry"},
	"COMMENTS":           {"comments", "notes"},
}

// EncodeBasicRow resolves a loosely-keyed input mapping to the fixed 8-column
// basic layout. Every physical column receives exactly one string value;
// input keys that match no column are silently dropped.
func EncodeBasicRow(input map[string]string) []string {
	in := lowerKeys(input)
	out := make([]string, len(BasicColumns))
	for i, col := range BasicColumns {
		for _, alias := range basicAliases[col] {
			if v, ok := in[alias]; ok {
				out[i] = v
				break
			}
		}
	}
	return out
}

// fullKeywords maps header keywords to the semantic input key receiving the
// column. Evaluated in order; the first keyword contained in the lowercased
// header wins.
var fullKeywords = []struct {
	words []string
	field string
}{
	{[]string{"date"}, "date"},
	{[]string{"property", "location"}, "property"},
	{[]string{"guest", "name"}, "guest_name"},
	{[]string{"status", "code"}, "status"},
	{[]string{"time"}, "time"},
	{[]string{"notes", "comment"}, "notes"},
	{[]string{"email"}, "email"},
	{[]string{"phone"}, "phone"},
	{[]string{"price", "amount"}, "price"},
	{[]string{"duration", "hours"}, "duration"},
}

// EncodeFullRow resolves input against a header-driven dynamic layout: each
// column position is discovered by keyword match on its header. Columns
// matching no keyword fall back to an exact-name lookup in the input,
// defaulting to empty string. Unmatched input keys are silently dropped.
func EncodeFullRow(headers []string, input map[string]string) []string {
	out := make([]string, len(headers))
	for i, header := range headers {
		lower := strings.ToLower(header)
		matched := false
		for _, kw := range fullKeywords {
			if containsAny(lower, kw.words) {
				out[i] = input[kw.field]
				matched = true
				break
			}
		}
		if !matched {
			out[i] = input[header]
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}
