package mapper

import "strconv"

// NormalizeHeaders deduplicates a raw header row. The first occurrence of a
// name is kept as-is; later occurrences get a _1, _2, ... suffix in
// left-to-right order. Empty header cells are treated as a normal name, so a
// sparse header row yields "", "_1", "_2" and callers must tolerate
// empty-string keys.
func NormalizeHeaders(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for _, name := range raw {
		n, dup := seen[name]
		if !dup {
			seen[name] = 0
			out = append(out, name)
			continue
		}
		n++
		seen[name] = n
		out = append(out, name+"_"+strconv.Itoa(n))
	}
	return out
}
