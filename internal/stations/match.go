package stations

import "strings"

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// matchesAny reports whether any of the fields contains the query,
// ignoring case.
func matchesAny(query string, fields ...string) bool {
	for _, f := range fields {
		if containsFold(f, query) {
			return true
		}
	}
	return false
}
