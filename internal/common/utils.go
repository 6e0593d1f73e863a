package common

import "strings"

// HasAny reports whether s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// EqualFoldAny reports whether s matches any of the candidates, ignoring case
// and surrounding whitespace.
func EqualFoldAny(s string, candidates ...string) bool {
	s = strings.TrimSpace(s)
	for _, c := range candidates {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}

// UpperTrim upper-cases s and strips surrounding whitespace, the canonical
// form for region codes.
func UpperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
