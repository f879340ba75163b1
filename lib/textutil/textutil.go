package textutil

import "strings"

// ContainsAny reports whether s contains any of the given substrings,
// case-insensitively.
func ContainsAny(s string, subs []string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// TitleWord capitalizes the first letter of a single lowercase word.
func TitleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
