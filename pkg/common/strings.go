package common

import "strings"

// ContainsAnySubstring returns true if `str` contains at least one of `substrings`. Plain containment: "eat"
// is found in "repeat".
func ContainsAnySubstring(str string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(str, s) {
			return true
		}
	}
	return false
}
