package common

import "strings"

// IsImageFormat returns true if the URL (or path) points to an image judging by its extension.
func IsImageFormat(url string) bool {
	url = strings.ToLower(url)
	if index := strings.IndexAny(url, "?#"); index != -1 {
		url = url[:index]
	}
	return strings.HasSuffix(url, ".jpg") ||
		strings.HasSuffix(url, ".jpeg") ||
		strings.HasSuffix(url, ".png") ||
		strings.HasSuffix(url, ".gif") ||
		strings.HasSuffix(url, ".webp")
}
