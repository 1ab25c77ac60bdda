package web

import "github.com/mvdan/xurls"

// URLFinder finds URLs in recognized speech or chat messages. Scheme-less URLs ("example.com/pill.jpg") count too,
// since nobody dictates "https".
type URLFinder struct{}

func NewURLFinder() *URLFinder {
	return &URLFinder{}
}

// FindURLs returns the URLs in order of appearance, without duplicates.
func (u *URLFinder) FindURLs(str string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, url := range xurls.Relaxed.FindAllString(str, -1) {
		if seen[url] {
			continue
		}
		seen[url] = true
		result = append(result, url)
	}
	return result
}
