// Package urlutil provides URL extraction from free text and URL normalization
// shared by the store and pipeline for deduplication.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches a maximal run of non-whitespace, non-angle-bracket
// characters starting with an http or https scheme.
var urlPattern = regexp.MustCompile(`https?://[^\s<>\]]+`)

// trailingPunct is the set of punctuation characters stripped from the end of
// an extracted URL in a single pass. Covers sentence punctuation and closing
// delimiters, so markdown links like [text](url) lose the closing paren.
const trailingPunct = `.,;:!?)"]}`

// ExtractURLs returns the distinct URL-like tokens found in text, cleaned of
// surrounding angle brackets and trailing punctuation, in first-seen order.
func ExtractURLs(text string) []string {
	seen := make(map[string]bool)
	urls := make([]string, 0)
	for _, match := range urlPattern.FindAllString(text, -1) {
		cleaned := strings.Trim(match, "<>")
		cleaned = strings.TrimRight(cleaned, trailingPunct)
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		urls = append(urls, cleaned)
	}
	return urls
}

// Normalize returns the canonical form of rawURL used as the deduplication
// key: scheme and host lower-cased, path and query kept verbatim, fragment
// dropped. Input that does not parse as an absolute URL is returned unchanged.
// Normalize is idempotent.
func Normalize(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return rawURL
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	return parsed.String()
}

// Domain returns the lower-cased host of rawURL, or empty when it does not parse.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Host)
}
