// Package types provides type definitions for structured data used throughout the linkshelf system.
package types

import "time"

// Categories is the closed set of content categories a link can be classified into.
// The classifier forces any value outside this set to CategoryOther.
var Categories = []string{
	"code",
	"documentation",
	"video",
	"article",
	"social",
	"news",
	"tool",
	"design",
	"learning",
	"research",
	"reference",
	"other",
}

// CategoryOther is the catch-all category used when classification fails or
// the model returns a value outside the closed set.
const CategoryOther = "other"

// IsValidCategory reports whether c is a member of the closed category set.
func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// LinkData is the transient classification result for a single URL, produced
// by the classifier and consumed by the store. Optional fields are nil when
// neither the model nor raw extraction yielded a value.
type LinkData struct {
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	SiteName    *string `json:"site_name"`
	ImageURL    *string `json:"image_url"`
	Category    string  `json:"category"`
	Context     *string `json:"context"`
}

// Record is a persisted link entry. Records are immutable once written; the
// store assigns IDs and derives normalized_url and domain at save time.
type Record struct {
	ID            int       `json:"id"`
	URL           string    `json:"url"`
	NormalizedURL string    `json:"normalized_url"`
	Domain        string    `json:"domain"`
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	SiteName      *string   `json:"site_name"`
	ImageURL      *string   `json:"image_url"`
	Category      string    `json:"category"`
	Context       *string   `json:"context"`
	CreatedAt     time.Time `json:"created_at"`
}

// Document is the on-disk shape of the link store. The whole document is the
// unit of durability: every save rewrites it in full.
type Document struct {
	Links  []Record `json:"links"`
	NextID int      `json:"next_id"`
}

// ProcessError records a single URL that failed during pipeline processing.
type ProcessError struct {
	URL     string `json:"url"`
	Message string `json:"error"`
}

// ProcessResult aggregates the outcome of one pipeline invocation. Saved,
// Skipped and len(Errors) partition the Total unique input URLs.
type ProcessResult struct {
	RunID   string         `json:"run_id"`
	Total   int            `json:"total"`
	Saved   int            `json:"saved"`
	Skipped int            `json:"skipped"`
	Errors  []ProcessError `json:"errors"`
}

// StringPtr returns a pointer to s, or nil when s is empty. It is the
// conversion helper between extracted/model values and optional fields.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue returns the value of p, or empty when p is nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
