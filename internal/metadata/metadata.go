// Package metadata derives raw page metadata and a plain-text excerpt from
// HTML, without any model involvement. All fields are best-effort and may be
// empty.
package metadata

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta holds the raw metadata extracted from a page.
type Meta struct {
	Title       string
	Description string
	SiteName    string
	ImageURL    string
	Excerpt     string
}

// contentSelectors are tried in order to locate the main content region.
var contentSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".main-content",
	"#main-content",
}

// noiseSelector removes navigation, scripts and other non-content elements
// before text extraction.
const noiseSelector = "nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// Extract parses HTML and returns best-effort metadata plus a cleaned text
// excerpt. A parse failure yields an empty Meta rather than an error; the
// classifier treats missing fields as a normal outcome.
func Extract(html, pageURL string) *Meta {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &Meta{}
	}

	meta := &Meta{
		Title:       extractTitle(doc),
		Description: firstMetaContent(doc, `meta[name="description"]`, `meta[property="og:description"]`),
		SiteName:    firstMetaContent(doc, `meta[property="og:site_name"]`),
		ImageURL:    resolveAgainst(pageURL, firstMetaContent(doc, `meta[property="og:image"]`, `meta[name="twitter:image"]`)),
	}

	doc.Find(noiseSelector).Remove()

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}
	meta.Excerpt = cleanWhitespace(mainContent.Text())

	return meta
}

// extractTitle prefers og:title over the document title.
func extractTitle(doc *goquery.Document) string {
	if title := firstMetaContent(doc, `meta[property="og:title"]`); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// firstMetaContent returns the first non-empty content attribute among the
// given meta selectors.
func firstMetaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// resolveAgainst makes a possibly relative reference absolute against base.
func resolveAgainst(base, ref string) string {
	if ref == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// cleanWhitespace normalizes whitespace in text.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
