// Package classify combines raw page metadata with a language-model
// classification into a canonical link record. Model and fetch faults are
// absorbed: Analyze always produces a usable LinkData.
package classify

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/jonathan/linkshelf/internal/fetch"
	"github.com/jonathan/linkshelf/internal/llm"
	"github.com/jonathan/linkshelf/internal/metadata"
	"github.com/jonathan/linkshelf/internal/prompts"
	"github.com/jonathan/linkshelf/internal/types"
)

// MaxContentChars is the character budget for the page excerpt sent to the model.
const MaxContentChars = 2500

// notAvailable is the placeholder for absent raw metadata in the user prompt.
const notAvailable = "(not available)"

// jsonObjectPattern locates the largest {...} substring in a malformed response.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// modelOutput is the intermediate decode target for the model's JSON response.
// Absent or invalid fields decode to their zero value and fall back to raw
// metadata during the merge.
type modelOutput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SiteName    string `json:"site_name"`
	Category    string `json:"category"`
	Context     string `json:"context"`
}

// Options configures a Classifier.
type Options struct {
	FetchOptions *fetch.Options
	UseBrowser   bool
}

// Classifier analyzes URLs into classified link records.
type Classifier struct {
	client     llm.Client
	fetchOpts  *fetch.Options
	useBrowser bool
	system     string
	userTmpl   string
}

// New creates a Classifier backed by the given model client.
func New(client llm.Client, opts Options) *Classifier {
	fetchOpts := opts.FetchOptions
	if fetchOpts == nil {
		fetchOpts = fetch.DefaultOptions()
	}
	return &Classifier{
		client:     client,
		fetchOpts:  fetchOpts,
		useBrowser: opts.UseBrowser,
		system:     prompts.MustGet("classify.json", "system"),
		userTmpl:   prompts.MustGet("classify.json", "user"),
	}
}

// Analyze fetches a URL, extracts raw metadata, asks the model for a
// classification and merges the two. Fetch and model failures degrade to
// raw-only or empty data; Analyze never fails for them.
func (c *Classifier) Analyze(ctx context.Context, url, domain string) types.LinkData {
	meta := c.fetchAndExtract(ctx, url)

	out := modelOutput{}
	if raw, err := c.client.GenerateJSON(ctx, c.system, c.buildUserPrompt(url, domain, meta)); err == nil {
		out = parseModelJSON(raw)
	}

	return types.LinkData{
		URL:         url,
		Title:       mergeField(out.Title, meta.Title),
		Description: mergeField(out.Description, meta.Description),
		SiteName:    mergeField(out.SiteName, meta.SiteName),
		ImageURL:    types.StringPtr(meta.ImageURL),
		Category:    validCategory(out.Category),
		Context:     types.StringPtr(out.Context),
	}
}

// fetchAndExtract retrieves the page and derives raw metadata. Every failure
// yields an empty Meta. When browser rendering is enabled and the plain fetch
// produced little text, the page is re-rendered headlessly.
func (c *Classifier) fetchAndExtract(ctx context.Context, url string) *metadata.Meta {
	html := fetch.HTML(ctx, url, c.fetchOpts)
	if html == "" && !c.useBrowser {
		return &metadata.Meta{}
	}

	meta := &metadata.Meta{}
	if html != "" {
		meta = metadata.Extract(html, url)
	}

	if c.useBrowser && fetch.ShouldUseBrowser(meta.Excerpt) {
		if rendered, err := fetch.WithBrowser(ctx, url, c.fetchOpts.Timeout); err == nil {
			meta = metadata.Extract(rendered, url)
		}
	}

	return meta
}

// buildUserPrompt fills the user template with raw metadata and the bounded
// content excerpt.
func (c *Classifier) buildUserPrompt(url, domain string, meta *metadata.Meta) string {
	return prompts.Format(c.userTmpl, map[string]string{
		"URL":         url,
		"Domain":      domain,
		"Title":       orPlaceholder(meta.Title),
		"Description": orPlaceholder(meta.Description),
		"SiteName":    orPlaceholder(meta.SiteName),
		"Content":     truncateContent(meta.Excerpt),
	})
}

// truncateContent bounds the excerpt to MaxContentChars characters, marking
// the cut. The budget counts runes, not bytes, so a cut inside multi-byte
// text still yields valid UTF-8 for the model call.
func truncateContent(content string) string {
	if content == "" {
		return "(no content extracted)"
	}
	runes := []rune(content)
	if len(runes) > MaxContentChars {
		return string(runes[:MaxContentChars]) + "\n... [truncated]"
	}
	return content
}

func orPlaceholder(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// mergeField prefers the model value, falling back to the raw extracted one.
func mergeField(model, raw string) *string {
	if model != "" {
		return types.StringPtr(model)
	}
	return types.StringPtr(raw)
}

// validCategory accepts only members of the closed category set.
func validCategory(c string) string {
	if types.IsValidCategory(c) {
		return c
	}
	return types.CategoryOther
}

// parseModelJSON decodes an untrusted model response. It strips code fences,
// tries a direct parse, then the largest {...} substring, and finally gives up
// with an empty result. A response that parses but fails schema validation is
// also treated as empty.
func parseModelJSON(text string) modelOutput {
	cleaned := llm.CleanJSONBlock(text)

	candidate := cleaned
	if !json.Valid([]byte(candidate)) {
		match := jsonObjectPattern.FindString(cleaned)
		if match == "" || !json.Valid([]byte(match)) {
			return modelOutput{}
		}
		candidate = match
	}

	if !validateModelJSON(candidate) {
		return modelOutput{}
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return modelOutput{}
	}
	return out
}
