// Package fetch provides bounded HTML retrieval for the classification pipeline.
// Fetch failures are a normal outcome: callers receive no content rather than
// an error they are expected to retry.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxBodyBytes caps how much of a response body is read, bounding memory and
// latency on oversized pages.
const MaxBodyBytes = 250_000

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 12 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Linkshelf/1.0)"

// Error represents a failure while fetching a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Page retrieves HTML content from a URL. Redirects are followed; responses
// with a non-success status or a non-HTML content type are rejected. The body
// is capped at MaxBodyBytes and decoded tolerantly, so a partial or badly
// encoded page still yields text.
func Page(ctx context.Context, urlStr string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("non-HTML content type %q", contentType)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if len(body) == 0 {
		return "", &Error{URL: urlStr, Message: "empty response body"}
	}

	return decodeTolerant(body), nil
}

// HTML is the boundary form of Page used by the classifier: content or
// nothing, with every failure mode collapsed into absence.
func HTML(ctx context.Context, urlStr string, opts *Options) string {
	content, err := Page(ctx, urlStr, opts)
	if err != nil {
		return ""
	}
	return content
}

// decodeTolerant converts raw bytes to a valid UTF-8 string, replacing
// invalid sequences instead of failing.
func decodeTolerant(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
