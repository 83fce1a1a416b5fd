package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	content, err := Page(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, content, "<h1>Test</h1>")
}

func TestPage_InvalidURL(t *testing.T) {
	_, err := Page(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestPage_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Page(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 404")
}

func TestPage_NonHTMLContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"not": "html"}`))
	}))
	defer server.Close()

	_, err := Page(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-HTML content type")
}

func TestPage_FollowsRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>destination</body></html>"))
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirector.Close()

	content, err := Page(context.Background(), redirector.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, content, "destination")
}

func TestPage_CapsBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("a", MaxBodyBytes+10_000)))
	}))
	defer server.Close()

	content, err := Page(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Len(t, content, MaxBodyBytes)
}

func TestPage_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	_, err := Page(context.Background(), server.URL, &Options{Timeout: 20 * time.Millisecond, UserAgent: DefaultUserAgent})
	assert.Error(t, err)
}

func TestPage_TolerantDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte{'<', 'p', '>', 0xff, 0xfe, '<', '/', 'p', '>'})
	}))
	defer server.Close()

	content, err := Page(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, content, "<p>")
	assert.True(t, strings.HasSuffix(content, "</p>"))
}

func TestHTML_AbsorbsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.Empty(t, HTML(context.Background(), server.URL, nil))
	assert.Empty(t, HTML(context.Background(), "not-a-url", nil))
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("short"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
