package browse

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html>
<head><title> Acme Corp </title><style>body{color:red}</style></head>
<body>
  <script>var tracker = "x@tracker.js";</script>
  <nav><a href="/">Home</a><a href="/contact">Contact Us</a></nav>
  <p>Welcome   to
  Acme.</p>
  <a href="mailto:info@acme.com">Email</a>
  <a>no href</a>
</body></html>`

func TestVisit_ParsesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	b := NewHTTPBrowser(WithClient(srv.Client()))
	page, err := b.Visit(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, page.URL)
	assert.Equal(t, "Acme Corp", page.Title)

	// Anchors without href are skipped; mailto kept (filtered later).
	require.Len(t, page.Anchors, 3)
	assert.Equal(t, Anchor{Href: "/contact", Text: "Contact Us"}, page.Anchors[1])
	assert.Equal(t, "mailto:info@acme.com", page.Anchors[2].Href)

	// Script content is excluded from text but present in raw HTML.
	assert.Contains(t, page.Text, "Welcome to Acme.")
	assert.NotContains(t, page.Text, "tracker")
	assert.Contains(t, page.HTML, "x@tracker.js")
}

func TestVisit_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	b := NewHTTPBrowser(WithClient(srv.Client()))
	_, err := b.Visit(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestVisit_TransientStatusMarked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := NewHTTPBrowser(WithClient(srv.Client()))
	_, err := b.Visit(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestRenderPage_WhitespaceCollapsed(t *testing.T) {
	page, err := renderPage("https://x.com/", "<body><p>a\n\n  b\tc</p></body>")
	require.NoError(t, err)
	assert.Equal(t, "a b c", page.Text)
}
