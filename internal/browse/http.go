package browse

import (
	"context"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-scout/internal/resilience"
)

const maxBodyBytes = 2 << 20

// HTTPBrowser renders pages with plain net/http and goquery. It does not
// execute JavaScript; heavily client-rendered sites come back thin, which
// the hidden-email scan on raw markup partially compensates for.
type HTTPBrowser struct {
	client    *http.Client
	userAgent string
}

// HTTPOption configures the HTTPBrowser.
type HTTPOption func(*HTTPBrowser)

// WithClient overrides the default http.Client.
func WithClient(hc *http.Client) HTTPOption {
	return func(b *HTTPBrowser) {
		b.client = hc
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(b *HTTPBrowser) {
		b.userAgent = ua
	}
}

// NewHTTPBrowser creates an HTTPBrowser with a 20s per-visit timeout.
func NewHTTPBrowser(opts ...HTTPOption) *HTTPBrowser {
	b := &HTTPBrowser{
		client: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Visit fetches a URL and returns its rendered form.
func (b *HTTPBrowser) Visit(ctx context.Context, targetURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "browse: create request")
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "browse: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "browse: read body")
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("browse: status %d for %s", resp.StatusCode, targetURL), resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("browse: status %d for %s", resp.StatusCode, targetURL)
	}

	return renderPage(targetURL, string(body))
}

var spaceRe = regexp.MustCompile(`\s+`)

// renderPage parses markup into a Page: title, anchors, visible text.
func renderPage(pageURL, markup string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, eris.Wrap(err, "browse: parse html")
	}

	page := &Page{
		URL:   pageURL,
		HTML:  markup,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" {
			return
		}
		page.Anchors = append(page.Anchors, Anchor{
			Href: href,
			Text: strings.TrimSpace(s.Text()),
		})
	})

	// Visible text: drop non-content elements, then collapse whitespace.
	doc.Find("script, style, noscript, iframe, svg").Remove()
	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	page.Text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))

	return page, nil
}
